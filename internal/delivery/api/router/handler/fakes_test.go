package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/validator"
	"lebay/internal/domain/entity"
	"lebay/internal/domain/service"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeTokenService accepts "token-<uuid>" as an access token for that user.
type fakeTokenService struct{}

func (fakeTokenService) GenerateTokens(userID uuid.UUID, _ []string) (string, string, error) {
	return "token-" + userID.String(), "refresh-" + userID.String(), nil
}

func (fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	raw, ok := strings.CutPrefix(tokenString, "token-")
	if !ok {
		return nil, errors.New("invalid token")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &service.Claims{UserID: userID, Type: service.TokenTypeAccess}, nil
}

func (fakeTokenService) GetRefreshTokenDuration() time.Duration { return time.Hour }

type testServer struct {
	e    *echo.Echo
	auth *middleware.AuthMiddleware
}

func newTestServer() *testServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return &testServer{e: e, auth: middleware.NewAuthMiddleware(fakeTokenService{})}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, target string, userID *uuid.UUID, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer token-"+userID.String())
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleAuctionView(now time.Time) *usecase.AuctionView {
	item := &entity.Item{
		ID:        uuid.New(),
		SellerID:  uuid.New(),
		Title:     "Vintage camera",
		Condition: entity.ItemConditionGood,
		Status:    entity.ItemStatusRunning,
	}
	event := &entity.AuctionEvent{
		ID:             uuid.New(),
		ItemID:         item.ID,
		StartTime:      now.Add(-time.Hour),
		EndTime:        now.Add(time.Hour),
		StartingPrice:  dec("10.00"),
		ShippingMethod: entity.ShippingMethodUSPS,
	}

	return &usecase.AuctionView{
		Auction:           &entity.Auction{Event: event, Item: item},
		CurrentPrice:      event.StartingPrice,
		HasStarted:        true,
		IsRunning:         true,
		TimeRemaining:     time.Hour,
		TimeRemainingText: "1 hour",
		PaymentStatus:     "Unpaid",
		At:                now,
	}
}

type fakeAuctionUsecase struct {
	getAuction func(ctx context.Context, auctionID uuid.UUID) (*usecase.AuctionView, error)
	browse     func(ctx context.Context, input *usecase.BrowseInput) (*usecase.AuctionPage, error)
	search     func(ctx context.Context, query string) ([]*usecase.AuctionView, error)
	history    func(ctx context.Context, auctionID uuid.UUID) (*usecase.BidHistory, error)
	placeBid   func(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*entity.Bid, error)
}

func (f *fakeAuctionUsecase) GetAuction(ctx context.Context, auctionID uuid.UUID) (*usecase.AuctionView, error) {
	return f.getAuction(ctx, auctionID)
}

func (f *fakeAuctionUsecase) Browse(ctx context.Context, input *usecase.BrowseInput) (*usecase.AuctionPage, error) {
	return f.browse(ctx, input)
}

func (f *fakeAuctionUsecase) Search(ctx context.Context, query string) ([]*usecase.AuctionView, error) {
	return f.search(ctx, query)
}

func (f *fakeAuctionUsecase) GetBidHistory(ctx context.Context, auctionID uuid.UUID) (*usecase.BidHistory, error) {
	return f.history(ctx, auctionID)
}

func (f *fakeAuctionUsecase) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*entity.Bid, error) {
	return f.placeBid(ctx, auctionID, bidderID, amount)
}

type fakeSettlementUsecase struct {
	settle func(ctx context.Context, auctionID uuid.UUID) (entity.ItemStatus, error)
	ended  func(ctx context.Context, auctionID uuid.UUID) (*usecase.AuctionView, error)
}

func (f *fakeSettlementUsecase) Settle(ctx context.Context, auctionID uuid.UUID) (entity.ItemStatus, error) {
	return f.settle(ctx, auctionID)
}

func (f *fakeSettlementUsecase) GetEndedAuction(ctx context.Context, auctionID uuid.UUID) (*usecase.AuctionView, error) {
	return f.ended(ctx, auctionID)
}

func (f *fakeSettlementUsecase) Sweep(context.Context, int) (*usecase.SweepResult, error) {
	return &usecase.SweepResult{}, nil
}

type fakeUserUsecase struct {
	register func(ctx context.Context, input *usecase.RegisterUserInput) (*entity.User, error)
	login    func(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error)
	profile  func(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

func (f *fakeUserUsecase) Register(ctx context.Context, input *usecase.RegisterUserInput) (*entity.User, error) {
	return f.register(ctx, input)
}

func (f *fakeUserUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return f.login(ctx, input)
}

func (f *fakeUserUsecase) RefreshToken(context.Context, *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	return &usecase.RefreshTokenOutput{}, nil
}

func (f *fakeUserUsecase) Logout(context.Context, *usecase.LogoutInput) error {
	return nil
}

func (f *fakeUserUsecase) ChangePassword(context.Context, uuid.UUID, *usecase.ChangePasswordInput) error {
	return nil
}

func (f *fakeUserUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return f.profile(ctx, userID)
}

func (f *fakeUserUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, _ *usecase.UpdateProfileInput) (*entity.User, error) {
	return f.profile(ctx, userID)
}

func (f *fakeUserUsecase) GetHome(ctx context.Context, userID uuid.UUID) (*usecase.UserHome, error) {
	user, err := f.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &usecase.UserHome{User: user}, nil
}

type fakePaymentUsecase struct {
	pay       func(ctx context.Context, auctionID, payerID uuid.UUID, input *usecase.PayInput) (*entity.Sale, error)
	invoiceQR func(ctx context.Context, userID, saleID uuid.UUID) ([]byte, error)
}

func (f *fakePaymentUsecase) Pay(ctx context.Context, auctionID, payerID uuid.UUID, input *usecase.PayInput) (*entity.Sale, error) {
	return f.pay(ctx, auctionID, payerID, input)
}

func (f *fakePaymentUsecase) ListSales(context.Context, uuid.UUID) ([]*entity.Sale, error) {
	return nil, nil
}

func (f *fakePaymentUsecase) UpdatePaymentStatus(context.Context, uuid.UUID, uuid.UUID, entity.PaymentStatus) (*entity.Sale, error) {
	return &entity.Sale{}, nil
}

func (f *fakePaymentUsecase) GetInvoiceQR(ctx context.Context, userID, saleID uuid.UUID) ([]byte, error) {
	return f.invoiceQR(ctx, userID, saleID)
}
