package handler

import (
	"log/slog"
	"net/http"

	"lebay/config"
	"lebay/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type SweepHandlerParams struct {
	fx.In

	Config       *config.Config
	Logger       *slog.Logger
	SettlementUC usecase.SettlementUsecase
}

// SweepHandler runs a settlement sweep on demand.
type SweepHandler struct {
	batchSize    int
	logger       *slog.Logger
	settlementUC usecase.SettlementUsecase
}

func NewSweepHandler(params SweepHandlerParams) *SweepHandler {
	return &SweepHandler{
		batchSize:    params.Config.Auction.SweepBatchSize,
		logger:       params.Logger,
		settlementUC: params.SettlementUC,
	}
}

type SweepResponse struct {
	Scanned        int `json:"scanned"`
	Sold           int `json:"sold"`
	Expired        int `json:"expired"`
	AlreadySettled int `json:"already_settled"`
	Failed         int `json:"failed"`
}

// HandleSweep settles ended auctions. batch_size overrides the configured size.
func (h *SweepHandler) HandleSweep(c echo.Context) error {
	// POST bodies are not bound from the query string by echo's default binder.
	var requested int
	if err := echo.QueryParamsBinder(c).Int("batch_size", &requested).BindError(); err != nil || requested < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid batch_size"})
	}

	batchSize := h.batchSize
	if requested > 0 {
		batchSize = requested
	}

	result, err := h.settlementUC.Sweep(c.Request().Context(), batchSize)
	if err != nil {
		h.logger.Error("[Settler] Sweep failed", slog.Any("error", err))

		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "sweep failed"})
	}

	return c.JSON(http.StatusOK, &SweepResponse{
		Scanned:        result.Scanned,
		Sold:           result.Sold,
		Expired:        result.Expired,
		AlreadySettled: result.AlreadySettled,
		Failed:         result.Failed,
	})
}
