package auction

import (
	"testing"
	"time"

	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newAuction(starting string, status entity.ItemStatus) *entity.Auction {
	return &entity.Auction{
		Event: &entity.AuctionEvent{
			ID:            uuid.New(),
			StartTime:     t0,
			EndTime:       t0.Add(24 * time.Hour),
			StartingPrice: dec(starting),
		},
		Item: &entity.Item{ID: uuid.New(), Status: status},
	}
}

// accept applies an accepted bid the way the bidding use case does.
func accept(a *entity.Auction, amount decimal.Decimal) {
	bidder := uuid.New()
	a.HighestBid = &entity.Bid{AuctionEventID: a.Event.ID, BidderID: bidder, Amount: amount}
	a.BidCount++
	a.Event.WinningBidderID = &bidder
}

func TestLifecyclePredicates(t *testing.T) {
	a := newAuction("10.00", entity.ItemStatusRunning)

	tests := []struct {
		name    string
		now     time.Time
		started bool
		ended   bool
		running bool
	}{
		{name: "before start", now: t0.Add(-time.Second), started: false, ended: false, running: false},
		{name: "at start", now: t0, started: true, ended: false, running: true},
		{name: "midway", now: t0.Add(12 * time.Hour), started: true, ended: false, running: true},
		{name: "at end", now: a.Event.EndTime, started: true, ended: true, running: false},
		{name: "after end", now: a.Event.EndTime.Add(time.Minute), started: true, ended: true, running: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.started, HasStarted(a.Event, tt.now))
			assert.Equal(t, tt.ended, HasEnded(a.Event, tt.now))
			assert.Equal(t, tt.running, IsRunning(a, tt.now))
		})
	}
}

func TestIsRunning_RequiresRunningItem(t *testing.T) {
	midway := t0.Add(time.Hour)
	for _, status := range []entity.ItemStatus{entity.ItemStatusIdle, entity.ItemStatusSold, entity.ItemStatusExpired} {
		a := newAuction("1.00", status)
		assert.False(t, IsRunning(a, midway), status)
	}
}

func TestCurrentPrice(t *testing.T) {
	a := newAuction("10.00", entity.ItemStatusRunning)
	assert.True(t, dec("10.00").Equal(CurrentPrice(a)))

	prev := CurrentPrice(a)
	for _, amount := range []string{"10.01", "12.00", "15.50", "100"} {
		require.NoError(t, ValidateBid(a, dec(amount), t0.Add(time.Hour)))
		accept(a, dec(amount))

		price := CurrentPrice(a)
		assert.True(t, price.GreaterThanOrEqual(prev), "price must never decrease")
		assert.True(t, dec(amount).Equal(price))
		prev = price
	}
}

func TestValidateBid(t *testing.T) {
	midway := t0.Add(time.Hour)

	tests := []struct {
		name    string
		status  entity.ItemStatus
		highest string
		amount  string
		now     time.Time
		wantErr *domainerrors.BaseError
	}{
		{name: "above starting price", status: entity.ItemStatusRunning, amount: "10.01", now: midway},
		{name: "equal to starting price", status: entity.ItemStatusRunning, amount: "10.00", now: midway, wantErr: domainerrors.ErrBidTooLow},
		{name: "below starting price", status: entity.ItemStatusRunning, amount: "9.99", now: midway, wantErr: domainerrors.ErrBidTooLow},
		{name: "equal to highest bid", status: entity.ItemStatusRunning, highest: "12.00", amount: "12.00", now: midway, wantErr: domainerrors.ErrBidTooLow},
		{name: "below highest bid", status: entity.ItemStatusRunning, highest: "12.00", amount: "11.00", now: midway, wantErr: domainerrors.ErrBidTooLow},
		{name: "above highest bid", status: entity.ItemStatusRunning, highest: "12.00", amount: "12.01", now: midway},
		{name: "at end time", status: entity.ItemStatusRunning, amount: "1000", now: t0.Add(24 * time.Hour), wantErr: domainerrors.ErrAuctionExpired},
		{name: "after end time", status: entity.ItemStatusRunning, amount: "1000", now: t0.Add(48 * time.Hour), wantErr: domainerrors.ErrAuctionExpired},
		{name: "settled item", status: entity.ItemStatusSold, amount: "1000", now: midway, wantErr: domainerrors.ErrAuctionExpired},
		{name: "before start", status: entity.ItemStatusRunning, amount: "1000", now: t0.Add(-time.Minute), wantErr: domainerrors.ErrAuctionNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAuction("10.00", tt.status)
			if tt.highest != "" {
				accept(a, dec(tt.highest))
			}

			err := ValidateBid(a, dec(tt.amount), tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateBid_SecondLowerBidRejected(t *testing.T) {
	a := newAuction("10.00", entity.ItemStatusRunning)
	now := t0.Add(time.Hour)

	require.NoError(t, ValidateBid(a, dec("12.00"), now))
	accept(a, dec("12.00"))

	err := ValidateBid(a, dec("11.00"), now)
	assert.True(t, errors.Is(err, domainerrors.ErrBidTooLow))
}

func TestSettlementOutcome(t *testing.T) {
	ended := t0.Add(25 * time.Hour)

	t.Run("no bids expires", func(t *testing.T) {
		a := newAuction("10.00", entity.ItemStatusRunning)
		status, changed := SettlementOutcome(a, ended)
		assert.True(t, changed)
		assert.Equal(t, entity.ItemStatusExpired, status)
	})

	t.Run("one bid sells to that bidder", func(t *testing.T) {
		a := newAuction("10.00", entity.ItemStatusRunning)
		accept(a, dec("15.00"))

		status, changed := SettlementOutcome(a, ended)
		assert.True(t, changed)
		assert.Equal(t, entity.ItemStatusSold, status)
		assert.Equal(t, a.HighestBid.BidderID, *a.Event.WinningBidderID)
	})

	t.Run("still running is untouched", func(t *testing.T) {
		a := newAuction("10.00", entity.ItemStatusRunning)
		status, changed := SettlementOutcome(a, t0.Add(time.Hour))
		assert.False(t, changed)
		assert.Equal(t, entity.ItemStatusRunning, status)
	})

	t.Run("not yet started is untouched", func(t *testing.T) {
		a := newAuction("10.00", entity.ItemStatusRunning)
		_, changed := SettlementOutcome(a, t0.Add(-time.Hour))
		assert.False(t, changed)
	})

	t.Run("terminal states are idempotent", func(t *testing.T) {
		for _, s := range []entity.ItemStatus{entity.ItemStatusSold, entity.ItemStatusExpired} {
			a := newAuction("10.00", s)
			a.BidCount = 3
			status, changed := SettlementOutcome(a, ended)
			assert.False(t, changed)
			assert.Equal(t, s, status)
		}
	})
}

func TestPaymentStatusLabel(t *testing.T) {
	a := newAuction("10.00", entity.ItemStatusSold)
	assert.False(t, IsPaid(a))
	assert.Equal(t, "Unpaid", PaymentStatusLabel(a))

	a.Sales = []*entity.Sale{{PaymentStatus: entity.PaymentStatusCleared}, {PaymentStatus: entity.PaymentStatusProcessing}}
	assert.True(t, IsPaid(a))
	assert.Equal(t, "cleared", PaymentStatusLabel(a))
}
