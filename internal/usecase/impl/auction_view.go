package impl

import (
	"time"

	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	"lebay/internal/usecase"
)

func newAuctionView(a *entity.Auction, now time.Time) *usecase.AuctionView {
	remaining := auction.TimeRemaining(a.Event, now)

	return &usecase.AuctionView{
		Auction:           a,
		CurrentPrice:      auction.CurrentPrice(a),
		HasStarted:        auction.HasStarted(a.Event, now),
		HasEnded:          auction.HasEnded(a.Event, now),
		IsRunning:         auction.IsRunning(a, now),
		TimeRemaining:     remaining,
		TimeRemainingText: auction.FormatTimeRemaining(remaining),
		PaymentStatus:     auction.PaymentStatusLabel(a),
		At:                now,
	}
}

func newAuctionViews(auctions []*entity.Auction, now time.Time) []*usecase.AuctionView {
	views := make([]*usecase.AuctionView, 0, len(auctions))
	for _, a := range auctions {
		views = append(views, newAuctionView(a, now))
	}

	return views
}
