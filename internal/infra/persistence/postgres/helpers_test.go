package postgres

import (
	"fmt"
	"strings"
	"testing"

	"lebay/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "vase", want: "%vase%"},
		{in: "100%", want: `%100\%%`},
		{in: "a_b", want: `%a\_b%`},
		{in: `c:\x`, want: `%c:\\x%`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.in))
		})
	}
}

func TestAuctionOrder(t *testing.T) {
	tests := []struct {
		sort repository.AuctionSort
		want string
	}{
		{sort: repository.AuctionSortTitle, want: "items.title ASC"},
		{sort: repository.AuctionSortPriceAsc, want: currentPriceSQL + " ASC"},
		{sort: repository.AuctionSortPriceDesc, want: currentPriceSQL + " DESC"},
		{sort: repository.AuctionSortEndingSoon, want: "auction_events.end_time ASC"},
		{sort: repository.AuctionSortNewest, want: "auction_events.created_at DESC"},
		{sort: repository.AuctionSortDefault, want: "auction_events.created_at ASC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			order := auctionOrder(tt.sort)
			assert.Equal(t, tt.want, order[0])
			// stable paging needs a unique tiebreaker
			assert.True(t, strings.HasPrefix(order[len(order)-1], "auction_events.id"))
		})
	}
}

func TestConstraintViolationDetection(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_sales_auction_event_id"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_items_category"}
	notNull := &pgconn.PgError{Code: "23502"}

	assert.True(t, isUniqueConstraintViolation(unique))
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueConstraintViolation(fk))

	assert.True(t, isForeignKeyConstraintViolation(fk))
	assert.True(t, isForeignKeyConstraintViolation(gorm.ErrForeignKeyViolated))
	assert.Equal(t, "fk_items_category", constraintName(fk))

	assert.True(t, isNotNullConstraintViolation(notNull))
	assert.False(t, isCheckConstraintViolation(notNull))
	assert.True(t, isCheckConstraintViolation(gorm.ErrCheckConstraintViolated))

	assert.Equal(t, "", constraintName(gorm.ErrRecordNotFound))
}
