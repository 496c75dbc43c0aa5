package entity

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the sale state of an item.
type ItemStatus string

const (
	ItemStatusIdle    ItemStatus = "idle"
	ItemStatusRunning ItemStatus = "running"
	ItemStatusSold    ItemStatus = "sold"
	ItemStatusExpired ItemStatus = "expired"
)

func (s ItemStatus) String() string {
	return string(s)
}

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusIdle, ItemStatusRunning, ItemStatusSold, ItemStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status can no longer change.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusSold || s == ItemStatusExpired
}

// CanTransitionTo allows only idle → running → {sold, expired}.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	switch s {
	case ItemStatusIdle:
		return next == ItemStatusRunning
	case ItemStatusRunning:
		return next == ItemStatusSold || next == ItemStatusExpired
	default:
		return false
	}
}

// ItemCondition describes the physical state of an item.
type ItemCondition string

const (
	ItemConditionNew        ItemCondition = "new"
	ItemConditionLikeNew    ItemCondition = "like_new"
	ItemConditionGood       ItemCondition = "good"
	ItemConditionAcceptable ItemCondition = "acceptable"
	ItemConditionForParts   ItemCondition = "for_parts"
)

func (c ItemCondition) IsValid() bool {
	switch c {
	case ItemConditionNew, ItemConditionLikeNew, ItemConditionGood, ItemConditionAcceptable, ItemConditionForParts:
		return true
	default:
		return false
	}
}

// Item is something a seller offers through auction events.
type Item struct {
	ID          uuid.UUID
	SellerID    uuid.UUID // Owning user.
	CategoryID  uuid.UUID
	Title       string
	Description string
	Condition   ItemCondition
	Status      ItemStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsEditable reports whether the item details may still be changed.
func (i *Item) IsEditable() bool {
	return i.Status == ItemStatusIdle
}

// IsListable reports whether a new auction event may be created for the item.
func (i *Item) IsListable() bool {
	return i.Status == ItemStatusIdle
}
