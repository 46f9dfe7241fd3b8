package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction.
// Transitions only move forward: SCHEDULED -> OPEN -> CLOSED.
type AuctionStatus string

const (
	StatusScheduled AuctionStatus = "SCHEDULED"
	StatusOpen      AuctionStatus = "OPEN"
	StatusClosed    AuctionStatus = "CLOSED"
)

// User represents a participant in the auction
type User struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item represents an auction item
type Item struct {
	ItemID      string    `json:"item_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Auction is the timed sale of a single item. Exactly one auction may exist
// per item. CurrentPrice only moves up, via accepted bids. Version is bumped
// by the store on every write and used for optimistic conflict detection.
type Auction struct {
	AuctionID       string          `json:"auction_id"`
	ItemID          string          `json:"item_id"`
	Status          AuctionStatus   `json:"status"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	StartingPrice   decimal.Decimal `json:"starting_price"`
	MinIncrement    decimal.Decimal `json:"min_increment"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	CurrentWinnerID string          `json:"current_winner_id,omitempty"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	Version         int64           `json:"version"`
}

// Bid represents a user's accepted bid on an auction. Bids are immutable and
// form an append-only, time-ordered ledger per auction.
type Bid struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// EffectiveStatus derives the live status from the persisted status and the
// auction's time range. CLOSED is terminal: once persisted, the time range is
// not consulted again.
func (a *Auction) EffectiveStatus(now time.Time) AuctionStatus {
	if a.Status == StatusClosed {
		return StatusClosed
	}
	if now.Before(a.StartTime) {
		return StatusScheduled
	}
	if !now.Before(a.EndTime) {
		return StatusClosed
	}
	return StatusOpen
}

// RefreshStatus overwrites the persisted status with the effective status and
// reports whether anything changed. ClosedAt is stamped exactly once, on the
// transition to CLOSED. Calling it again with the same now is a no-op.
func (a *Auction) RefreshStatus(now time.Time) bool {
	effective := a.EffectiveStatus(now)
	if effective == a.Status {
		return false
	}
	a.Status = effective
	if effective == StatusClosed {
		closedAt := now
		a.ClosedAt = &closedAt
	}
	return true
}

// ApplyWinningBid records an accepted bid on the auction.
func (a *Auction) ApplyWinningBid(bidderID string, amount decimal.Decimal) {
	a.CurrentWinnerID = bidderID
	a.CurrentPrice = amount
}
