package broadcast

import (
	"time"

	model "auction-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// EventType identifies the kind of a domain event.
type EventType string

const (
	EventSnapshot         EventType = "SNAPSHOT"
	EventAuctionScheduled EventType = "AUCTION_SCHEDULED"
	EventAuctionOpened    EventType = "AUCTION_OPENED"
	EventAuctionClosed    EventType = "AUCTION_CLOSED"
	EventBidPlaced        EventType = "BID_PLACED"
)

// Event is the envelope delivered to subscribers. The auction payload carries
// the effective status at event time, not the persisted one, so subscribers
// never see a stale SCHEDULED/OPEN for an auction whose window has passed.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	ItemID    string          `json:"item_id"`
	Auction   *AuctionPayload `json:"auction,omitempty"`
	Bid       *BidPayload     `json:"bid,omitempty"`
}

type AuctionPayload struct {
	AuctionID       string              `json:"auction_id"`
	Status          model.AuctionStatus `json:"status"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	StartingPrice   decimal.Decimal     `json:"starting_price"`
	MinIncrement    decimal.Decimal     `json:"min_increment"`
	CurrentPrice    decimal.Decimal     `json:"current_price"`
	CurrentWinnerID string              `json:"current_winner_id,omitempty"`
	ClosedAt        *time.Time          `json:"closed_at,omitempty"`
}

type BidPayload struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Snapshot builds the initial-state event sent to a new subscriber. The
// auction may be nil when the item has no auction yet.
func Snapshot(itemID string, auction *model.Auction, now time.Time) Event {
	var payload *AuctionPayload
	if auction != nil {
		payload = toAuctionPayload(*auction, now)
	}
	return Event{
		Type:      EventSnapshot,
		Timestamp: now,
		ItemID:    itemID,
		Auction:   payload,
	}
}

// AuctionEvent builds a lifecycle event (scheduled/opened/closed).
func AuctionEvent(eventType EventType, itemID string, auction model.Auction, now time.Time) Event {
	return Event{
		Type:      eventType,
		Timestamp: now,
		ItemID:    itemID,
		Auction:   toAuctionPayload(auction, now),
	}
}

// BidPlaced builds the event for an accepted bid, carrying both the updated
// auction snapshot and the new bid.
func BidPlaced(itemID string, auction model.Auction, bid model.Bid, now time.Time) Event {
	return Event{
		Type:      EventBidPlaced,
		Timestamp: now,
		ItemID:    itemID,
		Auction:   toAuctionPayload(auction, now),
		Bid: &BidPayload{
			BidID:     bid.BidID,
			AuctionID: bid.AuctionID,
			BidderID:  bid.BidderID,
			Amount:    bid.Amount,
			CreatedAt: bid.CreatedAt,
		},
	}
}

func toAuctionPayload(auction model.Auction, now time.Time) *AuctionPayload {
	return &AuctionPayload{
		AuctionID:       auction.AuctionID,
		Status:          auction.EffectiveStatus(now),
		StartTime:       auction.StartTime,
		EndTime:         auction.EndTime,
		StartingPrice:   auction.StartingPrice,
		MinIncrement:    auction.MinIncrement,
		CurrentPrice:    auction.CurrentPrice,
		CurrentWinnerID: auction.CurrentWinnerID,
		ClosedAt:        auction.ClosedAt,
	}
}
