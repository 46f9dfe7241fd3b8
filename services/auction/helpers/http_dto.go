package helpers

import (
	"time"

	model "auction-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateUserRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type ScheduleAuctionRequest struct {
	ItemID    string    `json:"item_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	// Decimal fields skip binding validation on purpose: a zero starting
	// price is legal and the service owns the range checks.
	StartingPrice decimal.Decimal `json:"starting_price"`
	MinIncrement  decimal.Decimal `json:"min_increment"`
}

type PlaceBidRequest struct {
	ItemID   string          `json:"item_id" binding:"required"`
	BidderID string          `json:"bidder_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

type AuctionResponse struct {
	AuctionID       string          `json:"auction_id"`
	ItemID          string          `json:"item_id"`
	Status          string          `json:"status"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	StartingPrice   decimal.Decimal `json:"starting_price"`
	MinIncrement    decimal.Decimal `json:"min_increment"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	CurrentWinnerID string          `json:"current_winner_id,omitempty"`
	ClosedAt        string          `json:"closed_at,omitempty"`
}

type BidResponse struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"created_at"`
}

// NewAuctionResponse maps an auction record to its response shape.
func NewAuctionResponse(auction model.Auction) AuctionResponse {
	resp := AuctionResponse{
		AuctionID:       auction.AuctionID,
		ItemID:          auction.ItemID,
		Status:          string(auction.Status),
		StartTime:       auction.StartTime.UTC().Format(time.RFC3339),
		EndTime:         auction.EndTime.UTC().Format(time.RFC3339),
		StartingPrice:   auction.StartingPrice,
		MinIncrement:    auction.MinIncrement,
		CurrentPrice:    auction.CurrentPrice,
		CurrentWinnerID: auction.CurrentWinnerID,
	}
	if auction.ClosedAt != nil {
		resp.ClosedAt = auction.ClosedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// NewBidResponse maps a bid record to its response shape.
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}
