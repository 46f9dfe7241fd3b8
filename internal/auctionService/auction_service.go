package auction

import (
	"context"
	"fmt"
	"time"

	"auction-tracker/internal/auctionerrors"
	"auction-tracker/internal/broadcast"
	"auction-tracker/internal/clock"
	"auction-tracker/internal/metrics"
	model "auction-tracker/internal/models"
	"auction-tracker/internal/repository"
	"auction-tracker/utils"

	"github.com/shopspring/decimal"
)

// EventPublisher is the slice of the broadcaster the service needs.
type EventPublisher interface {
	Publish(topic string, event broadcast.Event)
}

// AuctionService owns the auction lifecycle boundary: scheduling, the bid
// acceptance protocol, and the read operations.
type AuctionService struct {
	store    repository.AuctionStore
	clk      clock.Clock
	events   EventPublisher
	recorder metrics.Recorder
	lockWait time.Duration
}

// NewAuctionService creates a new AuctionService instance. lockWait bounds how
// long PlaceBid waits for an auction's row lock; zero means wait until the
// caller's context is done.
func NewAuctionService(
	store repository.AuctionStore,
	clk clock.Clock,
	events EventPublisher,
	recorder metrics.Recorder,
	lockWait time.Duration,
) *AuctionService {
	return &AuctionService{
		store:    store,
		clk:      clk,
		events:   events,
		recorder: recorder,
		lockWait: lockWait,
	}
}

// ScheduleAuction validates and creates a SCHEDULED auction for an item.
func (s *AuctionService) ScheduleAuction(
	itemID string,
	startTime, endTime time.Time,
	startingPrice, minIncrement decimal.Decimal,
) (model.Auction, error) {
	now := s.clk.Now()
	if !startTime.After(now) {
		return model.Auction{}, fmt.Errorf("service: %w - startTime must be in the future", auctionerrors.ErrValidation)
	}
	if !endTime.After(startTime) {
		return model.Auction{}, fmt.Errorf("service: %w - endTime must be after startTime", auctionerrors.ErrValidation)
	}
	if startingPrice.IsNegative() {
		return model.Auction{}, fmt.Errorf("service: %w - startingPrice must be >= 0", auctionerrors.ErrValidation)
	}
	if minIncrement.Sign() <= 0 {
		return model.Auction{}, fmt.Errorf("service: %w - minIncrement must be > 0", auctionerrors.ErrValidation)
	}

	if _, err := s.store.GetItem(itemID); err != nil {
		return model.Auction{}, fmt.Errorf("service: schedule auction: %w", err)
	}

	auction, err := s.store.CreateAuction(model.Auction{
		AuctionID:     utils.GenerateID(),
		ItemID:        itemID,
		Status:        model.StatusScheduled,
		StartTime:     startTime,
		EndTime:       endTime,
		StartingPrice: startingPrice,
		MinIncrement:  minIncrement,
		CurrentPrice:  startingPrice,
	})
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: schedule auction for item %s: %w", itemID, err)
	}

	s.events.Publish(itemID, broadcast.AuctionEvent(broadcast.EventAuctionScheduled, itemID, auction, now))
	utils.Info("auction scheduled", map[string]any{
		"auction_id": auction.AuctionID,
		"item_id":    itemID,
		"start_time": startTime,
		"end_time":   endTime,
	})
	return auction, nil
}

// PlaceBid validates and applies a bid against the item's auction.
//
// Checks run in a fixed order, the cheap non-locking ones first so invalid
// requests never take the row lock: amount, item, bidder, then acquire,
// refresh, status, and increment under the lock. The updated auction and the
// new bid are committed as one atomic write.
func (s *AuctionService) PlaceBid(ctx context.Context, itemID, bidderID string, amount decimal.Decimal) (model.Bid, error) {
	if itemID == "" || bidderID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - missing itemID or bidderID", auctionerrors.ErrValidation)
	}
	if amount.Sign() <= 0 {
		s.recorder.BidRejected(auctionerrors.ReasonInvalidAmount)
		return model.Bid{}, auctionerrors.RejectBid(auctionerrors.ReasonInvalidAmount, "amount must be > 0")
	}

	if _, err := s.store.GetItem(itemID); err != nil {
		return model.Bid{}, fmt.Errorf("service: place bid: %w", err)
	}

	exists, err := s.store.UserExists(bidderID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: place bid: check bidder %s: %w", bidderID, err)
	}
	if !exists {
		s.recorder.BidRejected(auctionerrors.ReasonUnknownBidder)
		return model.Bid{}, auctionerrors.RejectBid(auctionerrors.ReasonUnknownBidder, "unknown bidder: %s", bidderID)
	}

	if s.lockWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lockWait)
		defer cancel()
	}
	auction, release, err := s.store.AcquireAuctionForUpdate(ctx, itemID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: place bid: %w", err)
	}
	defer release()

	now := s.clk.Now()
	auction.RefreshStatus(now)
	if auction.Status != model.StatusOpen {
		s.recorder.BidRejected(auctionerrors.ReasonAuctionNotOpen)
		return model.Bid{}, auctionerrors.RejectBid(auctionerrors.ReasonAuctionNotOpen, "auction is not open (status=%s)", auction.Status)
	}

	minAllowed := auction.CurrentPrice.Add(auction.MinIncrement)
	if amount.LessThan(minAllowed) {
		s.recorder.BidRejected(auctionerrors.ReasonBidTooLow)
		return model.Bid{}, auctionerrors.RejectBid(auctionerrors.ReasonBidTooLow, "bid too low, minimum allowed is %s", minAllowed)
	}

	auction.ApplyWinningBid(bidderID, amount)
	bid := model.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auction.AuctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: now,
	}

	saved, err := s.store.SaveAuctionWithBid(auction, bid)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: place bid: commit for item %s: %w", itemID, err)
	}
	release()

	s.recorder.BidAccepted()
	s.events.Publish(itemID, broadcast.BidPlaced(itemID, saved, bid, now))
	utils.Info("bid accepted", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": saved.AuctionID,
		"item_id":    itemID,
		"bidder_id":  bidderID,
		"amount":     amount.String(),
	})
	return bid, nil
}

// GetAuctionForItem returns the item's auction without locking it.
func (s *AuctionService) GetAuctionForItem(itemID string) (model.Auction, error) {
	if itemID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty item ID", auctionerrors.ErrValidation)
	}
	if _, err := s.store.GetItem(itemID); err != nil {
		return model.Auction{}, fmt.Errorf("service: get auction: %w", err)
	}
	auction, err := s.store.GetAuctionByItem(itemID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: get auction: %w", err)
	}
	return auction, nil
}

// ListBidsForItem returns the item's bid ledger, newest first.
func (s *AuctionService) ListBidsForItem(itemID string) ([]model.Bid, error) {
	auction, err := s.GetAuctionForItem(itemID)
	if err != nil {
		return nil, err
	}
	bids, err := s.store.ListBidsByAuction(auction.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("service: list bids for item %s: %w", itemID, err)
	}
	return bids, nil
}

// Snapshot builds the initial-state event for a new subscriber of an item.
// An item with no auction yet yields a snapshot with a nil auction payload.
func (s *AuctionService) Snapshot(itemID string) (broadcast.Event, error) {
	if _, err := s.store.GetItem(itemID); err != nil {
		return broadcast.Event{}, fmt.Errorf("service: snapshot: %w", err)
	}
	now := s.clk.Now()
	auction, err := s.store.GetAuctionByItem(itemID)
	if err != nil {
		return broadcast.Snapshot(itemID, nil, now), nil
	}
	return broadcast.Snapshot(itemID, &auction, now), nil
}
