package sweeper

import (
	"context"
	"fmt"
	"time"

	"auction-tracker/internal/broadcast"
	"auction-tracker/internal/clock"
	"auction-tracker/internal/metrics"
	model "auction-tracker/internal/models"
	"auction-tracker/internal/repository"
	"auction-tracker/utils"

	"github.com/go-co-op/gocron/v2"
)

// acquireTimeout bounds how long a sweep waits for a single auction's row
// lock before giving up and retrying that auction on the next tick.
const acquireTimeout = 2 * time.Second

// EventPublisher is the slice of the broadcaster the sweeper needs.
type EventPublisher interface {
	Publish(topic string, event broadcast.Event)
}

// Sweeper periodically commits auctions whose effective status has diverged
// from the persisted one: SCHEDULED auctions past their start time open,
// OPEN auctions past their end time close.
type Sweeper struct {
	store     repository.AuctionStore
	events    EventPublisher
	clk       clock.Clock
	recorder  metrics.Recorder
	interval  time.Duration
	scheduler gocron.Scheduler
}

// New creates a sweeper ticking at the given interval.
func New(
	store repository.AuctionStore,
	events EventPublisher,
	clk clock.Clock,
	recorder metrics.Recorder,
	interval time.Duration,
) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("sweeper: create scheduler: %w", err)
	}

	return &Sweeper{
		store:     store,
		events:    events,
		clk:       clk,
		recorder:  recorder,
		interval:  interval,
		scheduler: scheduler,
	}, nil
}

// Start begins the periodic sweep. Ticks do not overlap: gocron skips a run
// while the previous one is still in flight, and Tick is idempotent anyway.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.Tick(s.clk.Now())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("sweeper: schedule job: %w", err)
	}

	s.scheduler.Start()
	utils.Info("sweeper started", map[string]any{"interval": s.interval.String()})
	return nil
}

// Stop shuts the periodic sweep down.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

// Tick runs one sweep: two independent scans, each auction processed on its
// own. A failure on one auction never aborts the rest; the auction is simply
// retried on the next tick.
func (s *Sweeper) Tick(now time.Time) {
	s.sweepDueToOpen(now)
	s.sweepDueToClose(now)
}

func (s *Sweeper) sweepDueToOpen(now time.Time) {
	due, err := s.store.FindAuctionsScheduledToOpen(now)
	if err != nil {
		utils.Error("sweep: scan for auctions to open failed", map[string]any{"error": err.Error()})
		return
	}
	for _, auction := range due {
		if err := s.transition(auction.ItemID, now, model.StatusOpen, broadcast.EventAuctionOpened); err != nil {
			s.recorder.SweepFailure()
			utils.Warn("sweep: failed to open auction, will retry next tick", map[string]any{
				"auction_id": auction.AuctionID,
				"item_id":    auction.ItemID,
				"error":      err.Error(),
			})
		}
	}
}

func (s *Sweeper) sweepDueToClose(now time.Time) {
	due, err := s.store.FindAuctionsOpenToClose(now)
	if err != nil {
		utils.Error("sweep: scan for auctions to close failed", map[string]any{"error": err.Error()})
		return
	}
	for _, auction := range due {
		if err := s.transition(auction.ItemID, now, model.StatusClosed, broadcast.EventAuctionClosed); err != nil {
			s.recorder.SweepFailure()
			utils.Warn("sweep: failed to close auction, will retry next tick", map[string]any{
				"auction_id": auction.AuctionID,
				"item_id":    auction.ItemID,
				"error":      err.Error(),
			})
		}
	}
}

// transition refreshes one auction under its row lock and emits the event if
// the refresh landed on the wanted status. A no-op refresh (another writer got
// there first) emits nothing.
func (s *Sweeper) transition(itemID string, now time.Time, want model.AuctionStatus, eventType broadcast.EventType) error {
	ctx, cancel := context.WithTimeout(context.Background(), acquireTimeout)
	defer cancel()

	auction, release, err := s.store.AcquireAuctionForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	defer release()

	if !auction.RefreshStatus(now) {
		return nil
	}

	saved, err := s.store.SaveAuction(auction)
	if err != nil {
		return err
	}
	release()

	if saved.Status == want {
		s.events.Publish(itemID, broadcast.AuctionEvent(eventType, itemID, saved, now))
		utils.Info("auction transitioned", map[string]any{
			"auction_id": saved.AuctionID,
			"item_id":    itemID,
			"status":     string(saved.Status),
		})
	}
	return nil
}
