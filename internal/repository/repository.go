//go:generate mockgen -package=repository -destination=mock_store.go -source=repository.go

package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-tracker/internal/auctionerrors"
	model "auction-tracker/internal/models"
)

// ReleaseFunc returns an auction row acquired with AcquireAuctionForUpdate.
// It is safe to call more than once; only the first call releases the lock.
type ReleaseFunc func()

// AuctionStore defines the storage boundary for the auction system.
//
// AcquireAuctionForUpdate is the per-auction exclusive primitive: it blocks
// until the caller owns the auction's row lock or ctx is done. Save methods
// check the optimistic version counter and fail with ErrVersionConflict on a
// stale write.
type AuctionStore interface {
	CreateItem(item model.Item) error
	GetItem(itemID string) (model.Item, error)
	CreateUser(user model.User) error
	GetUser(userID string) (model.User, error)
	UserExists(userID string) (bool, error)

	CreateAuction(auction model.Auction) (model.Auction, error)
	GetAuctionByItem(itemID string) (model.Auction, error)
	AcquireAuctionForUpdate(ctx context.Context, itemID string) (model.Auction, ReleaseFunc, error)
	SaveAuction(auction model.Auction) (model.Auction, error)
	SaveAuctionWithBid(auction model.Auction, bid model.Bid) (model.Auction, error)
	ListBidsByAuction(auctionID string) ([]model.Bid, error)
	FindAuctionsScheduledToOpen(now time.Time) ([]model.Auction, error)
	FindAuctionsOpenToClose(now time.Time) ([]model.Auction, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore.
// Row locks are one buffered channel per auction so acquisition can honor
// context cancellation. The store mutex guards the maps only and is never held
// while waiting for a row lock, so no lock ordering spans two auctions.
type MemoryStore struct {
	mu            sync.RWMutex
	items         map[string]model.Item       // key: itemID
	users         map[string]model.User       // key: userID
	auctions      map[string]model.Auction    // key: auctionID
	auctionByItem map[string]string           // key: itemID -> auctionID
	bids          map[string][]model.Bid      // key: auctionID -> bids in acceptance order
	rowLocks      map[string]chan struct{}    // key: auctionID -> capacity-1 lock channel
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:         make(map[string]model.Item),
		users:         make(map[string]model.User),
		auctions:      make(map[string]model.Auction),
		auctionByItem: make(map[string]string),
		bids:          make(map[string][]model.Bid),
		rowLocks:      make(map[string]chan struct{}),
	}
}

// CreateItem stores a new catalog item.
func (s *MemoryStore) CreateItem(item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ItemID]; ok {
		return fmt.Errorf("create item %s: item already exists", item.ItemID)
	}
	s.items[item.ItemID] = item
	return nil
}

// GetItem returns a catalog item by id.
func (s *MemoryStore) GetItem(itemID string) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	return item, nil
}

// CreateUser stores a new user record.
func (s *MemoryStore) CreateUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; ok {
		return fmt.Errorf("create user %s: user already exists", user.UserID)
	}
	s.users[user.UserID] = user
	return nil
}

// GetUser returns a user record by id.
func (s *MemoryStore) GetUser(userID string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// UserExists reports whether a user record exists.
func (s *MemoryStore) UserExists(userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}

// CreateAuction stores a new auction. At most one auction may exist per item;
// a second create for the same item fails with ErrDuplicateAuction.
func (s *MemoryStore) CreateAuction(auction model.Auction) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctionByItem[auction.ItemID]; ok {
		return model.Auction{}, fmt.Errorf("create auction for item %s: %w", auction.ItemID, auctionerrors.ErrDuplicateAuction)
	}
	auction.Version = 1
	s.auctions[auction.AuctionID] = auction
	s.auctionByItem[auction.ItemID] = auction.AuctionID
	s.rowLocks[auction.AuctionID] = make(chan struct{}, 1)
	return auction, nil
}

// GetAuctionByItem returns the auction for an item without locking it.
func (s *MemoryStore) GetAuctionByItem(itemID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auctionByItemLocked(itemID)
}

func (s *MemoryStore) auctionByItemLocked(itemID string) (model.Auction, error) {
	auctionID, ok := s.auctionByItem[itemID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction for item %s: %w", itemID, auctionerrors.ErrAuctionNotFound)
	}
	return s.auctions[auctionID], nil
}

// AcquireAuctionForUpdate blocks until the caller holds the auction's
// exclusive row lock, then returns a fresh copy of the row and the release
// function. Waiting is bounded by ctx.
func (s *MemoryStore) AcquireAuctionForUpdate(ctx context.Context, itemID string) (model.Auction, ReleaseFunc, error) {
	s.mu.RLock()
	auctionID, ok := s.auctionByItem[itemID]
	if !ok {
		s.mu.RUnlock()
		return model.Auction{}, nil, fmt.Errorf("acquire auction for item %s: %w", itemID, auctionerrors.ErrAuctionNotFound)
	}
	lock := s.rowLocks[auctionID]
	s.mu.RUnlock()

	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return model.Auction{}, nil, fmt.Errorf("acquire auction for item %s: %w", itemID, ctx.Err())
	}

	var once sync.Once
	release := func() {
		once.Do(func() { <-lock })
	}

	// Re-read after acquisition so the caller sees the last committed state.
	s.mu.RLock()
	auction := s.auctions[auctionID]
	s.mu.RUnlock()

	return auction, release, nil
}

// SaveAuction commits an updated auction. The write fails with
// ErrVersionConflict when the caller's version is stale; on success the
// version counter is bumped and the stored row returned.
func (s *MemoryStore) SaveAuction(auction model.Auction) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAuctionLocked(auction)
}

// SaveAuctionWithBid commits an updated auction and its new bid as a single
// atomic write. Either both are visible afterwards or neither is.
func (s *MemoryStore) SaveAuctionWithBid(auction model.Auction, bid model.Bid) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.saveAuctionLocked(auction)
	if err != nil {
		return model.Auction{}, err
	}
	s.bids[bid.AuctionID] = append(s.bids[bid.AuctionID], bid)
	return saved, nil
}

func (s *MemoryStore) saveAuctionLocked(auction model.Auction) (model.Auction, error) {
	current, ok := s.auctions[auction.AuctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("save auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if current.Version != auction.Version {
		return model.Auction{}, fmt.Errorf("save auction %s: have version %d, stored version %d: %w",
			auction.AuctionID, auction.Version, current.Version, auctionerrors.ErrVersionConflict)
	}
	auction.Version++
	s.auctions[auction.AuctionID] = auction
	return auction, nil
}

// ListBidsByAuction returns all bids for an auction, newest first.
func (s *MemoryStore) ListBidsByAuction(auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.bids[auctionID]
	bids := make([]model.Bid, len(stored))
	for i, b := range stored {
		bids[len(stored)-1-i] = b
	}
	return bids, nil
}

// FindAuctionsScheduledToOpen returns auctions still persisted as SCHEDULED
// whose start time has passed.
func (s *MemoryStore) FindAuctionsScheduledToOpen(now time.Time) ([]model.Auction, error) {
	return s.findByStatus(model.StatusScheduled, func(a model.Auction) bool {
		return !a.StartTime.After(now)
	})
}

// FindAuctionsOpenToClose returns auctions still persisted as OPEN whose end
// time has passed.
func (s *MemoryStore) FindAuctionsOpenToClose(now time.Time) ([]model.Auction, error) {
	return s.findByStatus(model.StatusOpen, func(a model.Auction) bool {
		return !a.EndTime.After(now)
	})
}

func (s *MemoryStore) findByStatus(status model.AuctionStatus, due func(model.Auction) bool) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []model.Auction
	for _, a := range s.auctions {
		if a.Status == status && due(a) {
			found = append(found, a)
		}
	}
	// Deterministic order keeps sweeps and tests reproducible.
	sort.Slice(found, func(i, j int) bool { return found[i].AuctionID < found[j].AuctionID })
	return found, nil
}
