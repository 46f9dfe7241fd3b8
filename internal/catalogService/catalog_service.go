package catalog

import (
	"fmt"
	"strings"

	"auction-tracker/internal/auctionerrors"
	"auction-tracker/internal/clock"
	model "auction-tracker/internal/models"
	"auction-tracker/internal/repository"
	"auction-tracker/utils"
)

// CatalogService owns the item and user records. These are plain
// create-once/read records with no lifecycle.
type CatalogService struct {
	store repository.AuctionStore
	clk   clock.Clock
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(store repository.AuctionStore, clk clock.Clock) *CatalogService {
	return &CatalogService{store: store, clk: clk}
}

// CreateItem stores a new auction item.
func (s *CatalogService) CreateItem(name, description string) (model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Item{}, fmt.Errorf("service: %w - name is required", auctionerrors.ErrValidation)
	}

	item := model.Item{
		ItemID:      utils.GenerateID(),
		Name:        name,
		Description: description,
		CreatedAt:   s.clk.Now(),
	}
	if err := s.store.CreateItem(item); err != nil {
		return model.Item{}, fmt.Errorf("service: create item: %w", err)
	}
	return item, nil
}

// GetItem returns an item by id.
func (s *CatalogService) GetItem(itemID string) (model.Item, error) {
	if itemID == "" {
		return model.Item{}, fmt.Errorf("service: %w - empty item ID", auctionerrors.ErrValidation)
	}
	item, err := s.store.GetItem(itemID)
	if err != nil {
		return model.Item{}, fmt.Errorf("service: get item: %w", err)
	}
	return item, nil
}

// CreateUser stores a new user.
func (s *CatalogService) CreateUser(displayName string) (model.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return model.User{}, fmt.Errorf("service: %w - displayName is required", auctionerrors.ErrValidation)
	}

	user := model.User{
		UserID:      utils.GenerateID(),
		DisplayName: displayName,
		CreatedAt:   s.clk.Now(),
	}
	if err := s.store.CreateUser(user); err != nil {
		return model.User{}, fmt.Errorf("service: create user: %w", err)
	}
	return user, nil
}

// GetUser returns a user by id.
func (s *CatalogService) GetUser(userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrValidation)
	}
	user, err := s.store.GetUser(userID)
	if err != nil {
		return model.User{}, fmt.Errorf("service: get user: %w", err)
	}
	return user, nil
}
