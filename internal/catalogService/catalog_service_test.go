package catalog

import (
	"testing"
	"time"

	"auction-tracker/internal/auctionerrors"
	"auction-tracker/internal/clock"
	model "auction-tracker/internal/models"
	"auction-tracker/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Test CreateItem
func TestCatalogService_CreateItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockAuctionStore(ctrl)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := NewCatalogService(mockStore, clock.NewManual(now))

	tests := []struct {
		name        string
		itemName    string
		description string
		mockSetup   func()
		expectError bool
	}{
		{
			name:        "empty_name",
			itemName:    "",
			mockSetup:   func() {},
			expectError: true,
		},
		{
			name:        "whitespace_name",
			itemName:    "   ",
			mockSetup:   func() {},
			expectError: true,
		},
		{
			name:        "success",
			itemName:    "Vintage camera",
			description: "working condition",
			mockSetup: func() {
				mockStore.EXPECT().CreateItem(gomock.Any()).DoAndReturn(func(item model.Item) error {
					require.NotEmpty(t, item.ItemID)
					require.Equal(t, "Vintage camera", item.Name)
					require.Equal(t, now, item.CreatedAt)
					return nil
				})
			},
			expectError: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()
			item, err := service.CreateItem(tc.itemName, tc.description)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, auctionerrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, item.ItemID)
		})
	}
}

// Test GetItem
func TestCatalogService_GetItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockAuctionStore(ctrl)
	service := NewCatalogService(mockStore, clock.System())

	_, err := service.GetItem("")
	require.ErrorIs(t, err, auctionerrors.ErrValidation)

	mockStore.EXPECT().GetItem("missing").Return(model.Item{}, auctionerrors.ErrItemNotFound)
	_, err = service.GetItem("missing")
	require.ErrorIs(t, err, auctionerrors.ErrItemNotFound)

	mockStore.EXPECT().GetItem("item1").Return(model.Item{ItemID: "item1", Name: "Item 1"}, nil)
	item, err := service.GetItem("item1")
	require.NoError(t, err)
	require.Equal(t, "Item 1", item.Name)
}

// Test CreateUser
func TestCatalogService_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockAuctionStore(ctrl)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := NewCatalogService(mockStore, clock.NewManual(now))

	_, err := service.CreateUser("  ")
	require.ErrorIs(t, err, auctionerrors.ErrValidation)

	mockStore.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(user model.User) error {
		require.NotEmpty(t, user.UserID)
		require.Equal(t, "alice", user.DisplayName)
		require.Equal(t, now, user.CreatedAt)
		return nil
	})
	user, err := service.CreateUser(" alice ")
	require.NoError(t, err)
	require.Equal(t, "alice", user.DisplayName)
}

// Test GetUser
func TestCatalogService_GetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockAuctionStore(ctrl)
	service := NewCatalogService(mockStore, clock.System())

	_, err := service.GetUser("")
	require.ErrorIs(t, err, auctionerrors.ErrValidation)

	mockStore.EXPECT().GetUser("missing").Return(model.User{}, auctionerrors.ErrUserNotFound)
	_, err = service.GetUser("missing")
	require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
}
