package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Helper to create an auction with a fixed time window
func newAuction(status AuctionStatus, start, end time.Time) Auction {
	return Auction{
		AuctionID:     "auction1",
		ItemID:        "item1",
		Status:        status,
		StartTime:     start,
		EndTime:       end,
		StartingPrice: decimal.NewFromInt(100),
		MinIncrement:  decimal.NewFromInt(10),
		CurrentPrice:  decimal.NewFromInt(100),
		Version:       1,
	}
}

// Test EffectiveStatus
func TestAuction_EffectiveStatus(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name      string
		persisted AuctionStatus
		now       time.Time
		want      AuctionStatus
	}{
		{name: "before_start", persisted: StatusScheduled, now: start.Add(-time.Minute), want: StatusScheduled},
		{name: "exactly_at_start", persisted: StatusScheduled, now: start, want: StatusOpen},
		{name: "inside_window", persisted: StatusScheduled, now: start.Add(30 * time.Minute), want: StatusOpen},
		{name: "exactly_at_end", persisted: StatusScheduled, now: end, want: StatusClosed},
		{name: "after_end", persisted: StatusOpen, now: end.Add(time.Minute), want: StatusClosed},
		{name: "persisted_open_before_start", persisted: StatusOpen, now: start.Add(-time.Minute), want: StatusScheduled},
		{name: "closed_is_terminal_before_start", persisted: StatusClosed, now: start.Add(-time.Minute), want: StatusClosed},
		{name: "closed_is_terminal_inside_window", persisted: StatusClosed, now: start.Add(time.Minute), want: StatusClosed},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			auction := newAuction(tc.persisted, start, end)
			require.Equal(t, tc.want, auction.EffectiveStatus(tc.now))
		})
	}
}

// Test RefreshStatus
func TestAuction_RefreshStatus(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("no_change_before_start", func(t *testing.T) {
		auction := newAuction(StatusScheduled, start, end)
		require.False(t, auction.RefreshStatus(start.Add(-time.Minute)))
		require.Equal(t, StatusScheduled, auction.Status)
		require.Nil(t, auction.ClosedAt)
	})

	t.Run("scheduled_to_open", func(t *testing.T) {
		auction := newAuction(StatusScheduled, start, end)
		require.True(t, auction.RefreshStatus(start))
		require.Equal(t, StatusOpen, auction.Status)
		require.Nil(t, auction.ClosedAt)
	})

	t.Run("open_to_closed_sets_closed_at", func(t *testing.T) {
		auction := newAuction(StatusOpen, start, end)
		require.True(t, auction.RefreshStatus(end))
		require.Equal(t, StatusClosed, auction.Status)
		require.NotNil(t, auction.ClosedAt)
		require.Equal(t, end, *auction.ClosedAt)
	})

	t.Run("scheduled_straight_to_closed", func(t *testing.T) {
		auction := newAuction(StatusScheduled, start, end)
		require.True(t, auction.RefreshStatus(end.Add(time.Minute)))
		require.Equal(t, StatusClosed, auction.Status)
		require.NotNil(t, auction.ClosedAt)
	})

	t.Run("idempotent_same_now", func(t *testing.T) {
		auction := newAuction(StatusScheduled, start, end)
		require.True(t, auction.RefreshStatus(start))
		snapshot := auction
		require.False(t, auction.RefreshStatus(start))
		require.Equal(t, snapshot, auction)
	})

	t.Run("closed_at_never_overwritten", func(t *testing.T) {
		auction := newAuction(StatusOpen, start, end)
		require.True(t, auction.RefreshStatus(end))
		closedAt := *auction.ClosedAt

		require.False(t, auction.RefreshStatus(end.Add(time.Hour)))
		require.Equal(t, closedAt, *auction.ClosedAt)
	})

	t.Run("status_is_monotonic", func(t *testing.T) {
		auction := newAuction(StatusScheduled, start, end)
		nows := []time.Time{start.Add(-time.Minute), start, end, end.Add(time.Hour), start.Add(30 * time.Minute)}
		seenClosed := false
		for _, now := range nows {
			auction.RefreshStatus(now)
			if seenClosed {
				require.Equal(t, StatusClosed, auction.Status)
			}
			if auction.Status == StatusClosed {
				seenClosed = true
			}
		}
	})
}

// Test ApplyWinningBid
func TestAuction_ApplyWinningBid(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	auction := newAuction(StatusOpen, start, start.Add(time.Hour))

	auction.ApplyWinningBid("user1", decimal.NewFromInt(120))
	require.Equal(t, "user1", auction.CurrentWinnerID)
	require.True(t, auction.CurrentPrice.Equal(decimal.NewFromInt(120)))

	auction.ApplyWinningBid("user2", decimal.NewFromInt(135))
	require.Equal(t, "user2", auction.CurrentWinnerID)
	require.True(t, auction.CurrentPrice.Equal(decimal.NewFromInt(135)))
}
