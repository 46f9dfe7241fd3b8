package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"auction-tracker/internal/auctionerrors"
	"auction-tracker/internal/broadcast"
	model "auction-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Test StreamEventsHandler rejects unknown items before subscribing
func TestStreamEventsHandler_UnknownItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	broadcaster := broadcast.New()
	defer broadcaster.Close()
	handler := NewEventsHandler(mockService, broadcaster)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items/:item_id/events", handler.StreamEventsHandler)

	mockService.EXPECT().Snapshot("missing").Return(broadcast.Event{}, auctionerrors.ErrItemNotFound)

	req := httptest.NewRequest(http.MethodGet, "/items/missing/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

// Test StreamEventsHandler delivers the snapshot and then live events
func TestStreamEventsHandler_SnapshotThenLiveEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	broadcaster := broadcast.New()
	defer broadcaster.Close()
	handler := NewEventsHandler(mockService, broadcaster)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items/:item_id/events", handler.StreamEventsHandler)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	auction := model.Auction{
		AuctionID:     "auction1",
		ItemID:        "item1",
		Status:        model.StatusOpen,
		StartTime:     now.Add(-time.Minute),
		EndTime:       now.Add(time.Hour),
		StartingPrice: decimal.NewFromInt(100),
		MinIncrement:  decimal.NewFromInt(10),
		CurrentPrice:  decimal.NewFromInt(100),
	}
	mockService.EXPECT().Snapshot("item1").Return(broadcast.Snapshot("item1", &auction, now), nil)

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/items/item1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	var sawSnapshot bool

	// The snapshot must arrive before anything published after Subscribe.
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			require.Contains(t, line, "SNAPSHOT")
			sawSnapshot = true
		}
		if strings.HasPrefix(line, "data:") {
			require.Contains(t, line, `"auction_id":"auction1"`)
			break
		}
	}
	require.True(t, sawSnapshot)

	// Publish a live event and watch it come down the same stream.
	bid := model.Bid{BidID: "bid1", AuctionID: "auction1", BidderID: "user1", Amount: decimal.NewFromInt(110), CreatedAt: now}
	updated := auction
	updated.ApplyWinningBid("user1", bid.Amount)
	broadcaster.Publish("item1", broadcast.BidPlaced("item1", updated, bid, now))

	var sawBidEvent bool
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			require.Contains(t, line, "BID_PLACED")
			sawBidEvent = true
		}
		if strings.HasPrefix(line, "data:") {
			require.Contains(t, line, `"bid_id":"bid1"`)
			break
		}
	}
	require.True(t, sawBidEvent)

	// Disconnecting tears the subscription down server-side; a publish after
	// that is simply dropped rather than written to a dead connection.
	cancel()
	broadcaster.Publish("item1", broadcast.BidPlaced("item1", updated, bid, now))
}
