package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "auction-tracker/internal/auctionService"
	"auction-tracker/internal/broadcast"
	catalog "auction-tracker/internal/catalogService"
	"auction-tracker/internal/clock"
	"auction-tracker/internal/metrics"
	"auction-tracker/internal/repository"
	"auction-tracker/internal/server"
	"auction-tracker/internal/sweeper"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestEnv wires the full stack against an in-memory store and a manual clock.
// The sweeper is built but never started: tests drive it tick by tick so
// lifecycle transitions happen at deterministic instants.
type TestEnv struct {
	Router      *gin.Engine
	Clock       *clock.Manual
	Store       *repository.MemoryStore
	Broadcaster *broadcast.Broadcaster
	Sweeper     *sweeper.Sweeper
}

// SetupTestEnv initializes the stack for integration testing.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := repository.NewMemoryStore()
	broadcaster := broadcast.New()
	t.Cleanup(broadcaster.Close)

	auctionSvc := auction.NewAuctionService(store, clk, broadcaster, metrics.NopRecorder{}, 5*time.Second)
	catalogSvc := catalog.NewCatalogService(store, clk)

	sw, err := sweeper.New(store, broadcaster, clk, metrics.NopRecorder{}, time.Second)
	require.NoError(t, err)

	return &TestEnv{
		Router:      server.SetupRouter(auctionSvc, catalogSvc, broadcaster),
		Clock:       clk,
		Store:       store,
		Broadcaster: broadcaster,
		Sweeper:     sw,
	}
}

// Sweep runs one sweeper tick at the clock's current instant.
func (e *TestEnv) Sweep() {
	e.Sweeper.Tick(e.Clock.Now())
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// data extracts the data payload of a successful response.
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	payload, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return payload
}
