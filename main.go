package main

import (
	"fmt"
	"os"
	"time"

	auction "auction-tracker/internal/auctionService"
	"auction-tracker/internal/broadcast"
	catalog "auction-tracker/internal/catalogService"
	"auction-tracker/internal/clock"
	"auction-tracker/internal/config"
	"auction-tracker/internal/metrics"
	"auction-tracker/internal/repository"
	"auction-tracker/internal/server"
	"auction-tracker/internal/sweeper"
	"auction-tracker/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	utils.SetLogLevel(cfg.LogLevel)

	clk := clock.System()
	store := repository.NewMemoryStore()
	broadcaster := broadcast.New()
	recorder := metrics.NewPrometheusRecorder(prometheus.DefaultRegisterer)

	auctionSvc := auction.NewAuctionService(store, clk, broadcaster, recorder, cfg.BidLockWait)
	catalogSvc := catalog.NewCatalogService(store, clk)

	sw, err := sweeper.New(store, broadcaster, clk, recorder, cfg.SweepInterval)
	if err != nil {
		utils.Fatal("failed to build sweeper", map[string]any{"error": err.Error()})
	}
	if err := sw.Start(); err != nil {
		utils.Fatal("failed to start sweeper", map[string]any{"error": err.Error()})
	}
	defer func() {
		if err := sw.Stop(); err != nil {
			utils.Error("failed to stop sweeper", map[string]any{"error": err.Error()})
		}
	}()

	if cfg.SeedDemoData {
		seedDemoData(auctionSvc, catalogSvc, clk)
	}

	router := server.SetupRouter(auctionSvc, catalogSvc, broadcaster)

	fmt.Printf("Starting auction server on %s...\n", cfg.HTTPServerAddress)
	if err := router.Run(cfg.HTTPServerAddress); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// seedDemoData creates a few catalog records and one auction opening shortly,
// for local poking without a client that can drive the full API.
func seedDemoData(auctionSvc *auction.AuctionService, catalogSvc *catalog.CatalogService, clk clock.Clock) {
	item, err := catalogSvc.CreateItem("Vintage camera", "1954 rangefinder, working condition")
	if err != nil {
		utils.Warn("demo seed: create item failed", map[string]any{"error": err.Error()})
		return
	}
	for _, name := range []string{"alice", "bob"} {
		if _, err := catalogSvc.CreateUser(name); err != nil {
			utils.Warn("demo seed: create user failed", map[string]any{"error": err.Error()})
		}
	}

	start := clk.Now().Add(5 * time.Second)
	_, err = auctionSvc.ScheduleAuction(item.ItemID, start, start.Add(10*time.Minute),
		decimal.NewFromInt(100), decimal.NewFromInt(10))
	if err != nil {
		utils.Warn("demo seed: schedule auction failed", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("demo data seeded", map[string]any{"item_id": item.ItemID})
}
