package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"auction-tracker/internal/broadcast"
	model "auction-tracker/internal/models"
	"auction-tracker/services/auction/helpers"
	"auction-tracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AuctionServiceInterface interface {
	ScheduleAuction(itemID string, startTime, endTime time.Time, startingPrice, minIncrement decimal.Decimal) (model.Auction, error)
	PlaceBid(ctx context.Context, itemID, bidderID string, amount decimal.Decimal) (model.Bid, error)
	GetAuctionForItem(itemID string) (model.Auction, error)
	ListBidsForItem(itemID string) ([]model.Bid, error)
	Snapshot(itemID string) (broadcast.Event, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// ScheduleAuctionHandler handles POST /auctions
func (h *AuctionHandler) ScheduleAuctionHandler(c *gin.Context) {
	var req helpers.ScheduleAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ScheduleAuctionHandler", err)
		return
	}

	auction, err := h.service.ScheduleAuction(req.ItemID, req.StartTime, req.EndTime, req.StartingPrice, req.MinIncrement)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ScheduleAuctionHandler: failed to schedule auction", map[string]any{
			"item_id": req.ItemID,
			"error":   err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(auction), "auction scheduled successfully")
	helpers.LogSuccess("ScheduleAuctionHandler", "auction scheduled successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"item_id":    auction.ItemID,
	})
}

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), req.ItemID, req.BidderID, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("PlaceBidHandler: bid not accepted", map[string]any{
			"item_id":   req.ItemID,
			"bidder_id": req.BidderID,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":    bid.BidID,
		"item_id":   req.ItemID,
		"bidder_id": req.BidderID,
		"amount":    bid.Amount.String(),
	})
}

// GetAuctionHandler handles GET /items/:item_id/auction
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	auction, err := h.service.GetAuctionForItem(itemID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"item_id": itemID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction), "auction retrieved successfully")
}

// ListBidsHandler handles GET /items/:item_id/bids
func (h *AuctionHandler) ListBidsHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	bids, err := h.service.ListBidsForItem(itemID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBidsHandler: error retrieving bids", map[string]any{"item_id": itemID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.NewBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("ListBidsHandler", "bids retrieved successfully", map[string]any{
		"item_id": itemID,
		"count":   len(resp),
	})
}
