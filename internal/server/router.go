package server

import (
	auction "auction-tracker/internal/auctionService"
	"auction-tracker/internal/broadcast"
	catalog "auction-tracker/internal/catalogService"
	handler "auction-tracker/services/auction/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(
	auctionService *auction.AuctionService,
	catalogService *catalog.CatalogService,
	broadcaster *broadcast.Broadcaster,
) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	eventsHandler := handler.NewEventsHandler(auctionService, broadcaster)

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.ScheduleAuctionHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	items := router.Group("/items")
	{
		items.POST("", catalogHandler.CreateItemHandler)
		items.GET("/:item_id", catalogHandler.GetItemHandler)
		items.GET("/:item_id/auction", auctionHandler.GetAuctionHandler)
		items.GET("/:item_id/bids", auctionHandler.ListBidsHandler)
		items.GET("/:item_id/events", eventsHandler.StreamEventsHandler)
	}

	users := router.Group("/users")
	{
		users.POST("", catalogHandler.CreateUserHandler)
		users.GET("/:user_id", catalogHandler.GetUserHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
