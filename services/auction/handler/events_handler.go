package handler

import (
	"fmt"

	"auction-tracker/internal/broadcast"
	"auction-tracker/services/auction/helpers"
	"auction-tracker/utils"

	"github.com/gin-gonic/gin"
)

// EventsHandler serves the live event stream for an item over SSE. Any other
// transport with identical fan-out semantics can attach its own
// broadcast.Sink instead.
type EventsHandler struct {
	service     AuctionServiceInterface
	broadcaster *broadcast.Broadcaster
}

func NewEventsHandler(service AuctionServiceInterface, broadcaster *broadcast.Broadcaster) *EventsHandler {
	return &EventsHandler{service: service, broadcaster: broadcaster}
}

// StreamEventsHandler handles GET /items/:item_id/events
func (h *EventsHandler) StreamEventsHandler(c *gin.Context) {
	itemID := c.Param("item_id")

	// Build the initial snapshot before registering, so an unknown item is a
	// plain 404 instead of a dangling subscription.
	snapshot, err := h.service.Snapshot(itemID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	sink := broadcast.NewChannelSink()
	sub := h.broadcaster.Subscribe(itemID, sink)
	defer h.broadcaster.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Initial state goes out-of-band so the client can start without polling;
	// anything published after Subscribe arrives through the sink.
	c.SSEvent(string(snapshot.Type), snapshot)
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case event, ok := <-sink.Events():
			if !ok {
				return
			}
			c.SSEvent(string(event.Type), event)
			c.Writer.Flush()
		}
	}
}
