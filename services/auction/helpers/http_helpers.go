package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"auction-tracker/internal/auctionerrors"
	"auction-tracker/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message.
//
// Bid rejections are expected outcomes, not failures: bad input maps to 400,
// losing against the auction state (not open, outbid) maps to 409. Lock
// timeouts map to 503 so the caller knows a retry is safe.
func MapErrorToHTTP(err error) (int, string) {
	var rejected *auctionerrors.BidRejectedError
	if errors.As(err, &rejected) {
		switch rejected.Reason {
		case auctionerrors.ReasonInvalidAmount, auctionerrors.ReasonUnknownBidder:
			return http.StatusBadRequest, rejected.Message
		default:
			return http.StatusConflict, rejected.Message
		}
	}

	switch {
	case errors.Is(err, auctionerrors.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found for item"
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrDuplicateAuction):
		return http.StatusConflict, "item already has an auction"
	case errors.Is(err, auctionerrors.ErrVersionConflict):
		return http.StatusConflict, "conflicting update, safe to retry"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "operation timed out, safe to retry"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
