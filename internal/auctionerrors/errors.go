package auctionerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAuctionNotFound = errors.New("auction not found for item")
	ErrNoBids          = errors.New("no bids found for auction")
	ErrVersionConflict = errors.New("auction version conflict")
)

// Business logic errors
var (
	ErrValidation       = errors.New("invalid request")
	ErrDuplicateAuction = errors.New("item already has an auction")
	ErrBidRejected      = errors.New("bid rejected")
)

// RejectReason labels the expected, non-exceptional reasons a bid is refused.
// The values double as the "reason" label on the rejection counter, so keep
// them stable.
type RejectReason string

const (
	ReasonInvalidAmount  RejectReason = "invalid_amount"
	ReasonUnknownBidder  RejectReason = "unknown_bidder"
	ReasonAuctionNotOpen RejectReason = "auction_not_open"
	ReasonBidTooLow      RejectReason = "bid_too_low"
)

// BidRejectedError carries the rejection reason alongside a caller-facing
// message. It unwraps to ErrBidRejected so callers can match the whole class
// with errors.Is and still pull the reason out with errors.As.
type BidRejectedError struct {
	Reason  RejectReason
	Message string
}

func (e *BidRejectedError) Error() string {
	return fmt.Sprintf("bid rejected (%s): %s", e.Reason, e.Message)
}

func (e *BidRejectedError) Unwrap() error {
	return ErrBidRejected
}

// RejectBid builds a BidRejectedError with a formatted message.
func RejectBid(reason RejectReason, format string, args ...any) *BidRejectedError {
	return &BidRejectedError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}
