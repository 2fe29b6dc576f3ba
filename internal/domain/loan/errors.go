package loan

import "errors"

var (
	ErrNotFound        = errors.New("loan not found")
	ErrInvalidInput    = errors.New("invalid loan application")
	ErrInvalidBid      = errors.New("bid rate must be a positive number")
	ErrBidNotLower     = errors.New("bid must be lower than the current rate")
	ErrNotBiddable     = errors.New("loan is no longer open for bids")
	ErrVersionConflict = errors.New("loan was modified by another request")
	ErrAlreadyFunded   = errors.New("loan already funded")
)
