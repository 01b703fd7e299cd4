package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrNotFound     = errors.New("bid not found")
	ErrNoBids       = errors.New("no bids found for product")
	ErrStaleAmount  = errors.New("stored bid amount changed since read")
	ErrBidDuplicate = errors.New("bid already exists")
)

// business logic errors
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflictingUpdate = errors.New("conflicting bid update")
)

// settlement errors
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrPolicy              = errors.New("winner policy failed")
	ErrAlreadyNotified     = errors.New("winner already notified for product")
	ErrSweepInProgress     = errors.New("settlement sweep already running")
)
