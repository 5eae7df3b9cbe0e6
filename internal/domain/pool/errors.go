package pool

import "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"

var (
	ErrNotFound               = fault.NotFound("pool not found")
	ErrPoolNotActive          = fault.State("pool is not active")
	ErrPoolNotOngoing         = fault.State("pool is not ongoing")
	ErrPoolNotDefaulted       = fault.State("pool is not defaulted")
	ErrNotCancelled           = fault.State("pool is not cancelled")
	ErrInvalidTransition      = fault.State("invalid pool state transition")
	ErrAlreadyFinalized       = fault.State("pool already finalized")
	ErrDeadlineExceeded       = fault.State("funding deadline exceeded")
	ErrActivationWindowClosed = fault.State("activation window closed")
	ErrDefaultNotDue          = fault.State("grace period has not expired")

	ErrInvalidInput     = fault.Validation("invalid input")
	ErrAmountOutOfRange = fault.Validation("amount out of range")

	ErrUnauthorized = fault.Authorization("caller not authorized")

	ErrPositionNotFound = fault.NotFound("investor position not found")
)
