// Package fault carries the error taxonomy shared by every usecase.
// Sentinel errors in the domain packages wrap a Kind so the HTTP layer
// can map any error to a status code with a single switch.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: bad input, caller's fault, rejected before any mutation.
	KindValidation
	// KindState: entity is not in a status that allows the operation.
	KindState
	// KindAuthorization: wrong caller.
	KindAuthorization
	// KindCapacity: insufficient capital/capacity. Business condition, not a bug.
	KindCapacity
	// KindExternal: a collaborator (oracle, validator) failed; operation aborted.
	KindExternal
	// KindNotFound: entity does not exist.
	KindNotFound
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets sentinel fault errors match wrapped copies of themselves:
// errors.Is(Wrap(ErrX, cause), ErrX) holds because Msg and Kind agree.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

func New(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

func Validation(msg string) *Error    { return New(KindValidation, msg) }
func State(msg string) *Error         { return New(KindState, msg) }
func Authorization(msg string) *Error { return New(KindAuthorization, msg) }
func Capacity(msg string) *Error      { return New(KindCapacity, msg) }
func NotFound(msg string) *Error      { return New(KindNotFound, msg) }

// External wraps a collaborator failure.
func External(msg string, err error) *Error {
	return &Error{Kind: KindExternal, Msg: msg, Err: err}
}

// Wrap attaches a cause to a sentinel, preserving errors.Is matching.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Msg: sentinel.Msg, Err: err}
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Newf builds a one-off fault with formatted detail.
func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}
