// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for framepace.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrTransportClosed  = fmt.Errorf("transport is closed")
	ErrDispatcherClosed = fmt.Errorf("dispatcher is closed")
	ErrDisconnected     = fmt.Errorf("session is disconnected")
	ErrPresentPending   = fmt.Errorf("a present is already parked")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
)

// ErrorCode represents peer-reported or locally detected failure
// conditions on the compositor channel.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeBadOperation
	ErrCodeNoPresentsRemaining
	ErrCodeBadHangingGet
	ErrCodeChannelClosed
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeBadOperation:
		return "bad_operation"
	case ErrCodeNoPresentsRemaining:
		return "no_presents_remaining"
	case ErrCodeBadHangingGet:
		return "bad_hanging_get"
	case ErrCodeChannelClosed:
		return "channel_closed"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
