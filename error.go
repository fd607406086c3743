package lingo

import (
	"errors"
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrBadParameter
	ErrInternalServerError
	ErrRefreshTokenMissing
	ErrRateLimited
	ErrRefreshFailed
	ErrTransport
	ErrProtocol
	ErrStream
	ErrCancelled
	ErrApplication
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrInternalServerError:
		return "internal server error"
	case ErrRefreshTokenMissing:
		return "refresh token missing"
	case ErrRateLimited:
		return "token refresh rate limited"
	case ErrRefreshFailed:
		return "token refresh failed"
	case ErrTransport:
		return "transport error"
	case ErrProtocol:
		return "protocol error"
	case ErrStream:
		return "stream error"
	case ErrCancelled:
		return "cancelled"
	case ErrApplication:
		return "request unsuccessful"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// IsFatal returns true if the error ends the current session: the refresh
// token is missing or the refresh call failed. A rate-limited refresh is
// not fatal.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRefreshTokenMissing) || errors.Is(err, ErrRefreshFailed)
}

// IsCancelled returns true if the error was caused by the caller cancelling
// the operation, which should not be reported to the user as a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
