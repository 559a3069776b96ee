package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means no usable response arrived: connection
	// refused, timeout, DNS failure, or an undecodable body.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means the server rejected the bearer token.
	// By the time a caller sees it, the session is already Anonymous.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is an application-level rejection: the remote service
// answered, but the envelope carried a non-zero status. It never
// affects the session.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Code, e.Message)
}
