package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("invalid request")
	ErrUnavailable  = errors.New("server unavailable")
)

// sentinelFor maps an HTTP status to the client error kind. Rate limiting
// and server faults are both reported as ErrUnavailable.
func sentinelFor(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return ErrValidation
	}
}

func statusError(status int, message string) error {
	kind := sentinelFor(status)
	if message == "" {
		message = http.StatusText(status)
	}
	return fmt.Errorf("%w: %s", kind, message)
}
