// Package common defines shared constants and sentinel errors used across
// client and server layers of PostPlanner. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorValidation       = errors.New("validation error")
	ErrorMisconfiguration = errors.New("server misconfiguration")
	ErrorTooManyRequests  = errors.New("too many requests")

	// Login errors. A rejected login is a bad request, not a token failure.
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// Error pairs a sentinel kind with a message that is safe to show to the
// caller. errors.Is(err, kind) keeps working through the wrapper.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// NewError returns an *Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError returns an *Error of the given kind that also carries cause.
func WrapError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Message extracts the caller-facing message from err. For errors that are
// not *Error the fallback is returned.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
