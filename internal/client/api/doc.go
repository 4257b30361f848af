// Package api is the dashboard's HTTP client for the PostPlanner REST API.
//
// Authentication state is carried by an explicit *Session returned from
// Register or Login and passed to every authorised call. Server failures are
// reported as sentinel errors (ErrUnauthorized, ErrNotFound, ErrValidation,
// ErrUnavailable) wrapped with the server's message, so callers match them
// with errors.Is and show err.Error() to the user.
package api
