// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a message owned by someone else, while
// ErrEmailExists signals a duplicate registration.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email address
// that already belongs to a user. Handlers translate this into a
// duplicate-email validation error.
var ErrEmailExists = errors.New("email already exists")

// ErrMessageNotFound is returned when a referenced message does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrMessageNotFound = errors.New("message not found")

// ErrForbidden is returned when the caller attempts an operation on a
// message they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrSessionNotFound is returned when a session id does not match a
// live (non-revoked, non-expired) session row. Handlers and middleware
// should translate this into an HTTP 401 response.
var ErrSessionNotFound = errors.New("session not found")
