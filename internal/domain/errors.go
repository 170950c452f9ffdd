package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service and wizard functions when input fails
// business rule validation (e.g. empty participant email, notes too long).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation is not allowed in the resource's
// current state: a second submission while one is in flight, a booking status
// transition the lifecycle does not permit, or deleting a parent that still
// has children.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller is authenticated but does not own
// the resource it is acting on.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")
