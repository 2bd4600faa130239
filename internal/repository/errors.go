// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound signals a missing row where sql.ErrNoRows would
// leak storage details, while ErrConflict signals that an insert or
// update collided with existing state (e.g. a duplicate booking for the
// same order line).
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update cannot be performed
// because of conflicting state, such as creating a booking for an
// (order_id, order_item_id) pair that already exists. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they may not touch. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
