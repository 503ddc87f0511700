// Package repository holds the storage drivers for tickets, promocodes,
// sessions, halls and pending orders, plus the error values they share.
// Higher layers match on these sentinels with errors.Is so that they do
// not depend on which driver is configured.
package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would break a uniqueness rule,
// such as a second ticket for the same seat of a session.  Handlers
// translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
