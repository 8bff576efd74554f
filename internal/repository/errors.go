// Package repository contains the MySQL data access layer. Each
// repository wraps a *sql.DB and exposes plain methods for standalone
// reads plus ...Tx variants that participate in a caller-managed
// transaction. Sentinel errors shared by several repositories live
// here; not-found conditions map onto the model package's sentinels so
// callers never see sql.ErrNoRows.
package repository

import "errors"

// ErrForbidden is returned when a host attempts an operation on an
// event or reservation owned by another host. Handlers translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when a host signup collides with an
// existing email. Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
