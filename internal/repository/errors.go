// Package repository defines data access for the seating domain along
// with sentinel error values shared across repositories. Handlers match
// on these sentinels to pick HTTP status codes: not-found values map to
// 404, ErrConflict to 409.
package repository

import "errors"

// ErrConflict is returned when an insert or update cannot proceed because
// of conflicting existing state, such as registering a plus-one past the
// invitation's party size.
var ErrConflict = errors.New("conflict")
