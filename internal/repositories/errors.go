package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a record does not exist,
// so callers can tell a missing record apart from a storage failure.
var ErrNotFound = errors.New("record not found")
