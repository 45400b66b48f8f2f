package models

import "errors"

// ErrNotFound is wrapped by store errors when a record does not exist for the
// requesting owner. Handlers map it to a 404 response.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrInvalid is wrapped by validation errors raised before any computation or
// persistence runs. Handlers map it to a 400 response.
var ErrInvalid = errors.New("invalid input")

// IsInvalid reports whether err wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
