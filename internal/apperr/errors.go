// Package apperr defines sentinel errors shared across raido packages.
package apperr

import "errors"

var (
	// ErrNotFound marks lookups for intentions, dependencies, or domains
	// that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid marks structurally malformed domain input (missing fields,
	// unknown dependency type). Raised at construction, never during build.
	ErrInvalid = errors.New("invalid")
	// ErrUnknownMetric marks ranking requests that name an unregistered metric.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrAlreadyExists marks attempts to create a domain file that exists.
	ErrAlreadyExists = errors.New("already exists")
)
