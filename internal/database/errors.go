package database

import "errors"

var (
	// ErrShortCodeExists is returned when an insert collides with an
	// existing short code, whether custom or generated.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when no record matches the requested
	// short code, or the record is filtered out by its expiry.
	ErrURLNotFound = errors.New("url not found")
)
