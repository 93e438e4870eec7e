package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup resolves to no document.
	ErrNotFound = errors.New("document not found")
	// ErrMalformedID is returned when an id fails the store's identifier format.
	ErrMalformedID = errors.New("malformed id")
)
