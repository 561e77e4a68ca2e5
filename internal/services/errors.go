package services

import "errors"

// Sentinel errors services wrap so handlers can map outcomes to status
// codes with errors.Is.
var (
	// ErrNotFound means the requested entity does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrValidation means a write was rejected before touching the store.
	ErrValidation = errors.New("validation failed")
)
