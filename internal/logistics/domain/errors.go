package domain

import "errors"

// Sentinel errors for the input-validation error kind (spec.md §7 kind 1).
// Callers test with errors.Is; the application layer wraps these with %w.
var (
	ErrInvalidRequest  = errors.New("fuel-logistics: invalid request")
	ErrModelInvalid    = errors.New("fuel-logistics: solver model invalid")
	ErrRunNotFound     = errors.New("fuel-logistics: run not found")
)
