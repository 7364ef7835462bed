package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoRunner    = errors.New("no match runner configured")
	ErrInvalidPlan = errors.New("invalid tournament plan")
)
