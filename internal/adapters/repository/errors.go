package repository

import "errors"

// Sentinel kinds for snapshot lookups.
var (
	ErrNotFound     = errors.New("region not found")
	ErrInvalidLimit = errors.New("invalid results limit")
	ErrEmpty        = errors.New("no analysis results")
)
