package report

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrNoResults     = errors.New("no results to write")
)
