package service

import "errors"

// ErrNoRegions is returned when nothing is left to analyze after normalization.
var ErrNoRegions = errors.New("no region codes to analyze")
