package regions

import "errors"

var (
	ErrUnknownMetro  = errors.New("unknown metro")
	ErrMissingColumn = errors.New("zipcode column not found")
	ErrEmptyFile     = errors.New("no region codes in file")
)
