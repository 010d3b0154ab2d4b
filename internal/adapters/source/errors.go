package source

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by data sources.
var (
	// ErrUnavailable means the source has no data for the region.
	ErrUnavailable = errors.New("region data unavailable")
	// ErrNotConfigured means the source is missing credentials.
	ErrNotConfigured = errors.New("source not configured")
	// ErrBadResponse means the source answered with a body we could not read.
	ErrBadResponse = errors.New("malformed source response")
)

// StatusError reports an unexpected HTTP status from a source.
type StatusError struct {
	Source     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Source, e.StatusCode)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
