package source

import (
	"net/http"
	"time"

	"github.com/okian/rentscore/pkg/logger"
)

// Default collector settings.
const (
	DefaultCensusBaseURL   = "https://api.census.gov/data"
	DefaultCensusYear      = 2022
	DefaultRentCastBaseURL = "https://api.rentcast.io"
	DefaultRatePerSecond   = 5.0
	DefaultTimeout         = 10 * time.Second
	DefaultMaxRetries      = 3
)

type options struct {
	baseURL    string
	apiKey     string
	year       int
	rate       float64
	timeout    time.Duration
	retry      RetryPolicy
	httpClient *http.Client
	log        logger.Logger
}

func defaultOptions(baseURL string) options {
	return options{
		baseURL: baseURL,
		year:    DefaultCensusYear,
		rate:    DefaultRatePerSecond,
		timeout: DefaultTimeout,
		retry:   DefaultRetryPolicy(),
		log:     logger.Nop(),
	}
}

// Option configures an HTTP-backed source.
type Option func(*options)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithYear selects the ACS vintage. Only used by the census client.
func WithYear(year int) Option {
	return func(o *options) {
		if year > 0 {
			o.year = year
		}
	}
}

// WithRate limits outbound requests per second. Zero or less disables throttling.
func WithRate(perSecond float64) Option {
	return func(o *options) { o.rate = perSecond }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.retry.MaxRetries = n
		}
	}
}

// WithRetryPolicy replaces the whole retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *options) { o.retry = p }
}

// WithHTTPClient uses c instead of a client built from the timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
