package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/rentscore/pkg/logger"
	"github.com/okian/rentscore/pkg/metrics"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// apiClient is the throttled, retrying JSON client shared by the collectors.
type apiClient struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
	log     logger.Logger
}

func newAPIClient(name string, o options) *apiClient {
	c := &apiClient{
		name:  name,
		http:  o.httpClient,
		retry: o.retry,
		log:   o.log,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: o.timeout}
	}
	if o.rate > 0 {
		burst := int(o.rate)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(o.rate), burst)
	}
	return c
}

// getJSON performs a GET with retries and decodes the body into out.
// A 404 or 204 maps to ErrUnavailable.
func (c *apiClient) getJSON(ctx context.Context, rawURL string, header http.Header, out any) error {
	start := time.Now()
	err := Retry(ctx, c.retry, c.name, c.log, func(ctx context.Context) error {
		return c.once(ctx, rawURL, header, out)
	})
	c.observe(start, err)
	return err
}

func (c *apiClient) once(ctx context.Context, rawURL string, header http.Header, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s rate limiter wait: %w", c.name, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%s create request: %w", c.name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return ErrUnavailable
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Source: c.name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s read body: %w", c.name, err)
	}
	if len(body) == 0 {
		return ErrUnavailable
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadResponse, c.name, err)
	}
	return nil
}

func (c *apiClient) observe(start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case isUnavailable(err):
		outcome = metrics.OutcomeUnavailable
	default:
		outcome = metrics.OutcomeError
	}
	metrics.RecordSourceRequest(c.name, outcome, float64(time.Since(start).Microseconds())/1000)
}
