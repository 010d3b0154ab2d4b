package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/rentscore/pkg/logger"
	"github.com/okian/rentscore/pkg/metrics"
)

// Instrument wraps a route handler: it records request count and latency per
// route and status, and turns a panic into a 500.
func Instrument(route string, log logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	component := "http_" + route
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			if p := recover(); p != nil {
				log.Error(r.Context(), "handler panic",
					logger.String("route", route),
					logger.Any("panic", p),
				)
				if !rec.wrote {
					writeError(rec, http.StatusInternalServerError, "internal_error", nil)
				}
			}

			status := rec.Status()
			code := strconv.Itoa(status)
			metrics.RecordHTTPRequest(route, r.Method, code)
			metrics.RecordHTTPRequestDuration(route, r.Method, code, float64(time.Since(start).Microseconds())/1000)
			if class := statusClass(status); class != "" {
				metrics.RecordErrorByComponent(component, class)
			}
		}()

		next(rec, r)
	}
}

// statusClass labels failed responses; successful ones get "".
func statusClass(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return ""
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status < http.StatusInternalServerError:
		return "client_error"
	default:
		return "server_error"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

// Status is 200 when the handler wrote a body without an explicit header.
func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wrote {
		return
	}
	s.status, s.wrote = code, true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b)
}
