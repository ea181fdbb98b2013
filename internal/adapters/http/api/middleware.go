package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/detetive/pkg/metrics"
)

// errorClass is the label pair recorded for a failed response.
type errorClass struct {
	kind     string
	severity string
}

// classify maps a response status onto the error labels. ok is false for
// statuses below 400.
func classify(status int) (errorClass, bool) {
	switch {
	case status < http.StatusBadRequest:
		return errorClass{}, false
	case status == http.StatusServiceUnavailable:
		return errorClass{"unavailable", "high"}, true
	case status >= http.StatusInternalServerError:
		return errorClass{"server_error", "high"}, true
	case status == http.StatusConflict:
		return errorClass{"conflict", "medium"}, true
	case status == http.StatusNotFound:
		return errorClass{"not_found", "low"}, true
	default:
		return errorClass{"client_error", "medium"}, true
	}
}

// MetricsMiddleware records request count and latency for endpoint, plus the
// error counters when the handler answers with a 4xx or 5xx.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		ms := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, ms)

		if class, failed := classify(rec.status); failed {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, class.kind)
			metrics.RecordErrorByType(class.kind, class.severity)
			metrics.RecordErrorLatency("http", class.kind, ms)
		}
	}
}

// statusRecorder remembers the status written through it.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.status = code
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.wroteHeader = true
	return rec.ResponseWriter.Write(b) //nolint:wrapcheck // pass-through writer
}

// Unwrap lets http.ResponseController reach Flush and SetWriteDeadline on the
// underlying writer.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}
