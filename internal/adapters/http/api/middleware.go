package api

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"

	"github.com/okian/standings/pkg/metrics"
)

// instrument records request count, latency and error class for endpoint.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		code := strconv.Itoa(m.Code)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, float64(m.Duration.Microseconds())/1e3)
		if kind := errorClass(m.Code); kind != "" {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
		}
	}
}

// errorClass maps a response status to the error label used in metrics;
// successful responses have none.
func errorClass(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return ""
	case status == http.StatusServiceUnavailable:
		return "not_computed"
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusUnprocessableEntity:
		return "configuration"
	case status == http.StatusNotFound:
		return "not_found"
	default:
		return "client_error"
	}
}
