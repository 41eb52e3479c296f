package metrics

import (
	"strconv"
	"time"
)

// RecordDBOperation records database operation metrics consistently.
// repo: repository name (e.g., "user", "post")
// operation: operation name (e.g., "create", "get", "update", "delete", "list")
func RecordDBOperation(repo, operation string, duration time.Duration, err error) {
	DBDuration.WithLabelValues(repo, operation).Observe(float64(duration.Milliseconds()))

	status := "success"
	if err != nil {
		status = "error"
	}
	DBOperations.WithLabelValues(repo, operation, status).Inc()
}

// RecordLogin records a login attempt outcome
func RecordLogin(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	Logins.WithLabelValues(status).Inc()
}

// RecordTokenRefresh records a refresh-endpoint outcome
func RecordTokenRefresh(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	TokenRefreshes.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records a REST request outcome
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(float64(duration.Milliseconds()))
}
