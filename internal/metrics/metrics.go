// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// User collection metrics
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()

	// HTTP metrics. route is the matched route pattern, not the raw path.
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited()
}
