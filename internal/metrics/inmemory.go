package metrics

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated        uint64
	UsersUpdated        uint64
	UsersDeleted        uint64
	RateLimited         uint64
	HTTPRequests        uint64
	HTTPDurationTotalNs int64
	// RequestsByRoute is keyed by "METHOD route status".
	RequestsByRoute map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated        uint64
	usersUpdated        uint64
	usersDeleted        uint64
	rateLimited         uint64
	httpRequests        uint64
	httpDurationTotalNs int64

	mu      sync.Mutex
	byRoute map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{byRoute: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	byRoute := make(map[string]uint64, len(m.byRoute))
	for k, v := range m.byRoute {
		byRoute[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		UsersCreated:        atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:        atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:        atomic.LoadUint64(&m.usersDeleted),
		RateLimited:         atomic.LoadUint64(&m.rateLimited),
		HTTPRequests:        atomic.LoadUint64(&m.httpRequests),
		HTTPDurationTotalNs: atomic.LoadInt64(&m.httpDurationTotalNs),
		RequestsByRoute:     byRoute,
	}
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncRateLimited increments the rejected request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// ObserveHTTPRequest records a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	atomic.AddInt64(&m.httpDurationTotalNs, duration.Nanoseconds())

	m.mu.Lock()
	m.byRoute[RouteKey(method, route, status)]++
	m.mu.Unlock()
}

// RouteKey formats the key used by InMemoryRecorder.RequestsByRoute.
func RouteKey(method, route string, status int) string {
	return method + " " + route + " " + strconv.Itoa(status)
}
