package observability

import (
	"sync"
	"time"
)

type requestKey struct {
	path   string
	method string
	status int
}

// Metrics keeps in-process counters for served requests and error codes.
type Metrics struct {
	mu       sync.RWMutex
	requests map[requestKey]int64
	latency  map[requestKey]time.Duration
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[requestKey]int64),
		latency:  make(map[requestKey]time.Duration),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts one served request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := requestKey{path: path, method: method, status: status}
	m.mu.Lock()
	m.requests[key]++
	m.latency[key] += duration
	m.mu.Unlock()
}

// RecordError counts one request that ended with the given error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.errors[path+" "+method+" "+code]++
	m.mu.Unlock()
}

// RequestTotal reports how many requests to path/method finished with status.
func (m *Metrics) RequestTotal(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[requestKey{path: path, method: method, status: status}]
}

// ErrorTotal reports how many requests to path/method ended with the error code.
func (m *Metrics) ErrorTotal(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errors[path+" "+method+" "+code]
}
