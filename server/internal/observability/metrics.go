package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates per-component request counters. Components are the
// upstream-facing services (chat, restaurants, search, advisor).
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	components map[string]*ComponentMetrics
}

// ComponentMetrics holds counters for one component.
type ComponentMetrics struct {
	requestCount  atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		components: make(map[string]*ComponentMetrics),
	}
}

// Global metrics instance.
var globalMetrics = NewMetrics()

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a request for a component.
func (m *Metrics) RecordRequest(component string) {
	m.requestTotal.Add(1)
	m.getComponent(component).requestCount.Add(1)
}

// RecordFailure records a failed request for a component.
func (m *Metrics) RecordFailure(component string) {
	m.requestFailed.Add(1)
	m.getComponent(component).errorCount.Add(1)
}

// RecordDuration records a request duration for a component.
func (m *Metrics) RecordDuration(component string, duration time.Duration) {
	m.getComponent(component).totalDuration.Add(duration.Milliseconds())
}

func (m *Metrics) getComponent(component string) *ComponentMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, ok := m.components[component]
	if !ok {
		cm = &ComponentMetrics{}
		m.components[component] = cm
	}
	return cm
}

// Reset resets all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)

	m.mu.Lock()
	m.components = make(map[string]*ComponentMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time snapshot of the counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	components := make(map[string]*ComponentSnapshot, len(m.components))
	for name, cm := range m.components {
		count := cm.requestCount.Load()
		snapshot := &ComponentSnapshot{
			RequestCount: count,
			ErrorCount:   cm.errorCount.Load(),
		}
		if count > 0 {
			snapshot.AverageDurationMs = cm.totalDuration.Load() / count
		}
		components[name] = snapshot
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Components:    components,
	}
}

// MetricsSnapshot is a point-in-time snapshot of the counters.
type MetricsSnapshot struct {
	RequestTotal  int64                         `json:"request_total"`
	RequestFailed int64                         `json:"request_failed"`
	Components    map[string]*ComponentSnapshot `json:"components"`
}

// ComponentSnapshot holds the counters for one component.
type ComponentSnapshot struct {
	RequestCount      int64 `json:"request_count"`
	ErrorCount        int64 `json:"error_count"`
	AverageDurationMs int64 `json:"average_duration_ms"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
