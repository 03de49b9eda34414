package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics holds request and authorization counters for the portal.
// Thread-safe via atomics and mutex.
type Metrics struct {
	TotalRequests     int64
	ActiveRequests    int64
	TotalErrors       int64
	TotalLatencyMs    int64
	MaxLatencyMs      int64
	GuardAllowed      int64
	GuardDenied       int64
	UpstreamFailures  int64
	StartTime         time.Time
	EndpointCounts    map[string]int64
	EndpointLatencies map[string]int64 // total ms per endpoint
	StatusCodes       map[int]int64
	DeniedKeys        map[string]int64
	mu                sync.Mutex
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	TotalRequests    int64            `json:"total_requests"`
	ActiveRequests   int64            `json:"active_requests"`
	TotalErrors      int64            `json:"total_errors"`
	ErrorRate        float64          `json:"error_rate_pct"`
	AvgLatencyMs     float64          `json:"avg_latency_ms"`
	MaxLatencyMs     int64            `json:"max_latency_ms"`
	UptimeSeconds    float64          `json:"uptime_seconds"`
	GuardAllowed     int64            `json:"guard_allowed"`
	GuardDenied      int64            `json:"guard_denied"`
	UpstreamFailures int64            `json:"upstream_failures"`
	EndpointCounts   map[string]int64 `json:"endpoint_counts"`
	EndpointAvgMs    map[string]int64 `json:"endpoint_avg_latency_ms"`
	StatusCodes      map[int]int64    `json:"status_codes"`
	DeniedKeys       map[string]int64 `json:"denied_keys"`
}

var globalMetrics *Metrics
var once sync.Once

// New returns an empty, independent Metrics instance
func New() *Metrics {
	return &Metrics{
		StartTime:         time.Now(),
		EndpointCounts:    make(map[string]int64),
		EndpointLatencies: make(map[string]int64),
		StatusCodes:       make(map[int]int64),
		DeniedKeys:        make(map[string]int64),
	}
}

// GetMetrics returns the singleton metrics instance
func GetMetrics() *Metrics {
	once.Do(func() {
		globalMetrics = New()
	})
	return globalMetrics
}

// RecordGuardDecision counts a route guard outcome. missing is the first
// permission key that was not granted, empty when allowed.
func (m *Metrics) RecordGuardDecision(allowed bool, missing string) {
	if allowed {
		atomic.AddInt64(&m.GuardAllowed, 1)
		return
	}
	atomic.AddInt64(&m.GuardDenied, 1)
	if missing == "" {
		return
	}
	m.mu.Lock()
	m.DeniedKeys[missing]++
	m.mu.Unlock()
}

// RecordUpstreamFailure counts a failed call to the remote business API
func (m *Metrics) RecordUpstreamFailure() {
	atomic.AddInt64(&m.UpstreamFailures, 1)
}

// Middleware tracks request count, latency, active connections, and error rates
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&m.ActiveRequests, 1)
			start := time.Now()

			err := next(c)

			latencyMs := time.Since(start).Milliseconds()
			atomic.AddInt64(&m.ActiveRequests, -1)
			atomic.AddInt64(&m.TotalRequests, 1)
			atomic.AddInt64(&m.TotalLatencyMs, latencyMs)

			for {
				current := atomic.LoadInt64(&m.MaxLatencyMs)
				if latencyMs <= current {
					break
				}
				if atomic.CompareAndSwapInt64(&m.MaxLatencyMs, current, latencyMs) {
					break
				}
			}

			statusCode := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					statusCode = he.Code
				} else {
					statusCode = http.StatusInternalServerError
				}
			}
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			endpoint := fmt.Sprintf("%s %s", c.Request().Method, path)

			m.mu.Lock()
			m.EndpointCounts[endpoint]++
			m.EndpointLatencies[endpoint] += latencyMs
			m.StatusCodes[statusCode]++
			if statusCode >= 400 {
				atomic.AddInt64(&m.TotalErrors, 1)
			}
			m.mu.Unlock()

			return err
		}
	}
}

// Snapshot copies the current counters
func (m *Metrics) Snapshot() Snapshot {
	total := atomic.LoadInt64(&m.TotalRequests)
	errors := atomic.LoadInt64(&m.TotalErrors)
	totalLatency := atomic.LoadInt64(&m.TotalLatencyMs)

	var avgLatency, errorRate float64
	if total > 0 {
		avgLatency = float64(totalLatency) / float64(total)
		errorRate = float64(errors) / float64(total) * 100
	}

	m.mu.Lock()
	endpointCounts := make(map[string]int64, len(m.EndpointCounts))
	endpointAvg := make(map[string]int64, len(m.EndpointLatencies))
	for k, v := range m.EndpointCounts {
		endpointCounts[k] = v
		if v > 0 {
			endpointAvg[k] = m.EndpointLatencies[k] / v
		}
	}
	statusCodes := make(map[int]int64, len(m.StatusCodes))
	for k, v := range m.StatusCodes {
		statusCodes[k] = v
	}
	deniedKeys := make(map[string]int64, len(m.DeniedKeys))
	for k, v := range m.DeniedKeys {
		deniedKeys[k] = v
	}
	start := m.StartTime
	m.mu.Unlock()

	return Snapshot{
		TotalRequests:    total,
		ActiveRequests:   atomic.LoadInt64(&m.ActiveRequests),
		TotalErrors:      errors,
		ErrorRate:        errorRate,
		AvgLatencyMs:     avgLatency,
		MaxLatencyMs:     atomic.LoadInt64(&m.MaxLatencyMs),
		UptimeSeconds:    time.Since(start).Seconds(),
		GuardAllowed:     atomic.LoadInt64(&m.GuardAllowed),
		GuardDenied:      atomic.LoadInt64(&m.GuardDenied),
		UpstreamFailures: atomic.LoadInt64(&m.UpstreamFailures),
		EndpointCounts:   endpointCounts,
		EndpointAvgMs:    endpointAvg,
		StatusCodes:      statusCodes,
		DeniedKeys:       deniedKeys,
	}
}

// Handler serves the snapshot as JSON
func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}
