// Package metrics provides lightweight, lock-free counters for
// tracking runtime statistics of an outbound facade.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks request and session metrics for one facade.
// A nil Collector is safe to use: all methods become no-ops.
type Collector struct {
	requestsInflight atomic.Int64
	requestsTotal    atomic.Int64
	failuresConn     atomic.Int64
	failuresTLS      atomic.Int64
	failuresTimeout  atomic.Int64
	sessionsCreated  atomic.Int64
	sessionsClosed   atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Request metrics ──────────────────────────────────────────────────

// RequestStarted increments both the in-flight and total counters.
func (c *Collector) RequestStarted() {
	if c == nil {
		return
	}
	c.requestsInflight.Add(1)
	c.requestsTotal.Add(1)
}

// RequestFinished decrements the in-flight counter.
func (c *Collector) RequestFinished() {
	if c == nil {
		return
	}
	c.requestsInflight.Add(-1)
}

// InflightRequests returns the current number of in-flight requests.
func (c *Collector) InflightRequests() int64 {
	if c == nil {
		return 0
	}
	return c.requestsInflight.Load()
}

// TotalRequests returns the lifetime request count.
func (c *Collector) TotalRequests() int64 {
	if c == nil {
		return 0
	}
	return c.requestsTotal.Load()
}

// ── Failure metrics ──────────────────────────────────────────────────

// FailureKind mirrors the per-request error taxonomy.
type FailureKind int

const (
	FailConnection FailureKind = iota
	FailTLS
	FailTimeout
)

// RecordFailure counts a classified per-request failure and stores
// its message.
func (c *Collector) RecordFailure(kind FailureKind, msg string) {
	if c == nil {
		return
	}
	switch kind {
	case FailTLS:
		c.failuresTLS.Add(1)
	case FailTimeout:
		c.failuresTimeout.Add(1)
	default:
		c.failuresConn.Add(1)
	}
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// Failures returns the (connection, tls, timeout) failure counts.
func (c *Collector) Failures() (conn, tlsErrs, timeouts int64) {
	if c == nil {
		return 0, 0, 0
	}
	return c.failuresConn.Load(), c.failuresTLS.Load(), c.failuresTimeout.Load()
}

// ── Session metrics ──────────────────────────────────────────────────

// SessionCreated records a pooled session materialization.
func (c *Collector) SessionCreated() {
	if c == nil {
		return
	}
	c.sessionsCreated.Add(1)
}

// SessionClosed records a pooled session release.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessionsClosed.Add(1)
}

// SessionsCreated returns the lifetime session creation count.
func (c *Collector) SessionsCreated() int64 {
	if c == nil {
		return 0
	}
	return c.sessionsCreated.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	RequestsInflight int64  `json:"requests_inflight"`
	RequestsTotal    int64  `json:"requests_total"`
	FailuresConn     int64  `json:"failures_connection"`
	FailuresTLS      int64  `json:"failures_tls"`
	FailuresTimeout  int64  `json:"failures_timeout"`
	SessionsCreated  int64  `json:"sessions_created"`
	SessionsClosed   int64  `json:"sessions_closed"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:           time.Since(c.startTime).Truncate(time.Second).String(),
		RequestsInflight: c.requestsInflight.Load(),
		RequestsTotal:    c.requestsTotal.Load(),
		FailuresConn:     c.failuresConn.Load(),
		FailuresTLS:      c.failuresTLS.Load(),
		FailuresTimeout:  c.failuresTimeout.Load(),
		SessionsCreated:  c.sessionsCreated.Load(),
		SessionsClosed:   c.sessionsClosed.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}
