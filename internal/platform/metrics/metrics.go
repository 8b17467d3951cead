// Package metrics provides observability for the demo server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers runtime counters.
type Collector struct {
	// Engine metrics
	ActionsApplied   int64
	UnknownActions   int64
	RandomEvents     int64
	ActionLatencySum int64 // nanoseconds
	ActionLatencyMax int64
	LastActionTime   time.Time

	// Journal metrics
	JournalWrites      int64
	JournalWriteLatSum int64
	JournalWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64
	WSRateLimited       int64

	// Backend metrics
	BackendRequests int64
	BackendErrors   int64

	StartTime time.Time
	mu        sync.RWMutex
}

var collector = NewCollector()

// NewCollector returns an empty collector. Tests use their own instance.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Get returns the process-wide collector.
func Get() *Collector {
	return collector
}

// RecordAction records one engine Apply.
func (c *Collector) RecordAction(latency time.Duration, known, randomEvent bool) {
	atomic.AddInt64(&c.ActionsApplied, 1)
	atomic.AddInt64(&c.ActionLatencySum, int64(latency))
	if !known {
		atomic.AddInt64(&c.UnknownActions, 1)
	}
	if randomEvent {
		atomic.AddInt64(&c.RandomEvents, 1)
	}

	// Racy max is fine for a gauge.
	if int64(latency) > atomic.LoadInt64(&c.ActionLatencyMax) {
		atomic.StoreInt64(&c.ActionLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastActionTime = time.Now()
	c.mu.Unlock()
}

// RecordJournalWrite records a journal append.
func (c *Collector) RecordJournalWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.JournalWrites, 1)
	atomic.AddInt64(&c.JournalWriteLatSum, int64(latency))
	if err != nil {
		atomic.AddInt64(&c.JournalWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordWSRateLimited records an action dropped by the per-client limiter.
func (c *Collector) RecordWSRateLimited() {
	atomic.AddInt64(&c.WSRateLimited, 1)
}

// RecordBackendCall records a call to the remote simulation service.
func (c *Collector) RecordBackendCall(err error) {
	atomic.AddInt64(&c.BackendRequests, 1)
	if err != nil {
		atomic.AddInt64(&c.BackendErrors, 1)
	}
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	lastAction := c.LastActionTime
	c.mu.RUnlock()

	applied := atomic.LoadInt64(&c.ActionsApplied)
	writes := atomic.LoadInt64(&c.JournalWrites)

	var actionAvg, journalAvg float64
	if applied > 0 {
		actionAvg = float64(atomic.LoadInt64(&c.ActionLatencySum)) / float64(applied) / 1e6 // ms
	}
	if writes > 0 {
		journalAvg = float64(atomic.LoadInt64(&c.JournalWriteLatSum)) / float64(writes) / 1e6
	}

	last := ""
	if !lastAction.IsZero() {
		last = lastAction.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"actions": map[string]interface{}{
			"applied":        applied,
			"unknown":        atomic.LoadInt64(&c.UnknownActions),
			"random_events":  atomic.LoadInt64(&c.RandomEvents),
			"avg_latency_ms": actionAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.ActionLatencyMax)) / 1e6,
			"last_action":    last,
		},

		"journal": map[string]interface{}{
			"writes":           writes,
			"avg_write_lat_ms": journalAvg,
			"errors":           atomic.LoadInt64(&c.JournalWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
			"rate_limited":       atomic.LoadInt64(&c.WSRateLimited),
		},

		"backend": map[string]interface{}{
			"requests": atomic.LoadInt64(&c.BackendRequests),
			"errors":   atomic.LoadInt64(&c.BackendErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		counter := func(name, help string, v int64) {
			fmt.Fprintf(w, "# HELP %s %s\n", name, help)
			fmt.Fprintf(w, "# TYPE %s counter\n", name)
			fmt.Fprintf(w, "%s %d\n\n", name, v)
		}

		counter("lifesim_actions_applied", "Total actions applied to the engine", atomic.LoadInt64(&c.ActionsApplied))
		counter("lifesim_actions_unknown", "Actions with an unrecognised identifier", atomic.LoadInt64(&c.UnknownActions))
		counter("lifesim_random_events", "Random events triggered by advance-day", atomic.LoadInt64(&c.RandomEvents))

		fmt.Fprintf(w, "# HELP lifesim_action_latency_max_ms Maximum action latency\n")
		fmt.Fprintf(w, "# TYPE lifesim_action_latency_max_ms gauge\n")
		fmt.Fprintf(w, "lifesim_action_latency_max_ms %.3f\n\n", float64(atomic.LoadInt64(&c.ActionLatencyMax))/1e6)

		counter("lifesim_journal_writes", "Total journal appends", atomic.LoadInt64(&c.JournalWrites))
		counter("lifesim_journal_write_errors", "Failed journal appends", atomic.LoadInt64(&c.JournalWriteErrors))

		fmt.Fprintf(w, "# HELP lifesim_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE lifesim_ws_connections gauge\n")
		fmt.Fprintf(w, "lifesim_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP lifesim_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE lifesim_ws_messages_total counter\n")
		fmt.Fprintf(w, "lifesim_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "lifesim_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		counter("lifesim_ws_rate_limited", "Actions dropped by the per-client limiter", atomic.LoadInt64(&c.WSRateLimited))
		counter("lifesim_backend_requests", "Calls to the remote simulation service", atomic.LoadInt64(&c.BackendRequests))
		counter("lifesim_backend_errors", "Failed calls to the remote simulation service", atomic.LoadInt64(&c.BackendErrors))
	}
}
