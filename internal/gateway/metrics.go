package gateway

import (
	"sync/atomic"

	"github.com/arkrelay/arkrelay/internal/relay"
)

// Metrics tracks transfer-level counters using atomic operations for
// lock-free concurrency.
type Metrics struct {
	started   atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	cancelled atomic.Int64
	bytes     atomic.Int64
	commands  atomic.Int64
}

// RecordStart records a transfer entering the pipeline.
func (m *Metrics) RecordStart() {
	m.started.Add(1)
}

// RecordOutcome records a terminal transfer outcome.
func (m *Metrics) RecordOutcome(out relay.Outcome) {
	switch out.State {
	case relay.StateSuccess:
		m.succeeded.Add(1)
		m.bytes.Add(out.Bytes)
	case relay.StateFailed:
		m.failed.Add(1)
	case relay.StateCancelled:
		m.cancelled.Add(1)
	}
}

// RecordCommand records an inbound bot command.
func (m *Metrics) RecordCommand() {
	m.commands.Add(1)
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Started:          m.started.Load(),
		Succeeded:        m.succeeded.Load(),
		Failed:           m.failed.Load(),
		Cancelled:        m.cancelled.Load(),
		BytesTransferred: m.bytes.Load(),
		Commands:         m.commands.Load(),
	}
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Started          int64 `json:"transfers_started"`
	Succeeded        int64 `json:"transfers_succeeded"`
	Failed           int64 `json:"transfers_failed"`
	Cancelled        int64 `json:"transfers_cancelled"`
	BytesTransferred int64 `json:"bytes_transferred"`
	Commands         int64 `json:"commands"`
}
