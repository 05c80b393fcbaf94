package gateway

import (
	"testing"

	"github.com/arkrelay/arkrelay/internal/relay"
)

func TestMetricsSnapshot(t *testing.T) {
	t.Parallel()

	m := &Metrics{}
	m.RecordStart()
	m.RecordStart()
	m.RecordStart()
	m.RecordCommand()

	m.RecordOutcome(relay.Success(1024))
	m.RecordOutcome(relay.Failed(relay.ErrKindSourceUnreachable, 100, errBoom))
	m.RecordOutcome(relay.Cancelled(50))

	snap := m.Snapshot()
	if snap.Started != 3 {
		t.Errorf("Started = %d, want 3", snap.Started)
	}
	if snap.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", snap.Succeeded)
	}
	if snap.Failed != 1 {
		t.Errorf("Failed = %d, want 1", snap.Failed)
	}
	if snap.Cancelled != 1 {
		t.Errorf("Cancelled = %d, want 1", snap.Cancelled)
	}
	if snap.Commands != 1 {
		t.Errorf("Commands = %d, want 1", snap.Commands)
	}
	// Only successful transfers count toward the byte total.
	if snap.BytesTransferred != 1024 {
		t.Errorf("BytesTransferred = %d, want 1024", snap.BytesTransferred)
	}
}

func TestMetricsConcurrentRecording(t *testing.T) {
	t.Parallel()

	m := &Metrics{}
	done := make(chan struct{})
	for range 10 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				m.RecordStart()
				m.RecordOutcome(relay.Success(1))
			}
		}()
	}
	for range 10 {
		<-done
	}

	snap := m.Snapshot()
	if snap.Started != 1000 {
		t.Errorf("Started = %d, want 1000", snap.Started)
	}
	if snap.BytesTransferred != 1000 {
		t.Errorf("BytesTransferred = %d, want 1000", snap.BytesTransferred)
	}
}
