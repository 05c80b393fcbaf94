package relay

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// Status is the registry-level lifecycle state of a transfer.
type Status string

// Lifecycle states.
const (
	StatusQueued Status = "queued"
	StatusActive Status = "active"
	StatusDone   Status = "done"
)

// Snapshot is a point-in-time, serializable view of one transfer.
type Snapshot struct {
	ID        string    `json:"id"`
	Item      string    `json:"item"`
	Name      string    `json:"name"`
	ChatID    int64     `json:"chat_id"`
	Status    Status    `json:"status"`
	Progress  Progress  `json:"progress"`
	Outcome   *Outcome  `json:"outcome,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type record struct {
	req       Request
	status    Status
	progress  Progress
	outcome   *Outcome
	createdAt time.Time
	updatedAt time.Time
	cancel    context.CancelFunc
}

// Registry is a concurrent-safe, in-memory index of transfers. It exists for
// observability (gateway listing, WebSocket streaming) and cooperative
// cancellation; nothing in it is ever persisted.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*record
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*record)}
}

// Add registers a queued transfer with its cancel function.
func (r *Registry) Add(req Request, cancel context.CancelFunc) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[req.ID] = &record{
		req:       req,
		status:    StatusQueued,
		progress:  Progress{TotalBytes: req.DeclaredSize},
		createdAt: now,
		updatedAt: now,
		cancel:    cancel,
	}
}

// MarkActive transitions a transfer to the active state.
func (r *Registry) MarkActive(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		rec.status = StatusActive
		rec.updatedAt = time.Now()
	}
}

// UpdateProgress stores the latest progress snapshot for a transfer.
func (r *Registry) UpdateProgress(id string, p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		rec.progress = p
		rec.updatedAt = time.Now()
	}
}

// Complete records the terminal outcome of a transfer.
func (r *Registry) Complete(id string, out Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		rec.status = StatusDone
		rec.outcome = &out
		rec.progress.BytesTransferred = out.Bytes
		rec.updatedAt = time.Now()
	}
}

// Cancel signals cancellation of a queued or active transfer.
// Returns ErrNotFound if the ID is unknown or the transfer already finished.
func (r *Registry) Cancel(id string) error {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()

	if !ok || rec.status == StatusDone || rec.cancel == nil {
		return ErrNotFound
	}
	rec.cancel()
	return nil
}

// Get returns the snapshot for one transfer.
func (r *Registry) Get(id string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return Snapshot{}, false
	}
	return rec.snapshot(id), true
}

// Snapshots returns views of all known transfers, newest first.
func (r *Registry) Snapshots() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Snapshot, 0, len(r.records))
	for id, rec := range r.records {
		result = append(result, rec.snapshot(id))
	}
	slices.SortFunc(result, func(a, b Snapshot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}

// Active returns the number of transfers not yet done.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rec := range r.records {
		if rec.status != StatusDone {
			n++
		}
	}
	return n
}

// Len returns the total number of tracked transfers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Prune removes finished transfers older than maxAge and returns the count.
func (r *Registry) Prune(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for id, rec := range r.records {
		if rec.status == StatusDone && rec.updatedAt.Before(cutoff) {
			delete(r.records, id)
			pruned++
		}
	}
	return pruned
}

func (rec *record) snapshot(id string) Snapshot {
	s := Snapshot{
		ID:        id,
		Item:      rec.req.Source.Item,
		Name:      rec.req.Source.Name,
		ChatID:    rec.req.ChatID,
		Status:    rec.status,
		Progress:  rec.progress,
		Outcome:   rec.outcome,
		CreatedAt: rec.createdAt,
		UpdatedAt: rec.updatedAt,
	}
	if rec.outcome != nil && rec.outcome.Err != nil {
		s.Error = rec.outcome.Err.Error()
	}
	return s
}
