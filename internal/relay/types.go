// Package relay implements the streaming download-to-upload pipeline at the
// heart of arkrelay. A relay forwards bytes from a Source (archive.org) to a
// Sink (a Telegram upload) in bounded-size chunks, reporting progress through
// a throttled callback and retrying transient source failures with backoff.
// The payload is never materialized on disk or fully in memory.
package relay

import (
	"time"
)

// Kind selects the Telegram upload method used for the payload.
type Kind string

// Upload kinds.
const (
	KindDocument Kind = "document"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
)

// Locator identifies a file within an archive.org item.
type Locator struct {
	// Item is the archive.org item identifier.
	Item string

	// Name is the file name within the item.
	Name string
}

// Request describes one transfer. Immutable once created.
type Request struct {
	// ID uniquely identifies the transfer (assigned by the caller).
	ID string

	// Source locates the payload.
	Source Locator

	// ChatID is the destination Telegram chat or channel.
	ChatID int64

	// FileName is the name presented to Telegram for the upload.
	FileName string

	// Caption is the optional caption attached to the upload.
	Caption string

	// MIMEType is the payload content type, if known.
	MIMEType string

	// Kind selects the upload method (document, audio, video).
	Kind Kind

	// DeclaredSize is the payload size in bytes as reported by the catalog,
	// or 0 if unknown. Used for the pre-flight size ceiling check.
	DeclaredSize int64

	// Thumbnail is an optional small preview image attached to the upload.
	// Destinations that cannot use it ignore it.
	Thumbnail []byte
}

// Progress is a snapshot of a transfer's advancement. BytesTransferred is
// non-decreasing and never exceeds TotalBytes when TotalBytes is known.
//
// When a non-resumable source forces a restart from offset zero, the internal
// write offset resets but reported progress holds at its high-water mark, so
// observers never see the counter move backwards.
type Progress struct {
	// BytesTransferred is the number of payload bytes confirmed written
	// to the sink.
	BytesTransferred int64 `json:"bytes_transferred"`

	// TotalBytes is the payload size if known, 0 otherwise.
	TotalBytes int64 `json:"total_bytes"`

	// StartedAt is when the transfer began.
	StartedAt time.Time `json:"started_at"`
}

// State is the terminal state of a transfer.
type State string

// Terminal states.
const (
	StateSuccess   State = "success"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Outcome is the definitive terminal result of one transfer. Exactly one
// Outcome is produced per Request.
type Outcome struct {
	// State is the terminal state.
	State State `json:"state"`

	// ErrKind classifies the failure when State is StateFailed.
	ErrKind ErrKind `json:"error_kind,omitempty"`

	// Bytes is the final byte count on success, or the last confirmed
	// offset on failure or cancellation.
	Bytes int64 `json:"bytes"`

	// Err is the underlying error, nil unless State is StateFailed.
	Err error `json:"-"`
}

// Success builds a successful outcome with the final byte count.
func Success(bytes int64) Outcome {
	return Outcome{State: StateSuccess, Bytes: bytes}
}

// Failed builds a failed outcome with the last confirmed offset.
func Failed(kind ErrKind, bytes int64, err error) Outcome {
	return Outcome{State: StateFailed, ErrKind: kind, Bytes: bytes, Err: err}
}

// Cancelled builds a cancelled outcome with the last confirmed offset.
func Cancelled(bytes int64) Outcome {
	return Outcome{State: StateCancelled, Bytes: bytes}
}
