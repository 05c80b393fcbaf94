package relay

import (
	"context"
	"io"
)

// Source dereferences a locator into a byte stream. The archive.org module
// provides the production implementation; tests use scripted fakes.
type Source interface {
	// Open returns a stream positioned at offset, the total payload length
	// if the source declares one (0 = unknown), and whether the source
	// honours non-zero offsets (range-resumable reads).
	//
	// Implementations that do not support resuming must return an error for
	// non-zero offsets rather than silently serving from the start.
	Open(ctx context.Context, loc Locator, offset int64) (stream io.ReadCloser, length int64, resumable bool, err error)
}

// Sink accepts chunked writes for one destination upload. A Sink belongs to
// exactly one transfer attempt; restarting a transfer from offset zero means
// aborting the old sink and opening a fresh one.
type Sink interface {
	// WriteChunk forwards one chunk to the destination. The chunk is fully
	// delivered (or the write has failed) when WriteChunk returns.
	WriteChunk(p []byte) error

	// Finalize completes the upload and waits for the destination to
	// confirm receipt of the final chunk.
	Finalize(ctx context.Context) error

	// Abort discards the upload. Safe to call after a failed WriteChunk
	// and on cancellation; must not be called after Finalize.
	Abort()
}

// SinkOpener creates sinks. The Telegram channel module provides the
// production implementation.
type SinkOpener interface {
	// OpenSink starts a destination upload for the given request.
	OpenSink(ctx context.Context, req Request) (Sink, error)
}
