package relay

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Options controls chunking, the size ceiling, retry behavior, and progress
// throttling. Zero values are replaced by defaults.
type Options struct {
	// ChunkSize is the size of each read/write cycle in bytes.
	ChunkSize int `yaml:"chunk_size"`

	// MaxSize is the payload size ceiling in bytes. Transfers whose declared
	// or reported size exceeds it are rejected before any stream is opened.
	// 0 disables the ceiling.
	MaxSize int64 `yaml:"max_size"`

	// MaxRetries bounds consecutive transient source failures. The counter
	// resets after every successful read.
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the initial backoff between retries; it doubles after
	// each attempt.
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// ProgressInterval is the minimum time between progress callbacks.
	ProgressInterval time.Duration `yaml:"progress_interval"`

	// ProgressBytes is the byte delta that forces a progress callback even
	// within ProgressInterval.
	ProgressBytes int64 `yaml:"progress_bytes"`
}

// Defaults fills zero values with sensible defaults.
func (o *Options) Defaults() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 512 * 1024
	}
	if o.MaxSize == 0 {
		o.MaxSize = 2 << 30 // Telegram bot upload hard limit
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 4
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 500 * time.Millisecond
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = 3 * time.Second
	}
	if o.ProgressBytes <= 0 {
		o.ProgressBytes = 5 << 20
	}
}

// Relay forwards bytes from a Source to sinks opened through a SinkOpener.
// A Relay is stateless between transfers and safe for concurrent use; each
// Transfer call owns its Progress exclusively.
type Relay struct {
	source Source
	sinks  SinkOpener
	opts   Options
	logger *slog.Logger
}

// New creates a Relay. opts is defaulted in place.
func New(source Source, sinks SinkOpener, opts Options, logger *slog.Logger) *Relay {
	opts.Defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		source: source,
		sinks:  sinks,
		opts:   opts,
		logger: logger,
	}
}

// Transfer runs one request to a terminal Outcome. onProgress (optional)
// receives throttled Progress snapshots; it is called from the transfer's
// goroutine, never concurrently with itself.
//
// Cancellation is cooperative: ctx is checked once per chunk boundary,
// never mid-chunk.
func (r *Relay) Transfer(ctx context.Context, req Request, onProgress func(Progress)) Outcome {
	if req.Source.Item == "" || req.Source.Name == "" {
		return Failed(ErrKindSourceUnreachable, 0, ErrEmptyLocator)
	}

	// Pre-flight ceiling check on the catalog-declared size: reject before
	// opening any stream.
	if r.opts.MaxSize > 0 && req.DeclaredSize > r.opts.MaxSize {
		return Failed(ErrKindSizeExceeded, 0, ErrSizeExceeded)
	}

	stream, total, resumable, err := r.source.Open(ctx, req.Source, 0)
	if err != nil {
		return Failed(ErrKindSourceUnreachable, 0, err)
	}
	if total <= 0 {
		total = req.DeclaredSize
	}

	// The source's reported length gets the same ceiling check, still before
	// any destination write.
	if r.opts.MaxSize > 0 && total > r.opts.MaxSize {
		_ = stream.Close()
		return Failed(ErrKindSizeExceeded, 0, ErrSizeExceeded)
	}

	sink, err := r.sinks.OpenSink(ctx, req)
	if err != nil {
		_ = stream.Close()
		return Failed(ErrKindDestination, 0, err)
	}

	return r.run(ctx, req, stream, sink, total, resumable, onProgress)
}

// run executes the chunked copy loop. It owns stream and sink and releases
// both on every exit path.
func (r *Relay) run(ctx context.Context, req Request, stream io.ReadCloser, sink Sink, total int64, resumable bool, onProgress func(Progress)) Outcome {
	var (
		offset    int64 // bytes confirmed written to the current sink
		reported  int64 // high-water mark, never decreases across restarts
		retries   int
		backoff   = r.opts.RetryBackoff
		buf       = make([]byte, r.opts.ChunkSize)
		startedAt = time.Now()
		lastEmit  time.Time
		lastBytes int64
	)

	emit := func(force bool) {
		if onProgress == nil {
			return
		}
		if !force &&
			time.Since(lastEmit) < r.opts.ProgressInterval &&
			reported-lastBytes < r.opts.ProgressBytes {
			return
		}
		p := Progress{BytesTransferred: reported, TotalBytes: total, StartedAt: startedAt}
		if total > 0 && p.BytesTransferred > total {
			p.BytesTransferred = total
		}
		onProgress(p)
		lastEmit = time.Now()
		lastBytes = reported
	}

	emit(true)

	for {
		// Cancellation boundary: once per chunk, never mid-chunk.
		select {
		case <-ctx.Done():
			sink.Abort()
			_ = stream.Close()
			return Cancelled(reported)
		default:
		}

		n, readErr := readChunk(stream, buf)

		if n > 0 {
			if werr := sink.WriteChunk(buf[:n]); werr != nil {
				sink.Abort()
				_ = stream.Close()
				return Failed(ErrKindDestination, reported, werr)
			}
			offset += int64(n)
			if offset > reported {
				reported = offset
			}
			retries = 0
			backoff = r.opts.RetryBackoff
			emit(false)

			if r.opts.MaxSize > 0 && offset > r.opts.MaxSize {
				sink.Abort()
				_ = stream.Close()
				return Failed(ErrKindSizeExceeded, reported, ErrSizeExceeded)
			}
		}

		switch {
		case readErr == nil:
			continue

		case readErr == io.EOF && (total <= 0 || offset >= total):
			_ = stream.Close()
			if ferr := sink.Finalize(ctx); ferr != nil {
				return Failed(ErrKindDestination, reported, ferr)
			}
			emit(true)
			return Success(reported)

		default:
			// Premature EOF (offset < known total) and read errors are both
			// transient: reconnect with backoff.
			if readErr == io.EOF {
				readErr = io.ErrUnexpectedEOF
			}
			_ = stream.Close()

			var outcome *Outcome
			stream, sink, offset, outcome = r.reconnect(ctx, req, sink, offset, reported, resumable, &retries, &backoff, readErr)
			if outcome != nil {
				return *outcome
			}
		}
	}
}

// reconnect re-opens the source after a transient failure, consuming retry
// budget with exponential backoff. For resumable sources it reopens at the
// confirmed offset and keeps the sink; otherwise it restarts from zero with
// a fresh sink. Returns a terminal outcome when the transfer cannot continue.
func (r *Relay) reconnect(ctx context.Context, req Request, sink Sink, offset, reported int64, resumable bool, retries *int, backoff *time.Duration, cause error) (io.ReadCloser, Sink, int64, *Outcome) {
	var stream io.ReadCloser

	for stream == nil {
		*retries++
		if *retries > r.opts.MaxRetries {
			sink.Abort()
			out := Failed(ErrKindTransientSource, reported, cause)
			return nil, nil, 0, &out
		}

		r.logger.Warn("source read failed, retrying",
			"transfer", req.ID,
			"attempt", *retries,
			"offset", offset,
			"resumable", resumable,
			"error", cause,
		)

		if err := sleepCtx(ctx, *backoff); err != nil {
			sink.Abort()
			out := Cancelled(reported)
			return nil, nil, 0, &out
		}
		*backoff *= 2

		resumeAt := offset
		if !resumable {
			resumeAt = 0
		}
		s, _, _, err := r.source.Open(ctx, req.Source, resumeAt)
		if err != nil {
			cause = err
			continue
		}
		stream = s
	}

	if !resumable && offset > 0 {
		// The old sink saw a partial payload; discard it and start over.
		sink.Abort()
		fresh, err := r.sinks.OpenSink(ctx, req)
		if err != nil {
			_ = stream.Close()
			out := Failed(ErrKindDestination, reported, err)
			return nil, nil, 0, &out
		}
		return stream, fresh, 0, nil
	}

	return stream, sink, offset, nil
}

// readChunk fills buf as far as the stream allows. A partial final chunk is
// reported with io.EOF so the caller sees exactly one termination signal.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.ErrUnexpectedEOF {
		return n, io.EOF
	}
	return n, err
}

// sleepCtx blocks for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
