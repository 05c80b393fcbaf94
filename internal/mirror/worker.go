package mirror

import (
	"context"
	"errors"

	"github.com/arkrelay/arkrelay/internal/channel"
	"github.com/arkrelay/arkrelay/internal/relay"
)

// job is one queued transfer. statusChat is where progress edits go, which
// may differ from the upload target when target_chat_id is configured.
type job struct {
	req        relay.Request
	statusChat int64
	ctx        context.Context
	cancel     context.CancelFunc
}

// enqueue registers a transfer and hands it to the worker pool without
// blocking. The registry entry exists before the job is visible to workers
// so /status and the gateway never miss a queued transfer.
func (m *Mirror) enqueue(req relay.Request, statusChat int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return errors.New("mirror: shutting down")
	}

	jctx, jcancel := context.WithCancel(m.ctx)
	m.registry.Add(req, jcancel)

	select {
	case m.queue <- job{req: req, statusChat: statusChat, ctx: jctx, cancel: jcancel}:
		if m.metrics != nil {
			m.metrics.RecordStart()
		}
		return nil
	default:
		jcancel()
		m.registry.Complete(req.ID, relay.Cancelled(0))
		return errors.New("mirror: transfer queue is full")
	}
}

// worker consumes jobs until the queue is closed.
func (m *Mirror) worker() {
	defer m.wg.Done()
	for j := range m.queue {
		m.runTransfer(j)
	}
}

// runTransfer drives one transfer to a terminal outcome, keeping the
// registry, metrics, and the chat status message in sync along the way.
func (m *Mirror) runTransfer(j job) {
	defer j.cancel()

	m.registry.MarkActive(j.req.ID)

	// Best effort status message; a failed Send never blocks the transfer.
	ref, err := m.channel.Send(m.ctx, channel.OutboundMessage{
		ChatID:              j.statusChat,
		Text:                "⏳ " + j.req.FileName,
		DisableNotification: true,
	})
	hasRef := err == nil
	if err != nil {
		m.logger.Warn("status message failed", "transfer", j.req.ID, "error", err)
	}

	onProgress := func(p relay.Progress) {
		m.registry.UpdateProgress(j.req.ID, p)
		if !hasRef {
			return
		}
		if err := m.channel.Edit(m.ctx, ref, renderProgress(j.req.FileName, p)); err != nil &&
			!errors.Is(err, channel.ErrEditUnsupported) {
			m.logger.Debug("progress edit failed", "transfer", j.req.ID, "error", err)
		}
	}

	out := m.relay.Transfer(j.ctx, j.req, onProgress)

	m.registry.Complete(j.req.ID, out)
	if m.metrics != nil {
		m.metrics.RecordOutcome(out)
	}

	attrs := []any{
		"transfer", j.req.ID,
		"item", j.req.Source.Item,
		"file", j.req.Source.Name,
		"state", out.State,
		"bytes", out.Bytes,
	}
	if out.Err != nil {
		attrs = append(attrs, "error_kind", out.ErrKind, "error", out.Err)
		m.logger.Warn("transfer finished", attrs...)
	} else {
		m.logger.Info("transfer finished", attrs...)
	}

	if hasRef {
		if err := m.channel.Edit(m.ctx, ref, renderOutcome(j.req.FileName, out)); err != nil &&
			!errors.Is(err, channel.ErrEditUnsupported) {
			m.logger.Debug("outcome edit failed", "transfer", j.req.ID, "error", err)
		}
	}
}
