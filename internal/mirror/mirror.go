// Package mirror orchestrates arkrelay's core flow: it parses bot commands,
// resolves archive.org items through the catalog, and feeds transfers to a
// bounded worker pool that streams each file into the destination channel.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/arkrelay/arkrelay/internal/channel"
	"github.com/arkrelay/arkrelay/internal/core"
	"github.com/arkrelay/arkrelay/internal/cron"
	"github.com/arkrelay/arkrelay/internal/relay"
	"github.com/arkrelay/arkrelay/internal/source"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Mirror{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Mirror)(nil)
	_ core.Provisioner  = (*Mirror)(nil)
	_ core.Validator    = (*Mirror)(nil)
	_ core.Starter      = (*Mirror)(nil)
	_ core.Stopper      = (*Mirror)(nil)
)

// resolveTimeout bounds catalog metadata lookups triggered by commands.
const resolveTimeout = 30 * time.Second

// metricsRecorder is the subset of the gateway metrics the mirror feeds.
// Declared locally so the mirror does not depend on the gateway package.
type metricsRecorder interface {
	RecordStart()
	RecordOutcome(out relay.Outcome)
	RecordCommand()
}

// Mirror is the orchestration module. Its channel and catalog dependencies
// are injected during wiring, before Start().
type Mirror struct {
	config Config
	logger *slog.Logger
	appCtx *core.AppContext

	channel   channel.Channel
	catalog   source.Catalog
	registry  *relay.Registry
	relay     *relay.Relay
	scheduler *cron.Scheduler
	metrics   metricsRecorder

	queue   chan job
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
}

// ModuleInfo implements core.Module.
func (m *Mirror) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "mirror",
		New: func() core.Module { return &Mirror{} },
	}
}

// Configure implements core.Configurable.
func (m *Mirror) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("mirror: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner. The context and queue are created
// here rather than in Start because the channel module starts first and may
// deliver commands that were queued while the bot was offline.
func (m *Mirror) Provision(ctx *core.AppContext) error {
	m.config.defaults()

	m.appCtx = ctx
	m.logger = ctx.Logger
	m.registry = relay.NewRegistry()
	m.scheduler = cron.NewScheduler(m.logger)
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.queue = make(chan job, m.config.QueueSize)

	// Expose the registry so the gateway can list and cancel transfers.
	ctx.RegisterService("relay.registry", m.registry)

	return m.scheduler.RegisterJob(&cron.TransferPruneJob{
		Store:        m.registry,
		MaxAge:       m.config.PruneMaxAge,
		Logger:       m.logger,
		ScheduleExpr: m.config.PruneSchedule,
	})
}

// Validate implements core.Validator.
func (m *Mirror) Validate() error {
	return m.config.validate()
}

// SetChannel injects the destination channel. Called during wiring.
func (m *Mirror) SetChannel(ch channel.Channel) {
	m.channel = ch
	ch.SetInbox(m.Inbox)
}

// SetCatalog injects the media catalog. Called during wiring.
func (m *Mirror) SetCatalog(cat source.Catalog) {
	m.catalog = cat
}

// Start implements core.Starter.
func (m *Mirror) Start() error {
	if m.channel == nil {
		return errors.New("mirror: no channel wired")
	}
	if m.catalog == nil {
		return errors.New("mirror: no catalog wired")
	}

	if svc, ok := m.appCtx.Service("gateway.metrics"); ok {
		if rec, ok := svc.(metricsRecorder); ok {
			m.metrics = rec
		}
	}

	m.relay = relay.New(m.catalog, m.channel, m.config.Transfer, m.logger)

	for range m.config.Workers {
		m.wg.Add(1)
		go m.worker()
	}
	m.logger.Info("mirror started",
		"workers", m.config.Workers,
		"queue_size", m.config.QueueSize,
	)

	return m.scheduler.Start()
}

// Stop implements core.Stopper. In-flight transfers are cancelled
// cooperatively; workers drain before Stop returns.
func (m *Mirror) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	close(m.queue)
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	return m.scheduler.Stop(ctx)
}

// Inbox receives command messages from the channel.
func (m *Mirror) Inbox(msg channel.InboundMessage) error {
	cmd, ok := ParseCommand(msg.Text)
	if !ok {
		return nil
	}
	if m.metrics != nil {
		m.metrics.RecordCommand()
	}

	switch cmd.Name {
	case "start", "help":
		return m.reply(msg, helpText)

	case "formats":
		if len(cmd.Args) < 1 {
			return m.reply(msg, "Usage: /formats <url|identifier>")
		}
		return m.handleFormats(msg, cmd.Args[0])

	case "mirror":
		if len(cmd.Args) < 1 {
			return m.reply(msg, "Usage: /mirror <url|identifier> [format]")
		}
		return m.handleMirror(msg, cmd.Args)

	case "status":
		return m.reply(msg, renderStatus(m.registry.Snapshots()))

	case "cancel":
		if len(cmd.Args) < 1 {
			return m.reply(msg, "Usage: /cancel <id>")
		}
		return m.handleCancel(msg, cmd.Args[0])

	default:
		return m.reply(msg, "Unknown command. See /help.")
	}
}

// handleFormats resolves an item and lists its format groups.
func (m *Mirror) handleFormats(msg channel.InboundMessage, query string) error {
	ctx, cancel := context.WithTimeout(m.ctx, resolveTimeout)
	defer cancel()

	item, err := m.catalog.Resolve(ctx, query)
	if err != nil {
		m.logger.Warn("resolve failed", "query", query, "error", err)
		return m.reply(msg, "Could not resolve that item. Check the link and try again.")
	}
	return m.reply(msg, renderFormats(item))
}

// handleMirror resolves an item and queues every file of the chosen format.
func (m *Mirror) handleMirror(msg channel.InboundMessage, args []string) error {
	ctx, cancel := context.WithTimeout(m.ctx, resolveTimeout)
	defer cancel()

	item, err := m.catalog.Resolve(ctx, args[0])
	if err != nil {
		m.logger.Warn("resolve failed", "query", args[0], "error", err)
		return m.reply(msg, "Could not resolve that item. Check the link and try again.")
	}

	groups := item.Formats()
	if len(groups) == 0 {
		return m.reply(msg, fmt.Sprintf("No mirrorable files found in %s.", item.Identifier))
	}

	// Default to the most populated format, like the item's primary content.
	category := groups[0].Category
	if len(args) > 1 {
		category = strings.ToUpper(args[1])
	}
	files := item.FilesIn(category)
	if len(files) == 0 {
		return m.reply(msg, fmt.Sprintf("No %s files in this item.\n\n%s", category, renderFormats(item)))
	}

	var thumb []byte
	if *m.config.Thumbnails {
		thumb, err = m.catalog.Thumbnail(ctx, item)
		if err != nil {
			m.logger.Debug("thumbnail fetch failed", "item", item.Identifier, "error", err)
			thumb = nil
		}
	}

	target := m.config.TargetChatID
	if target == 0 {
		target = msg.Chat.ID
	}

	queued := 0
	for _, f := range files {
		req := relay.Request{
			ID:           uuid.NewString(),
			Source:       relay.Locator{Item: item.Identifier, Name: f.Name},
			ChatID:       target,
			FileName:     path.Base(f.Name),
			Caption:      buildCaption(item, f),
			MIMEType:     f.MIMEType,
			Kind:         source.KindFor(f.Category),
			DeclaredSize: f.Size,
			Thumbnail:    thumb,
		}
		if err := m.enqueue(req, msg.Chat.ID); err != nil {
			_ = m.reply(msg, fmt.Sprintf("Queued %d of %d file(s); the queue is full, try again later.", queued, len(files)))
			return nil
		}
		queued++
	}

	return m.reply(msg, fmt.Sprintf("Queued %d %s file(s) from %s. Use /status to follow progress.",
		queued, category, item.Identifier))
}

// handleCancel requests cooperative cancellation of one transfer.
func (m *Mirror) handleCancel(msg channel.InboundMessage, id string) error {
	if err := m.registry.Cancel(id); err != nil {
		return m.reply(msg, "No queued or running transfer with that id.")
	}
	return m.reply(msg, "Cancellation requested. The transfer stops at the next chunk boundary.")
}

// reply sends a status message back to the chat a command came from.
func (m *Mirror) reply(msg channel.InboundMessage, text string) error {
	_, err := m.channel.Send(m.ctx, channel.OutboundMessage{
		ChatID:         msg.Chat.ID,
		Text:           text,
		DisablePreview: true,
	})
	if err != nil {
		m.logger.Error("reply failed", "chat", msg.Chat.ID, "error", err)
	}
	return err
}
