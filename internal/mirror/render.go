package mirror

import (
	"fmt"
	"strings"

	"github.com/arkrelay/arkrelay/internal/relay"
	"github.com/arkrelay/arkrelay/internal/source"
	"github.com/dustin/go-humanize"
)

const helpText = `arkrelay mirrors archive.org items into this chat.

/mirror <url|identifier> [format] - mirror an item's files
/formats <url|identifier> - list available formats
/status - show recent transfers
/cancel <id> - cancel a queued or running transfer
/help - this message`

// maxStatusEntries caps how many transfers /status renders.
const maxStatusEntries = 10

// buildCaption renders the upload caption for one file.
func buildCaption(item *source.Item, file source.File) string {
	var b strings.Builder

	title := item.Title
	if title == "" {
		title = item.Identifier
	}
	fmt.Fprintf(&b, "📁 %s\n", title)
	if item.Date != "" {
		fmt.Fprintf(&b, "📅 %s\n", item.Date)
	}
	fmt.Fprintf(&b, "💾 %s format\n", file.Category)
	fmt.Fprintf(&b, "📊 %s", humanize.IBytes(uint64(file.Size)))
	return b.String()
}

// renderFormats renders the /formats reply for an item.
func renderFormats(item *source.Item) string {
	groups := item.Formats()
	if len(groups) == 0 {
		return fmt.Sprintf("No mirrorable files found in %s.", item.Identifier)
	}

	var b strings.Builder
	title := item.Title
	if title == "" {
		title = item.Identifier
	}
	fmt.Fprintf(&b, "Formats in %s:\n", title)
	for _, g := range groups {
		var total int64
		for _, f := range g.Files {
			total += f.Size
		}
		fmt.Fprintf(&b, "• %s — %d file(s), %s\n",
			g.Category, len(g.Files), humanize.IBytes(uint64(total)))
	}
	b.WriteString("\nUse /mirror <url> <format> to mirror one of them.")
	return b.String()
}

// renderStatus renders the /status reply from registry snapshots.
func renderStatus(snaps []relay.Snapshot) string {
	if len(snaps) == 0 {
		return "No transfers yet."
	}
	if len(snaps) > maxStatusEntries {
		snaps = snaps[:maxStatusEntries]
	}

	var b strings.Builder
	b.WriteString("Recent transfers:\n")
	for _, s := range snaps {
		fmt.Fprintf(&b, "%s %s — %s", statusIcon(s), s.Name, s.Status)
		if s.Status != relay.StatusDone {
			if s.Progress.TotalBytes > 0 {
				fmt.Fprintf(&b, " (%s / %s)",
					humanize.IBytes(uint64(s.Progress.BytesTransferred)),
					humanize.IBytes(uint64(s.Progress.TotalBytes)))
			} else if s.Progress.BytesTransferred > 0 {
				fmt.Fprintf(&b, " (%s)", humanize.IBytes(uint64(s.Progress.BytesTransferred)))
			}
		} else if s.Outcome != nil {
			fmt.Fprintf(&b, " (%s)", outcomeText(*s.Outcome))
		}
		fmt.Fprintf(&b, "\n  id: %s\n", s.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderProgress renders the in-flight status line edited into the chat.
func renderProgress(name string, p relay.Progress) string {
	if p.TotalBytes > 0 {
		pct := float64(p.BytesTransferred) / float64(p.TotalBytes) * 100
		return fmt.Sprintf("⬆️ %s — %.0f%% (%s / %s)",
			name, pct,
			humanize.IBytes(uint64(p.BytesTransferred)),
			humanize.IBytes(uint64(p.TotalBytes)))
	}
	return fmt.Sprintf("⬆️ %s — %s", name, humanize.IBytes(uint64(p.BytesTransferred)))
}

// renderOutcome renders the final status line for a finished transfer.
func renderOutcome(name string, out relay.Outcome) string {
	switch out.State {
	case relay.StateSuccess:
		return fmt.Sprintf("✅ %s — done (%s)", name, humanize.IBytes(uint64(out.Bytes)))
	case relay.StateCancelled:
		return fmt.Sprintf("🛑 %s — cancelled", name)
	default:
		return fmt.Sprintf("❌ %s — failed: %s", name, outcomeText(out))
	}
}

func statusIcon(s relay.Snapshot) string {
	switch {
	case s.Status == relay.StatusQueued:
		return "⏳"
	case s.Status == relay.StatusActive:
		return "⬆️"
	case s.Outcome != nil && s.Outcome.State == relay.StateSuccess:
		return "✅"
	case s.Outcome != nil && s.Outcome.State == relay.StateCancelled:
		return "🛑"
	default:
		return "❌"
	}
}

func outcomeText(out relay.Outcome) string {
	switch out.State {
	case relay.StateSuccess:
		return humanize.IBytes(uint64(out.Bytes))
	case relay.StateCancelled:
		return "cancelled"
	}
	switch out.ErrKind {
	case relay.ErrKindSizeExceeded:
		return "file exceeds the size limit"
	case relay.ErrKindSourceUnreachable:
		return "source unreachable"
	case relay.ErrKindTransientSource:
		return "source kept failing"
	case relay.ErrKindDestination:
		return "upload rejected"
	default:
		return "failed"
	}
}
