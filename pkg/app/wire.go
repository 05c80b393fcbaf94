package app

import (
	"fmt"
	"log/slog"

	"github.com/arkrelay/arkrelay/internal/channel"
	"github.com/arkrelay/arkrelay/internal/core"
	"github.com/arkrelay/arkrelay/internal/mirror"
	"github.com/arkrelay/arkrelay/internal/source"
)

// wireMirror discovers the channel and catalog modules among the loaded set
// and injects them into the mirror. Must be called after LoadModules and
// before Start: SetChannel registers the mirror's inbox with the channel,
// which channels require before they begin receiving updates.
func wireMirror(app *core.App, ids []string, logger *slog.Logger) error {
	mod, ok := app.Module("mirror")
	if !ok {
		logger.Info("mirror module not configured, skipping wiring")
		return nil
	}
	m, ok := mod.(*mirror.Mirror)
	if !ok {
		return fmt.Errorf("module mirror has unexpected type %T", mod)
	}

	var (
		ch          channel.Channel
		cat         source.Catalog
		chID, catID string
	)
	for _, id := range ids {
		loaded, ok := app.Module(id)
		if !ok {
			continue
		}
		if c, ok := loaded.(channel.Channel); ok {
			if ch != nil {
				return fmt.Errorf("multiple channel modules configured (%s and %s)", chID, id)
			}
			ch, chID = c, id
			logger.Info("mirror: discovered channel", "module", id)
		}
		if c, ok := loaded.(source.Catalog); ok {
			if cat != nil {
				return fmt.Errorf("multiple catalog modules configured (%s and %s)", catID, id)
			}
			cat, catID = c, id
			logger.Info("mirror: discovered catalog", "module", id)
		}
	}

	if ch == nil {
		return fmt.Errorf("mirror requires a channel module (e.g. channel.telegram)")
	}
	if cat == nil {
		return fmt.Errorf("mirror requires a catalog module (e.g. source.archive)")
	}

	m.SetChannel(ch)
	m.SetCatalog(cat)
	logger.Info("mirror: wired", "channel", chID, "catalog", catID)
	return nil
}
