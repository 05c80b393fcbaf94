package archive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/arkrelay/arkrelay/internal/core"
	"github.com/arkrelay/arkrelay/internal/source"
	"github.com/hashicorp/go-retryablehttp"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Archive{})
}

// Compile-time interface guards.
var (
	_ source.Catalog    = (*Archive)(nil)
	_ core.Configurable = (*Archive)(nil)
	_ core.Provisioner  = (*Archive)(nil)
	_ core.Validator    = (*Archive)(nil)
)

// Archive implements the archive.org catalog for arkrelay.
type Archive struct {
	config Config
	logger *slog.Logger

	// meta retries transient failures; it serves the small metadata and
	// thumbnail requests. Payload streams go through stream instead, with
	// no client-level timeout or retry: the relay owns retry and resume
	// for payload bytes.
	meta   *http.Client
	stream *http.Client
}

// ModuleInfo implements core.Module.
func (a *Archive) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "source.archive",
		New: func() core.Module { return &Archive{} },
	}
}

// Configure implements core.Configurable.
func (a *Archive) Configure(node *yaml.Node) error {
	if err := node.Decode(&a.config); err != nil {
		return fmt.Errorf("archive: decode config: %w", err)
	}
	a.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (a *Archive) Provision(ctx *core.AppContext) error {
	a.logger = ctx.Logger

	rc := retryablehttp.NewClient()
	rc.RetryMax = a.config.RetryMax
	rc.HTTPClient.Timeout = a.config.MetadataTimeout
	rc.Logger = nil
	a.meta = rc.StandardClient()

	a.stream = &http.Client{}
	return nil
}

// Validate implements core.Validator.
func (a *Archive) Validate() error {
	return a.config.validate()
}

// Resolve implements source.Catalog. It extracts the identifier from the
// query, fetches the item's metadata, and returns the filtered file list.
func (a *Archive) Resolve(ctx context.Context, query string) (*source.Item, error) {
	identifier, err := ExtractIdentifier(query)
	if err != nil {
		return nil, err
	}

	meta, err := a.fetchMetadata(ctx, identifier)
	if err != nil {
		return nil, err
	}

	item := a.buildItem(identifier, meta)
	a.logger.Info("archive item resolved",
		"identifier", item.Identifier,
		"files", len(item.Files),
	)
	return item, nil
}
