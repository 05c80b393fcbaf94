package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/arkrelay/arkrelay/internal/source"
)

// Thumbnail implements source.Catalog. It fetches the first image file of
// the item as a preview, capped at MaxThumbnailSize. Returns nil when the
// item has no usable image.
func (a *Archive) Thumbnail(ctx context.Context, item *source.Item) ([]byte, error) {
	var pick *source.File
	for i := range item.Files {
		f := &item.Files[i]
		if f.Category != "JPG" && f.Category != "PNG" {
			continue
		}
		if f.Size > a.config.MaxThumbnailSize {
			continue
		}
		pick = f
		break
	}
	if pick == nil {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/download/%s/%s",
		a.config.BaseURL, url.PathEscape(item.Identifier), url.PathEscape(pick.Name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("archive: create thumbnail request: %w", err)
	}

	resp, err := a.meta.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive: fetch thumbnail %s: %w", pick.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive: thumbnail %s returned status %d", pick.Name, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, a.config.MaxThumbnailSize))
	if err != nil {
		return nil, fmt.Errorf("archive: read thumbnail %s: %w", pick.Name, err)
	}
	return data, nil
}
