package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/arkrelay/arkrelay/internal/source"
)

// metadataResponse is the shape of GET /metadata/{identifier}.
type metadataResponse struct {
	Files    []fileEntry `json:"files"`
	Metadata itemMeta    `json:"metadata"`
}

// itemMeta carries the descriptive fields used for captions. archive.org
// returns several of these as either a string or an array of strings.
type itemMeta struct {
	Identifier string     `json:"identifier"`
	Title      flexString `json:"title"`
	Creator    flexString `json:"creator"`
	Date       flexString `json:"date"`
	Collection flexString `json:"collection"`
}

// fileEntry is one entry of the files array. Size arrives as a string on
// most items and as a number on some older ones.
type fileEntry struct {
	Name   string  `json:"name"`
	Format string  `json:"format"`
	Size   flexInt `json:"size"`
	Source string  `json:"source"`
}

// flexString decodes a JSON string or the first element of a string array.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) > 0 {
			*s = flexString(arr[0])
		}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = flexString(str)
	return nil
}

// flexInt decodes a JSON number or a numeric string. Unparseable values
// decode to zero rather than failing the whole document.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

// fetchMetadata retrieves and parses the metadata document for an item.
func (a *Archive) fetchMetadata(ctx context.Context, identifier string) (*metadataResponse, error) {
	endpoint := fmt.Sprintf("%s/metadata/%s", a.config.BaseURL, url.PathEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("archive: create metadata request: %w", err)
	}

	resp, err := a.meta.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive: fetch metadata for %q: %w", identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive: metadata for %q returned status %d", identifier, resp.StatusCode)
	}

	var meta metadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("archive: decode metadata for %q: %w", identifier, err)
	}
	return &meta, nil
}

// buildItem converts a metadata document into a source.Item, dropping
// sidecar files, files below the size floor, and uncategorized extensions.
func (a *Archive) buildItem(identifier string, meta *metadataResponse) *source.Item {
	item := &source.Item{
		Identifier: identifier,
		Title:      string(meta.Metadata.Title),
		Creator:    string(meta.Metadata.Creator),
		Date:       string(meta.Metadata.Date),
		Collection: string(meta.Metadata.Collection),
	}
	if meta.Metadata.Identifier != "" {
		item.Identifier = meta.Metadata.Identifier
	}

	for _, f := range meta.Files {
		if f.Name == "" || isSidecar(f.Name) {
			continue
		}
		if int64(f.Size) < a.config.MinFileSize {
			continue
		}
		category := categorize(f.Name)
		if category == "" {
			continue
		}
		item.Files = append(item.Files, source.File{
			Name:     f.Name,
			Format:   f.Format,
			Category: category,
			MIMEType: mimeType(f.Name),
			Size:     int64(f.Size),
		})
	}
	return item
}
