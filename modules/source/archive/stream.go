package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/arkrelay/arkrelay/internal/relay"
)

// Open implements relay.Source. It streams file bytes from the download
// endpoint, resuming at offset with an HTTP Range request when offset > 0.
func (a *Archive) Open(ctx context.Context, loc relay.Locator, offset int64) (io.ReadCloser, int64, bool, error) {
	endpoint := fmt.Sprintf("%s/download/%s/%s",
		a.config.BaseURL, url.PathEscape(loc.Item), url.PathEscape(loc.Name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, false, fmt.Errorf("archive: create download request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := a.stream.Do(req)
	if err != nil {
		return nil, 0, false, fmt.Errorf("archive: download %s/%s: %w", loc.Item, loc.Name, err)
	}

	switch {
	case offset > 0 && resp.StatusCode == http.StatusPartialContent:
		total := parseContentRangeTotal(resp.Header.Get("Content-Range"))
		return resp.Body, total, true, nil

	case offset > 0:
		// The server ignored the Range header. Serving from the start would
		// silently duplicate bytes, so refuse.
		_ = resp.Body.Close()
		return nil, 0, false, fmt.Errorf("archive: server does not support resume at offset %d (status %d)", offset, resp.StatusCode)

	case resp.StatusCode == http.StatusOK:
		resumable := strings.EqualFold(resp.Header.Get("Accept-Ranges"), "bytes")
		length := resp.ContentLength
		if length < 0 {
			length = 0
		}
		return resp.Body, length, resumable, nil

	default:
		_ = resp.Body.Close()
		return nil, 0, false, fmt.Errorf("archive: download %s/%s returned status %d", loc.Item, loc.Name, resp.StatusCode)
	}
}

// parseContentRangeTotal extracts the total length from a Content-Range
// header ("bytes start-end/total"). Returns 0 when absent or unparseable.
func parseContentRangeTotal(header string) int64 {
	_, after, ok := strings.Cut(header, "/")
	if !ok || after == "*" {
		return 0
	}
	total, err := strconv.ParseInt(after, 10, 64)
	if err != nil {
		return 0
	}
	return total
}
