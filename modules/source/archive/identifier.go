package archive

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractIdentifier pulls the item identifier out of a user query. Accepted
// forms:
//
//	https://archive.org/details/<identifier>[/...]
//	https://archive.org/<identifier>
//	<identifier>
func ExtractIdentifier(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("archive: empty query")
	}

	// Bare identifiers have no scheme or slashes.
	if !strings.Contains(query, "/") && !strings.Contains(query, ":") {
		return query, nil
	}

	u, err := url.Parse(query)
	if err != nil {
		return "", fmt.Errorf("archive: parse query %q: %w", query, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "details" && i+1 < len(parts) {
			return parts[i+1], nil
		}
	}
	if len(parts) == 1 && parts[0] != "" {
		return parts[0], nil
	}

	return "", fmt.Errorf("archive: no identifier in query %q", query)
}
