// Package source defines the contract between media catalogs and the mirror.
// A catalog resolves user queries into items with downloadable files and
// doubles as the relay's byte source.
package source

import (
	"context"

	"github.com/arkrelay/arkrelay/internal/relay"
)

// File is one downloadable file within an item.
type File struct {
	// Name is the file name within the item, as used in download URLs.
	Name string `json:"name"`

	// Format is the catalog's own format label, if any.
	Format string `json:"format,omitempty"`

	// Category is the normalized format category (FLAC, MP3, PDF, ...).
	Category string `json:"category"`

	// MIMEType is derived from the file extension.
	MIMEType string `json:"mime_type,omitempty"`

	// Size is the declared file size in bytes, 0 if unknown.
	Size int64 `json:"size"`
}

// Item is a resolved catalog item with its usable files. Files that the
// catalog filtered out (metadata sidecars, tiny thumbnails) are not listed.
type Item struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title,omitempty"`
	Creator    string `json:"creator,omitempty"`
	Date       string `json:"date,omitempty"`
	Collection string `json:"collection,omitempty"`
	Files      []File `json:"files"`
}

// Catalog resolves queries into items and serves their bytes to the relay.
type Catalog interface {
	relay.Source

	// Resolve turns a user query (item URL or bare identifier) into an Item.
	Resolve(ctx context.Context, query string) (*Item, error)

	// Thumbnail returns a small preview image for the item, or nil if the
	// item has none.
	Thumbnail(ctx context.Context, item *Item) ([]byte, error)
}

// KindFor maps a format category to the relay upload kind.
func KindFor(category string) relay.Kind {
	switch category {
	case "FLAC", "MP3", "WAV", "OGG":
		return relay.KindAudio
	case "MP4", "MKV", "AVI":
		return relay.KindVideo
	default:
		return relay.KindDocument
	}
}
