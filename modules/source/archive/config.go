package archive

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the archive.org catalog configuration.
type Config struct {
	BaseURL         string        `yaml:"base_url"`
	MetadataTimeout time.Duration `yaml:"metadata_timeout"`
	RetryMax        int           `yaml:"retry_max"`

	// MinFileSize filters out tiny files (sidecar thumbnails, generated
	// metadata) from resolved items.
	MinFileSize int64 `yaml:"min_file_size"`

	// MaxThumbnailSize caps the preview image fetched for uploads.
	MaxThumbnailSize int64 `yaml:"max_thumbnail_size"`
}

// defaults applies default values to unset fields.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://archive.org"
	}
	if c.MetadataTimeout <= 0 {
		c.MetadataTimeout = 30 * time.Second
	}
	if c.RetryMax == 0 {
		c.RetryMax = 3
	}
	if c.MinFileSize == 0 {
		c.MinFileSize = 1024
	}
	if c.MaxThumbnailSize == 0 {
		c.MaxThumbnailSize = 200 * 1024
	}
}

// validate checks configuration field constraints.
func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("archive: base_url must be a valid http/https URL, got %q", c.BaseURL)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("archive: retry_max must be >= 0, got %d", c.RetryMax)
	}
	return nil
}
