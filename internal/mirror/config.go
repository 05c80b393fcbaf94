package mirror

import (
	"fmt"
	"time"

	"github.com/arkrelay/arkrelay/internal/relay"
)

// Config holds the mirror module configuration.
type Config struct {
	// Workers is the number of concurrent transfers.
	Workers int `yaml:"workers"`

	// QueueSize bounds the number of queued transfers.
	QueueSize int `yaml:"queue_size"`

	// TargetChatID is the channel that receives mirrored files. 0 means
	// files are uploaded to the chat the command came from.
	TargetChatID int64 `yaml:"target_chat_id"`

	// Transfer tunes the relay pipeline.
	Transfer relay.Options `yaml:"transfer"`

	// PruneMaxAge is how long finished transfer records are kept.
	PruneMaxAge time.Duration `yaml:"prune_max_age"`

	// PruneSchedule is the cron expression for the prune job.
	PruneSchedule string `yaml:"prune_schedule"`

	// Thumbnails enables fetching a preview image per mirrored item.
	Thumbnails *bool `yaml:"thumbnails"`
}

// defaults applies default values to unset fields.
func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 32
	}
	if c.PruneMaxAge <= 0 {
		c.PruneMaxAge = 24 * time.Hour
	}
	if c.Thumbnails == nil {
		t := true
		c.Thumbnails = &t
	}
	c.Transfer.Defaults()
}

// validate checks configuration field constraints.
func (c *Config) validate() error {
	if c.Workers > 16 {
		return fmt.Errorf("mirror: workers must be 1-16, got %d", c.Workers)
	}
	return nil
}
