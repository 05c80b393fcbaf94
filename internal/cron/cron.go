// Package cron provides periodic job scheduling for housekeeping tasks.
package cron

import "context"

// Job is a named periodic task with a cron schedule.
type Job interface {
	// Name uniquely identifies the job within a scheduler.
	Name() string

	// Schedule returns the cron expression (minute-level, 5 fields).
	Schedule() string

	// Run executes one tick of the job.
	Run(ctx context.Context) error
}
