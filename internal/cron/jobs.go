package cron

import (
	"context"
	"log/slog"
	"time"
)

// TransferStore is the subset of the relay registry needed by cron jobs.
// Defined here to avoid a dependency on the relay package.
type TransferStore interface {
	Prune(maxAge time.Duration) int
}

// TransferPruneJob removes finished transfer records older than MaxAge from
// the in-memory registry so the API surface does not grow without bound.
type TransferPruneJob struct {
	Store        TransferStore
	MaxAge       time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/10 * * * *"
}

// Compile-time interface check.
var _ Job = (*TransferPruneJob)(nil)

// Name implements Job.
func (j *TransferPruneJob) Name() string {
	return "transfer_prune"
}

// Schedule implements Job.
func (j *TransferPruneJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/10 * * * *"
}

// Run prunes finished transfers older than MaxAge.
func (j *TransferPruneJob) Run(_ context.Context) error {
	pruned := j.Store.Prune(j.MaxAge)
	if pruned > 0 {
		j.Logger.Info("cron: pruned finished transfers", "count", pruned)
	}
	return nil
}
