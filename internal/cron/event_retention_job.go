package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/tavolohq/resto-trace-backend/pkg/logger"
)

const defaultEventRetentionDays = 30

type eventRetentionRepo interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type EventRetentionJobParams struct {
	Logger     *logger.Logger
	Repository eventRetentionRepo
	Retention  int
}

// NewEventRetentionJob prunes trace events older than the retention window.
// Transaction summaries are never deleted; their historical counts are
// frozen by the repository when events fall off.
func NewEventRetentionJob(params EventRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("tracing repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultEventRetentionDays
	}
	return &eventRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type eventRetentionJob struct {
	logg      *logger.Logger
	repo      eventRetentionRepo
	retention int
	now       func() time.Time
}

func (j *eventRetentionJob) Name() string { return "event-retention" }

func (j *eventRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("event retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "event retention cleanup complete")
	return nil
}
