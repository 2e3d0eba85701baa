package tracing

import (
	"context"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
)

// storeSink persists events through the repository, which also folds each
// event into its transaction summary. This is the sink the read API depends
// on; the others are best-effort mirrors.
type storeSink struct {
	repo Repository
}

func NewStoreSink(repo Repository) Sink {
	return &storeSink{repo: repo}
}

func (s *storeSink) Name() string { return "store" }

func (s *storeSink) Deliver(ctx context.Context, event *models.TransactionEvent) error {
	return s.repo.SaveEvent(ctx, event)
}

func (s *storeSink) Close() error { return nil }
