package tracing

import (
	"context"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
)

// consoleSink mirrors events onto the process log as structured records.
type consoleSink struct {
	logg *logger.Logger
}

func NewConsoleSink(logg *logger.Logger) Sink {
	return &consoleSink{logg: logg}
}

func (s *consoleSink) Name() string { return "console" }

func (s *consoleSink) Deliver(ctx context.Context, event *models.TransactionEvent) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"transaction_id": event.TransactionID,
		"event_type":     string(event.EventType),
		"module":         event.Module,
		"status":         string(event.Status),
		"event_ts":       event.Timestamp.UTC(),
	})
	s.logg.Info(ctx, "trace event")
	return nil
}

func (s *consoleSink) Close() error { return nil }
