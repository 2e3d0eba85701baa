package tracing

import (
	"context"
	"time"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
)

type rowInserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
	EventsTable() string
}

// eventRow is the BigQuery row shape for a trace event. JSON documents are
// stored as serialized strings so the warehouse schema stays flat.
type eventRow struct {
	ID            string    `bigquery:"id"`
	TransactionID string    `bigquery:"transaction_id"`
	Timestamp     time.Time `bigquery:"timestamp"`
	EventType     string    `bigquery:"event_type"`
	Module        string    `bigquery:"module"`
	Status        string    `bigquery:"status"`
	Data          string    `bigquery:"data"`
	Metadata      string    `bigquery:"metadata"`
}

// bigquerySink streams events into the analytics warehouse.
type bigquerySink struct {
	client rowInserter
}

func NewBigQuerySink(client rowInserter) Sink {
	return &bigquerySink{client: client}
}

func (s *bigquerySink) Name() string { return "bigquery" }

func (s *bigquerySink) Deliver(ctx context.Context, event *models.TransactionEvent) error {
	row := &eventRow{
		ID:            event.ID.String(),
		TransactionID: event.TransactionID,
		Timestamp:     event.Timestamp.UTC(),
		EventType:     string(event.EventType),
		Module:        event.Module,
		Status:        string(event.Status),
		Data:          string(event.Data),
		Metadata:      string(event.Metadata),
	}
	return s.client.InsertRows(ctx, s.client.EventsTable(), []any{row})
}

func (s *bigquerySink) Close() error { return nil }
