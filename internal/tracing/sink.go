package tracing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
)

// Sink is one destination an event is fanned out to. Deliver is called from
// the sink's own worker goroutine and may block up to the logger's timeout;
// returning an error marks the delivery failed without affecting other sinks.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event *models.TransactionEvent) error
	Close() error
}

// sinkPayload is the stable JSON shape published to external sinks.
type sinkPayload struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Timestamp     time.Time       `json:"timestamp"`
	EventType     string          `json:"event_type"`
	Module        string          `json:"module"`
	Status        string          `json:"status"`
	Data          json.RawMessage `json:"data,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

func marshalEvent(event *models.TransactionEvent) ([]byte, error) {
	return json.Marshal(sinkPayload{
		ID:            event.ID.String(),
		TransactionID: event.TransactionID,
		Timestamp:     event.Timestamp.UTC(),
		EventType:     string(event.EventType),
		Module:        event.Module,
		Status:        string(event.Status),
		Data:          event.Data,
		Metadata:      event.Metadata,
	})
}
