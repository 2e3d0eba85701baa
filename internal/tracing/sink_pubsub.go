package tracing

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub/v2"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
)

type messagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// pubsubSink forwards events to a Pub/Sub topic so downstream services can
// react to trace activity without touching the store.
type pubsubSink struct {
	pub messagePublisher
}

func NewPubSubSink(pub messagePublisher) Sink {
	return &pubsubSink{pub: pub}
}

func (s *pubsubSink) Name() string { return "pubsub" }

func (s *pubsubSink) Deliver(ctx context.Context, event *models.TransactionEvent) error {
	payload, err := marshalEvent(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := s.pub.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"transaction_id": event.TransactionID,
			"event_type":     string(event.EventType),
			"module":         event.Module,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (s *pubsubSink) Close() error { return nil }
