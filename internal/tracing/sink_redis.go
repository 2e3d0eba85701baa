package tracing

import (
	"context"
	"fmt"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
)

type redisPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// redisSink publishes events on a redis channel for live subscribers,
// such as an ops dashboard tailing the trace stream.
type redisSink struct {
	pub     redisPublisher
	channel string
}

func NewRedisSink(pub redisPublisher, channel string) Sink {
	return &redisSink{pub: pub, channel: channel}
}

func (s *redisSink) Name() string { return "redis" }

func (s *redisSink) Deliver(ctx context.Context, event *models.TransactionEvent) error {
	payload, err := marshalEvent(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.pub.Publish(ctx, s.channel, payload)
}

func (s *redisSink) Close() error { return nil }
