package tracing

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	pkgerrors "github.com/tavolohq/resto-trace-backend/pkg/errors"
	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
	"github.com/tavolohq/resto-trace-backend/pkg/metrics"
)

const (
	defaultQueueSize   = 256
	defaultSinkTimeout = 5 * time.Second
)

// EventLogger fans events out to every configured sink. Each sink gets its
// own queue and worker goroutine so a slow or failing destination never
// blocks the others; when a queue is full the event is dropped for that
// sink and counted.
type EventLogger struct {
	logg    *logger.Logger
	met     *metrics.SinkMetrics
	timeout time.Duration
	workers []*sinkWorker
	closed  atomic.Bool
}

type sinkWorker struct {
	sink  Sink
	queue chan *models.TransactionEvent
	done  chan struct{}
}

type EventLoggerParams struct {
	Logger      *logger.Logger
	Metrics     *metrics.SinkMetrics
	Sinks       []Sink
	QueueSize   int
	SinkTimeout time.Duration
}

func NewEventLogger(params EventLoggerParams) (*EventLogger, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tracing: logger is required")
	}
	if len(params.Sinks) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tracing: at least one sink is required")
	}
	if params.QueueSize <= 0 {
		params.QueueSize = defaultQueueSize
	}
	if params.SinkTimeout <= 0 {
		params.SinkTimeout = defaultSinkTimeout
	}

	el := &EventLogger{
		logg:    params.Logger,
		met:     params.Metrics,
		timeout: params.SinkTimeout,
	}
	for _, sink := range params.Sinks {
		w := &sinkWorker{
			sink:  sink,
			queue: make(chan *models.TransactionEvent, params.QueueSize),
			done:  make(chan struct{}),
		}
		el.workers = append(el.workers, w)
		go el.run(w)
	}
	return el, nil
}

// Log enqueues the event for every sink. It returns true when the event was
// accepted for dispatch; individual sinks may still drop it if their queue
// is full. After Close it always returns false.
func (el *EventLogger) Log(event *models.TransactionEvent) bool {
	if event == nil || el.closed.Load() {
		return false
	}
	for _, w := range el.workers {
		select {
		case w.queue <- event:
		default:
			el.met.IncDropped(w.sink.Name())
			ctx := el.logg.WithSink(context.Background(), w.sink.Name())
			ctx = el.logg.WithTransactionID(ctx, event.TransactionID)
			el.logg.Warn(ctx, "sink queue full, event dropped")
		}
	}
	return true
}

// Close stops accepting events, drains every queue, and closes the sinks.
func (el *EventLogger) Close() error {
	if !el.closed.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	for _, w := range el.workers {
		close(w.queue)
		<-w.done
		err = multierr.Append(err, w.sink.Close())
	}
	return err
}

func (el *EventLogger) run(w *sinkWorker) {
	defer close(w.done)
	for event := range w.queue {
		el.deliver(w.sink, event)
	}
}

func (el *EventLogger) deliver(sink Sink, event *models.TransactionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), el.timeout)
	defer cancel()

	start := time.Now()
	err := sink.Deliver(ctx, event)
	el.met.ObserveDelivery(sink.Name(), time.Since(start))
	if err == nil {
		el.met.IncDelivered(sink.Name())
		return
	}

	el.met.IncFailed(sink.Name())
	lctx := el.logg.WithSink(ctx, sink.Name())
	lctx = el.logg.WithTransactionID(lctx, event.TransactionID)
	el.logg.Error(lctx, "sink delivery failed", err)
}
