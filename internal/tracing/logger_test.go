package tracing

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
)

type captureSink struct {
	name    string
	err     error
	gate    chan struct{}
	entered chan struct{}

	mu     sync.Mutex
	events []*models.TransactionEvent
	closed bool
}

func (s *captureSink) Name() string { return s.name }

func (s *captureSink) Deliver(ctx context.Context, event *models.TransactionEvent) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *captureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) received() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "tracing-test", Output: io.Discard})
}

func newTraceEvent(transactionID string) *models.TransactionEvent {
	return newTestEvent(transactionID, time.Now().UTC(), enums.TraceEventTypeInfo, "test", enums.TransactionStatusProcessing)
}

func TestEventLoggerFansOutToAllSinks(t *testing.T) {
	first := &captureSink{name: "first"}
	second := &captureSink{name: "second"}
	el, err := NewEventLogger(EventLoggerParams{
		Logger: testLogger(),
		Sinks:  []Sink{first, second},
	})
	require.NoError(t, err)

	require.True(t, el.Log(newTraceEvent("TX-1")))
	require.True(t, el.Log(newTraceEvent("TX-2")))
	require.NoError(t, el.Close())

	assert.Equal(t, 2, first.received())
	assert.Equal(t, 2, second.received())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestEventLoggerSinkFailureIsIsolated(t *testing.T) {
	failing := &captureSink{name: "failing", err: errors.New("boom")}
	healthy := &captureSink{name: "healthy"}
	el, err := NewEventLogger(EventLoggerParams{
		Logger: testLogger(),
		Sinks:  []Sink{failing, healthy},
	})
	require.NoError(t, err)

	require.True(t, el.Log(newTraceEvent("TX-3")))
	require.NoError(t, el.Close())

	assert.Equal(t, 1, failing.received())
	assert.Equal(t, 1, healthy.received())
}

func TestEventLoggerDropsWhenQueueFull(t *testing.T) {
	blocked := &captureSink{
		name:    "blocked",
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 8),
	}
	el, err := NewEventLogger(EventLoggerParams{
		Logger:    testLogger(),
		Sinks:     []Sink{blocked},
		QueueSize: 1,
	})
	require.NoError(t, err)

	// First event is in-flight, second fills the queue, third is dropped.
	require.True(t, el.Log(newTraceEvent("TX-4")))
	<-blocked.entered
	require.True(t, el.Log(newTraceEvent("TX-5")))
	require.True(t, el.Log(newTraceEvent("TX-6")))

	close(blocked.gate)
	require.NoError(t, el.Close())
	assert.Equal(t, 2, blocked.received())
}

func TestEventLoggerRejectsAfterClose(t *testing.T) {
	sink := &captureSink{name: "only"}
	el, err := NewEventLogger(EventLoggerParams{
		Logger: testLogger(),
		Sinks:  []Sink{sink},
	})
	require.NoError(t, err)
	require.NoError(t, el.Close())

	assert.False(t, el.Log(newTraceEvent("TX-7")))
	assert.False(t, el.Log(nil))
	require.NoError(t, el.Close())
}

func TestEventLoggerRequiresSinks(t *testing.T) {
	_, err := NewEventLogger(EventLoggerParams{Logger: testLogger()})
	require.Error(t, err)
}
