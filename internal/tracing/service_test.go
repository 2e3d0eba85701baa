package tracing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	pkgerrors "github.com/tavolohq/resto-trace-backend/pkg/errors"
	"github.com/tavolohq/resto-trace-backend/pkg/pagination"
	"github.com/tavolohq/resto-trace-backend/pkg/txid"
)

type stubTracingRepo struct {
	summary     *models.TransactionSummary
	events      []models.TransactionEvent
	page        *SummaryPage
	buckets     []StatBucket
	lastFilters SearchFilters
	lastPaging  pagination.Params
}

func (s *stubTracingRepo) SaveEvent(ctx context.Context, event *models.TransactionEvent) error {
	s.events = append(s.events, *event)
	return nil
}

func (s *stubTracingRepo) FindSummary(ctx context.Context, transactionID string) (*models.TransactionSummary, error) {
	if s.summary == nil || s.summary.TransactionID != transactionID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.summary, nil
}

func (s *stubTracingRepo) FindEventsByTransaction(ctx context.Context, transactionID string) ([]models.TransactionEvent, error) {
	var out []models.TransactionEvent
	for _, event := range s.events {
		if event.TransactionID == transactionID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *stubTracingRepo) SearchSummaries(ctx context.Context, filters SearchFilters, params pagination.Params) (*SummaryPage, error) {
	s.lastFilters = filters
	s.lastPaging = params
	if s.page == nil {
		return &SummaryPage{}, nil
	}
	return s.page, nil
}

func (s *stubTracingRepo) AggregateStats(ctx context.Context, start, end time.Time, dimension enums.StatsDimension) ([]StatBucket, error) {
	return s.buckets, nil
}

func (s *stubTracingRepo) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestTracker(t *testing.T, sink *captureSink) (Tracker, *EventLogger) {
	t.Helper()
	el, err := NewEventLogger(EventLoggerParams{
		Logger: testLogger(),
		Sinks:  []Sink{sink},
	})
	require.NoError(t, err)
	tracker, err := NewTracker(TrackerParams{Logger: testLogger(), Events: el})
	require.NoError(t, err)
	return tracker, el
}

func TestTrackerStartEmitsCreatedEvent(t *testing.T) {
	sink := &captureSink{name: "capture"}
	tracker, el := newTestTracker(t, sink)
	ctx := context.Background()

	id := tracker.Start(ctx, enums.TransactionTypeOrder, enums.TransactionOriginPOS, "pos", json.RawMessage(`{"table":4}`), nil)
	require.NoError(t, el.Close())

	assert.True(t, txid.Validate(id))
	require.Equal(t, 1, sink.received())
	event := sink.events[0]
	assert.Equal(t, id, event.TransactionID)
	assert.Equal(t, enums.TraceEventTypeCreated, event.EventType)
	assert.Equal(t, enums.TransactionStatusPending, event.Status)
	assert.Equal(t, "pos", event.Module)
	assert.JSONEq(t, `{"table":4}`, string(event.Data))
}

func TestTrackerUpdateRejectsInvalidID(t *testing.T) {
	sink := &captureSink{name: "capture"}
	tracker, el := newTestTracker(t, sink)
	ctx := context.Background()

	ok := tracker.Update(ctx, "ORD-POS-BADTIMESTAMP-0001-AAAA", enums.TraceEventTypeUpdated, "kitchen", enums.TransactionStatusProcessing, nil, nil)
	require.NoError(t, el.Close())

	assert.False(t, ok)
	assert.Equal(t, 0, sink.received())
}

func TestTrackerUpdateEmitsEvent(t *testing.T) {
	sink := &captureSink{name: "capture"}
	tracker, el := newTestTracker(t, sink)
	ctx := context.Background()

	id := tracker.Start(ctx, enums.TransactionTypeKitchen, enums.TransactionOriginKDS, "pos", nil, nil)
	ok := tracker.Update(ctx, id, enums.TraceEventTypeProcessed, "kitchen", enums.TransactionStatusProcessing, nil, nil)
	require.NoError(t, el.Close())

	assert.True(t, ok)
	require.Equal(t, 2, sink.received())
	assert.Equal(t, enums.TraceEventTypeProcessed, sink.events[1].EventType)
	assert.Equal(t, "kitchen", sink.events[1].Module)
}

func TestTrackerCompleteMapsOutcome(t *testing.T) {
	sink := &captureSink{name: "capture"}
	tracker, el := newTestTracker(t, sink)
	ctx := context.Background()

	success := tracker.Start(ctx, enums.TransactionTypePayment, enums.TransactionOriginWeb, "payments", nil, nil)
	failure := tracker.Start(ctx, enums.TransactionTypePayment, enums.TransactionOriginWeb, "payments", nil, nil)
	require.True(t, tracker.Complete(ctx, success, "payments", true, nil, nil))
	require.True(t, tracker.Complete(ctx, failure, "payments", false, nil, nil))
	require.False(t, tracker.Complete(ctx, "nonsense", "payments", true, nil, nil))
	require.NoError(t, el.Close())

	require.Equal(t, 4, sink.received())
	assert.Equal(t, enums.TraceEventTypeCompleted, sink.events[2].EventType)
	assert.Equal(t, enums.TransactionStatusCompleted, sink.events[2].Status)
	assert.Equal(t, enums.TraceEventTypeFailed, sink.events[3].EventType)
	assert.Equal(t, enums.TransactionStatusFailed, sink.events[3].Status)
}

func TestServiceTransactionNotFound(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubTracingRepo{}, Logger: testLogger()})
	require.NoError(t, err)

	_, err = svc.Transaction(context.Background(), "ORD-POS-260314120000-0001-AAAA", false)
	require.Error(t, err)
	require.NotNil(t, pkgerrors.As(err))
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceTransactionIncludesEvents(t *testing.T) {
	id := txid.Generate(enums.TransactionTypeOrder, enums.TransactionOriginPOS)
	now := time.Now().UTC()
	repo := &stubTracingRepo{
		summary: &models.TransactionSummary{
			TransactionID: id,
			Type:          "ORD",
			Origin:        "POS",
			Status:        enums.TransactionStatusProcessing,
			StartTime:     now,
			LastUpdate:    now,
			EventCount:    1,
			FirstModule:   "pos",
			LastModule:    "pos",
		},
		events: []models.TransactionEvent{
			*newTestEvent(id, now, enums.TraceEventTypeCreated, "pos", enums.TransactionStatusPending),
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo, Logger: testLogger()})
	require.NoError(t, err)

	got, err := svc.Transaction(context.Background(), id, true)
	require.NoError(t, err)
	assert.Equal(t, id, got.TransactionID)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "created", got.Events[0].EventType)

	got, err = svc.Transaction(context.Background(), id, false)
	require.NoError(t, err)
	assert.Empty(t, got.Events)
}

func TestServiceEventsNotFoundWhenEmpty(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubTracingRepo{}, Logger: testLogger()})
	require.NoError(t, err)

	_, err = svc.Events(context.Background(), "ORD-POS-260314120000-0001-AAAA")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceSearchEchoesPaging(t *testing.T) {
	repo := &stubTracingRepo{page: &SummaryPage{Total: 42}}
	svc, err := NewService(ServiceParams{Repo: repo, Logger: testLogger()})
	require.NoError(t, err)

	got, err := svc.Search(context.Background(), SearchInput{Paging: pagination.Params{Skip: -3, Limit: 0}})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Total)
	assert.Equal(t, 0, got.Skip)
	assert.Equal(t, pagination.DefaultLimit, got.Limit)
	assert.Equal(t, pagination.Params{Skip: 0, Limit: pagination.DefaultLimit}, repo.lastPaging)
}

func TestServiceStatsValidation(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubTracingRepo{}, Logger: testLogger()})
	require.NoError(t, err)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	_, err = svc.Stats(context.Background(), start, end, enums.StatsDimension("bogus"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Stats(context.Background(), end, start, enums.StatsDimensionType)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	got, err := svc.Stats(context.Background(), start, end, enums.StatsDimensionType)
	require.NoError(t, err)
	assert.Equal(t, "type", got.GroupBy)
	assert.Empty(t, got.Stats)
}
