package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	pkgerrors "github.com/tavolohq/resto-trace-backend/pkg/errors"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
	"github.com/tavolohq/resto-trace-backend/pkg/pagination"
	"github.com/tavolohq/resto-trace-backend/pkg/txid"
	"github.com/google/uuid"
)

// viewCounter tracks read activity per transaction, used for ops dashboards.
// Implemented by the redis client; recording is best-effort.
type viewCounter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	ViewedKey(transactionID string) string
}

const viewCounterTTL = 24 * time.Hour

// Tracker is the write-side facade: services report lifecycle progress
// here and never talk to sinks or the store directly.
type Tracker interface {
	Start(ctx context.Context, t enums.TransactionType, o enums.TransactionOrigin, module string, data, metadata json.RawMessage) string
	Update(ctx context.Context, transactionID string, eventType enums.TraceEventType, module string, status enums.TransactionStatus, data, metadata json.RawMessage) bool
	Complete(ctx context.Context, transactionID, module string, success bool, data, metadata json.RawMessage) bool
}

type tracker struct {
	logg   *logger.Logger
	events *EventLogger
	now    func() time.Time
}

type TrackerParams struct {
	Logger *logger.Logger
	Events *EventLogger
}

func NewTracker(params TrackerParams) (Tracker, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tracing: logger is required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tracing: event logger is required")
	}
	return &tracker{
		logg:   params.Logger,
		events: params.Events,
		now:    time.Now,
	}, nil
}

func (t *tracker) Start(ctx context.Context, typ enums.TransactionType, origin enums.TransactionOrigin, module string, data, metadata json.RawMessage) string {
	transactionID := txid.Generate(typ, origin)
	t.emit(ctx, transactionID, enums.TraceEventTypeCreated, module, enums.TransactionStatusPending, data, metadata)
	return transactionID
}

func (t *tracker) Update(ctx context.Context, transactionID string, eventType enums.TraceEventType, module string, status enums.TransactionStatus, data, metadata json.RawMessage) bool {
	if !txid.Validate(transactionID) {
		lctx := t.logg.WithTransactionID(ctx, transactionID)
		t.logg.Warn(lctx, "rejected update for invalid transaction id")
		return false
	}
	t.emit(ctx, transactionID, eventType, module, status, data, metadata)
	return true
}

func (t *tracker) Complete(ctx context.Context, transactionID, module string, success bool, data, metadata json.RawMessage) bool {
	if !txid.Validate(transactionID) {
		lctx := t.logg.WithTransactionID(ctx, transactionID)
		t.logg.Warn(lctx, "rejected completion for invalid transaction id")
		return false
	}

	eventType := enums.TraceEventTypeCompleted
	status := enums.TransactionStatusCompleted
	if !success {
		eventType = enums.TraceEventTypeFailed
		status = enums.TransactionStatusFailed
	}
	t.emit(ctx, transactionID, eventType, module, status, data, metadata)
	return true
}

func (t *tracker) emit(ctx context.Context, transactionID string, eventType enums.TraceEventType, module string, status enums.TransactionStatus, data, metadata json.RawMessage) {
	event := &models.TransactionEvent{
		ID:            uuid.New(),
		TransactionID: transactionID,
		Timestamp:     t.now().UTC(),
		EventType:     eventType,
		Module:        module,
		Status:        status,
		Data:          data,
		Metadata:      metadata,
	}
	if !t.events.Log(event) {
		lctx := t.logg.WithTransactionID(ctx, transactionID)
		t.logg.Warn(lctx, "event logger closed, trace event discarded")
	}
}

// SearchInput carries the parsed search request from the API layer.
type SearchInput struct {
	Filters SearchFilters
	Paging  pagination.Params
}

// Service is the read-side API over stored traces.
type Service interface {
	Transaction(ctx context.Context, transactionID string, includeEvents bool) (*SummaryResponse, error)
	Events(ctx context.Context, transactionID string) ([]EventResponse, error)
	Search(ctx context.Context, input SearchInput) (*SearchResponse, error)
	Stats(ctx context.Context, start, end time.Time, dimension enums.StatsDimension) (*StatsResponse, error)
}

type service struct {
	repo  Repository
	views viewCounter
	logg  *logger.Logger
}

type ServiceParams struct {
	Repo   Repository
	Views  viewCounter
	Logger *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tracing: repository is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tracing: logger is required")
	}
	return &service{
		repo:  params.Repo,
		views: params.Views,
		logg:  params.Logger,
	}, nil
}

func (s *service) Transaction(ctx context.Context, transactionID string, includeEvents bool) (*SummaryResponse, error) {
	summary, err := s.repo.FindSummary(ctx, transactionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction")
	}

	response := toSummaryResponse(summary)
	if includeEvents {
		events, err := s.repo.FindEventsByTransaction(ctx, transactionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction events")
		}
		response.Events = toEventResponses(events)
	}

	s.recordView(transactionID)
	return &response, nil
}

func (s *service) Events(ctx context.Context, transactionID string) ([]EventResponse, error) {
	events, err := s.repo.FindEventsByTransaction(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction events")
	}
	if len(events) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	s.recordView(transactionID)
	return toEventResponses(events), nil
}

func (s *service) Search(ctx context.Context, input SearchInput) (*SearchResponse, error) {
	paging := pagination.Normalize(input.Paging)
	page, err := s.repo.SearchSummaries(ctx, input.Filters, paging)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search transactions")
	}

	summaries := make([]SummaryResponse, 0, len(page.Items))
	for i := range page.Items {
		summaries = append(summaries, toSummaryResponse(&page.Items[i]))
	}
	return &SearchResponse{
		Total:        page.Total,
		Skip:         paging.Skip,
		Limit:        paging.Limit,
		Transactions: summaries,
	}, nil
}

func (s *service) Stats(ctx context.Context, start, end time.Time, dimension enums.StatsDimension) (*StatsResponse, error) {
	if !dimension.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stats dimension")
	}
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}

	buckets, err := s.repo.AggregateStats(ctx, start, end, dimension)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate stats")
	}
	return &StatsResponse{
		GroupBy:   string(dimension),
		StartDate: start,
		EndDate:   end,
		Stats:     buckets,
	}, nil
}

// recordView bumps the read counter off the request path; losing a count
// is acceptable.
func (s *service) recordView(transactionID string) {
	if s.views == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := s.views.IncrWithTTL(ctx, s.views.ViewedKey(transactionID), viewCounterTTL); err != nil {
			lctx := s.logg.WithTransactionID(ctx, transactionID)
			s.logg.Warn(lctx, "view counter update failed")
		}
	}()
}
