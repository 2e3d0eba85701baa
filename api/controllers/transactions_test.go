package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolohq/resto-trace-backend/internal/tracing"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	pkgerrors "github.com/tavolohq/resto-trace-backend/pkg/errors"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
	"github.com/tavolohq/resto-trace-backend/pkg/types"
)

type stubTracingService struct {
	summary    *tracing.SummaryResponse
	events     []tracing.EventResponse
	search     *tracing.SearchResponse
	stats      *tracing.StatsResponse
	err        error
	lastInput  tracing.SearchInput
	lastStatsD enums.StatsDimension
}

func (s *stubTracingService) Transaction(ctx context.Context, transactionID string, includeEvents bool) (*tracing.SummaryResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func (s *stubTracingService) Events(ctx context.Context, transactionID string) ([]tracing.EventResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func (s *stubTracingService) Search(ctx context.Context, input tracing.SearchInput) (*tracing.SearchResponse, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.search, nil
}

func (s *stubTracingService) Stats(ctx context.Context, start, end time.Time, dimension enums.StatsDimension) (*tracing.StatsResponse, error) {
	s.lastStatsD = dimension
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test"})
}

func serveWithParam(h http.HandlerFunc, r *http.Request, key, value string) *httptest.ResponseRecorder {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestTransactionByIDReturnsSummary(t *testing.T) {
	svc := &stubTracingService{summary: &tracing.SummaryResponse{
		TransactionID: "ORD-POS-260314120000-0001-AAAA",
		Type:          "ORD",
		Status:        "completed",
	}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/ORD-POS-260314120000-0001-AAAA", nil)
	w := serveWithParam(TransactionByID(svc, testControllerLogger()), r, "transactionID", "ORD-POS-260314120000-0001-AAAA")

	require.Equal(t, http.StatusOK, w.Code)
	var body types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	data := body.Data.(map[string]any)
	assert.Equal(t, "ORD-POS-260314120000-0001-AAAA", data["transaction_id"])
}

func TestTransactionByIDNotFound(t *testing.T) {
	svc := &stubTracingService{err: pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/nope", nil)
	w := serveWithParam(TransactionByID(svc, testControllerLogger()), r, "transactionID", "nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionByIDRejectsBadIncludeEvents(t *testing.T) {
	svc := &stubTracingService{summary: &tracing.SummaryResponse{}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/x?include_events=sure", nil)
	w := serveWithParam(TransactionByID(svc, testControllerLogger()), r, "transactionID", "x")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionSearchBuildsFilters(t *testing.T) {
	svc := &stubTracingService{search: &tracing.SearchResponse{Total: 1}}
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/transactions?type=order&status=completed&module=kitchen&sort_by=event_count&order=asc&skip=5&limit=20&start_date=2026-03-01", nil)
	w := httptest.NewRecorder()
	TransactionSearch(svc, testControllerLogger()).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastInput.Filters.Type)
	assert.Equal(t, enums.TransactionTypeOrder, *svc.lastInput.Filters.Type)
	require.NotNil(t, svc.lastInput.Filters.Status)
	assert.Equal(t, enums.TransactionStatusCompleted, *svc.lastInput.Filters.Status)
	assert.Equal(t, "kitchen", svc.lastInput.Filters.Module)
	assert.Equal(t, "event_count", svc.lastInput.Filters.SortBy)
	assert.False(t, svc.lastInput.Filters.SortDesc)
	require.NotNil(t, svc.lastInput.Filters.StartFrom)
	assert.Equal(t, 5, svc.lastInput.Paging.Skip)
	assert.Equal(t, 20, svc.lastInput.Paging.Limit)
}

func TestTransactionSearchAcceptsIdentifierCodes(t *testing.T) {
	svc := &stubTracingService{search: &tracing.SearchResponse{}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?type=ORD&origin=TERM", nil)
	w := httptest.NewRecorder()
	TransactionSearch(svc, testControllerLogger()).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastInput.Filters.Type)
	assert.Equal(t, enums.TransactionTypeOrder, *svc.lastInput.Filters.Type)
	require.NotNil(t, svc.lastInput.Filters.Origin)
	assert.Equal(t, enums.TransactionOriginTerminal, *svc.lastInput.Filters.Origin)
}

func TestTransactionSearchSortDirection(t *testing.T) {
	svc := &stubTracingService{search: &tracing.SearchResponse{}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?sort_by=start_time&sort_direction=asc", nil)
	w := httptest.NewRecorder()
	TransactionSearch(svc, testControllerLogger()).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.lastInput.Filters.SortDesc)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/transactions?sort_direction=bogus", nil)
	w = httptest.NewRecorder()
	TransactionSearch(svc, testControllerLogger()).ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionSearchRejectsUnknownEnum(t *testing.T) {
	svc := &stubTracingService{search: &tracing.SearchResponse{}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?type=bogus", nil)
	w := httptest.NewRecorder()
	TransactionSearch(svc, testControllerLogger()).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionSearchRejectsBadSort(t *testing.T) {
	svc := &stubTracingService{search: &tracing.SearchResponse{}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?sort_by=modules", nil)
	w := httptest.NewRecorder()
	TransactionSearch(svc, testControllerLogger()).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionStatsRequiresWindow(t *testing.T) {
	svc := &stubTracingService{stats: &tracing.StatsResponse{}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats?start_date=2026-03-01", nil)
	w := httptest.NewRecorder()
	TransactionStats(svc, testControllerLogger()).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionStatsDefaultsGroupBy(t *testing.T) {
	svc := &stubTracingService{stats: &tracing.StatsResponse{GroupBy: "type"}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats?start_date=2026-03-01&end_date=2026-03-31", nil)
	w := httptest.NewRecorder()
	TransactionStats(svc, testControllerLogger()).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, enums.StatsDimensionType, svc.lastStatsD)
}

func TestEventsByTransactionNotFound(t *testing.T) {
	svc := &stubTracingService{err: pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/events/missing", nil)
	w := serveWithParam(EventsByTransaction(svc, testControllerLogger()), r, "transactionID", "missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventsByTransactionReturnsHistory(t *testing.T) {
	svc := &stubTracingService{events: []tracing.EventResponse{
		{TransactionID: "ORD-POS-260314120000-0001-AAAA", EventType: "created"},
		{TransactionID: "ORD-POS-260314120000-0001-AAAA", EventType: "completed"},
	}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/events/ORD-POS-260314120000-0001-AAAA", nil)
	w := serveWithParam(EventsByTransaction(svc, testControllerLogger()), r, "transactionID", "ORD-POS-260314120000-0001-AAAA")

	require.Equal(t, http.StatusOK, w.Code)
	var body types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	data := body.Data.(map[string]any)
	assert.Equal(t, float64(2), data["event_count"])
}
