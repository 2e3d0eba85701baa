package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tavolohq/resto-trace-backend/api/responses"
	"github.com/tavolohq/resto-trace-backend/api/validators"
	"github.com/tavolohq/resto-trace-backend/internal/tracing"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	pkgerrors "github.com/tavolohq/resto-trace-backend/pkg/errors"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
	"github.com/tavolohq/resto-trace-backend/pkg/pagination"
)

// TransactionByID returns one transaction summary, optionally with its
// full event history.
func TransactionByID(svc tracing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracing service unavailable"))
			return
		}

		transactionID := chi.URLParam(r, "transactionID")
		includeEvents, err := validators.ParseQueryBool(r, "include_events", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Transaction(r.Context(), transactionID, includeEvents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

type searchQuery struct {
	Type          string `json:"type" validate:"omitempty,min=1"`
	Origin        string `json:"origin" validate:"omitempty,min=1"`
	Status        string `json:"status" validate:"omitempty,min=1"`
	Module        string `json:"module" validate:"omitempty,min=1,max=128"`
	SortBy        string `json:"sort_by" validate:"omitempty,oneof=start_time last_update end_time duration_ms event_count status type origin"`
	SortDirection string `json:"sort_direction" validate:"omitempty,oneof=asc desc"`
}

// TransactionSearch lists summaries matching the query filters.
func TransactionSearch(svc tracing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracing service unavailable"))
			return
		}

		direction := r.URL.Query().Get("sort_direction")
		if direction == "" {
			// legacy param name, still honored
			direction = r.URL.Query().Get("order")
		}
		query := searchQuery{
			Type:          strings.TrimSpace(r.URL.Query().Get("type")),
			Origin:        strings.TrimSpace(r.URL.Query().Get("origin")),
			Status:        strings.TrimSpace(r.URL.Query().Get("status")),
			Module:        strings.TrimSpace(r.URL.Query().Get("module")),
			SortBy:        strings.TrimSpace(r.URL.Query().Get("sort_by")),
			SortDirection: strings.ToLower(strings.TrimSpace(direction)),
		}
		if err := validators.ValidateStruct(&query); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := buildSearchFilters(query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := validators.ParseQueryTime(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.StartFrom = from
		filters.StartTo = to

		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), tracing.SearchInput{
			Filters: filters,
			Paging:  pagination.Params{Skip: skip, Limit: limit},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func buildSearchFilters(query searchQuery) (tracing.SearchFilters, error) {
	filters := tracing.SearchFilters{
		Module:   query.Module,
		SortBy:   query.SortBy,
		SortDesc: query.SortDirection != "asc",
	}
	if query.Type != "" {
		t, err := parseTypeInput(query.Type)
		if err != nil {
			return filters, err
		}
		filters.Type = &t
	}
	if query.Origin != "" {
		o, err := parseOriginInput(query.Origin)
		if err != nil {
			return filters, err
		}
		filters.Origin = &o
	}
	if query.Status != "" {
		s, err := enums.ParseTransactionStatus(strings.ToLower(query.Status))
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction status")
		}
		filters.Status = &s
	}
	return filters, nil
}

// parseTypeInput accepts either the enum name (ORDER) or the short identifier
// code visible on the wire (ORD).
func parseTypeInput(value string) (enums.TransactionType, error) {
	raw := strings.ToUpper(strings.TrimSpace(value))
	t, err := enums.ParseTransactionType(raw)
	if err == nil {
		return t, nil
	}
	if fromCode, ok := enums.TransactionTypeFromCode(raw); ok {
		return fromCode, nil
	}
	return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type")
}

func parseOriginInput(value string) (enums.TransactionOrigin, error) {
	raw := strings.ToUpper(strings.TrimSpace(value))
	o, err := enums.ParseTransactionOrigin(raw)
	if err == nil {
		return o, nil
	}
	if fromCode, ok := enums.TransactionOriginFromCode(raw); ok {
		return fromCode, nil
	}
	return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction origin")
}

// TransactionStats returns grouped aggregates over a start_time window.
func TransactionStats(svc tracing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracing service unavailable"))
			return
		}

		start, err := validators.ParseQueryTime(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryTime(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if start == nil || end == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required"))
			return
		}

		groupBy := strings.TrimSpace(r.URL.Query().Get("group_by"))
		if groupBy == "" {
			groupBy = string(enums.StatsDimensionType)
		}
		dimension, err := enums.ParseStatsDimension(strings.ToLower(groupBy))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid group_by"))
			return
		}

		stats, err := svc.Stats(r.Context(), *start, *end, dimension)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
