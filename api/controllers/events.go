package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tavolohq/resto-trace-backend/api/responses"
	"github.com/tavolohq/resto-trace-backend/internal/tracing"
	pkgerrors "github.com/tavolohq/resto-trace-backend/pkg/errors"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
)

// EventsByTransaction returns the full chronological event history for one
// transaction; 404 when no events exist.
func EventsByTransaction(svc tracing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracing service unavailable"))
			return
		}

		transactionID := chi.URLParam(r, "transactionID")
		events, err := svc.Events(r.Context(), transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"transaction_id": transactionID,
			"event_count":    len(events),
			"events":         events,
		})
	}
}
