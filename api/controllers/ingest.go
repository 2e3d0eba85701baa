package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tavolohq/resto-trace-backend/api/responses"
	"github.com/tavolohq/resto-trace-backend/api/validators"
	"github.com/tavolohq/resto-trace-backend/internal/tracing"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	pkgerrors "github.com/tavolohq/resto-trace-backend/pkg/errors"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
)

type startTransactionBody struct {
	Type     string          `json:"type" validate:"required,min=1"`
	Origin   string          `json:"origin" validate:"required,min=1"`
	Module   string          `json:"module" validate:"required,min=1,max=128"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
}

type updateTransactionBody struct {
	EventType string          `json:"event_type" validate:"required,min=1"`
	Status    string          `json:"status" validate:"required,min=1"`
	Module    string          `json:"module" validate:"required,min=1,max=128"`
	Data      json.RawMessage `json:"data"`
	Metadata  json.RawMessage `json:"metadata"`
}

type completeTransactionBody struct {
	Success  *bool           `json:"success" validate:"required"`
	Module   string          `json:"module" validate:"required,min=1,max=128"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
}

// TransactionStart mints a new transaction id and records its created event.
func TransactionStart(tracker tracing.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracker unavailable"))
			return
		}

		var body startTransactionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		typ, err := parseTypeInput(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		origin, err := parseOriginInput(body.Origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transactionID := tracker.Start(r.Context(), typ, origin, body.Module, body.Data, body.Metadata)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"transaction_id": transactionID,
		})
	}
}

// TransactionUpdate appends a progress event to an existing transaction.
func TransactionUpdate(tracker tracing.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracker unavailable"))
			return
		}

		transactionID := chi.URLParam(r, "transactionID")
		var body updateTransactionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventType, err := enums.ParseTraceEventType(strings.ToLower(body.EventType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event type"))
			return
		}
		status, err := enums.ParseTransactionStatus(strings.ToLower(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction status"))
			return
		}

		if !tracker.Update(r.Context(), transactionID, eventType, body.Module, status, body.Data, body.Metadata) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction id"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
			"transaction_id": transactionID,
			"accepted":       true,
		})
	}
}

// TransactionComplete records the terminal event for a transaction.
func TransactionComplete(tracker tracing.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracker unavailable"))
			return
		}

		transactionID := chi.URLParam(r, "transactionID")
		var body completeTransactionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !tracker.Complete(r.Context(), transactionID, body.Module, *body.Success, body.Data, body.Metadata) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction id"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
			"transaction_id": transactionID,
			"accepted":       true,
		})
	}
}
