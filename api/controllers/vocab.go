package controllers

import (
	"net/http"

	"github.com/tavolohq/resto-trace-backend/api/responses"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
)

// The vocabulary endpoints let clients discover the identifier and event
// vocabularies without hardcoding them.

func TransactionTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := enums.TransactionTypes()
		items := make([]map[string]string, 0, len(values))
		for _, v := range values {
			items = append(items, map[string]string{
				"name": string(v),
				"code": v.Code(),
			})
		}
		responses.WriteSuccess(w, map[string]any{"types": items})
	}
}

func TransactionOrigins() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := enums.TransactionOrigins()
		items := make([]map[string]string, 0, len(values))
		for _, v := range values {
			items = append(items, map[string]string{
				"name": string(v),
				"code": v.Code(),
			})
		}
		responses.WriteSuccess(w, map[string]any{"origins": items})
	}
}

func TraceEventTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := enums.TraceEventTypes()
		items := make([]map[string]any, 0, len(values))
		for _, v := range values {
			items = append(items, map[string]any{
				"name":     string(v),
				"terminal": v.IsTerminal(),
			})
		}
		responses.WriteSuccess(w, map[string]any{"event_types": items})
	}
}

func TransactionStatuses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := enums.TransactionStatuses()
		items := make([]string, 0, len(values))
		for _, v := range values {
			items = append(items, string(v))
		}
		responses.WriteSuccess(w, map[string]any{"statuses": items})
	}
}
