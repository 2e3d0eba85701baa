package tracing

import (
	"encoding/json"
	"time"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
)

// SearchFilters narrows a summary search. Nil/empty fields are ignored.
type SearchFilters struct {
	Type      *enums.TransactionType
	Origin    *enums.TransactionOrigin
	Status    *enums.TransactionStatus
	Module    string
	StartFrom *time.Time
	StartTo   *time.Time
	SortBy    string
	SortDesc  bool
}

// SummaryPage is one page of search results plus the unpaged total.
type SummaryPage struct {
	Total int64
	Items []models.TransactionSummary
}

// StatBucket is one aggregate row of a stats query. SuccessRate is derived
// after scanning, the rest come straight from the grouped query.
type StatBucket struct {
	Category      string   `gorm:"column:category" json:"category"`
	Count         int64    `gorm:"column:total" json:"count"`
	Completed     int64    `gorm:"column:completed" json:"completed"`
	Failed        int64    `gorm:"column:failed" json:"failed"`
	SuccessRate   float64  `gorm:"-" json:"success_rate"`
	AvgDurationMS *float64 `gorm:"column:avg_duration_ms" json:"avg_duration_ms"`
	MinDurationMS *int64   `gorm:"column:min_duration_ms" json:"min_duration_ms"`
	MaxDurationMS *int64   `gorm:"column:max_duration_ms" json:"max_duration_ms"`
}

// SummaryResponse is the API shape of a transaction summary.
type SummaryResponse struct {
	TransactionID        string           `json:"transaction_id"`
	Type                 string           `json:"type"`
	Origin               string           `json:"origin"`
	Status               string           `json:"status"`
	StartTime            time.Time        `json:"start_time"`
	LastUpdate           time.Time        `json:"last_update"`
	EndTime              *time.Time       `json:"end_time,omitempty"`
	DurationMS           *int64           `json:"duration_ms,omitempty"`
	EventCount           int64            `json:"event_count"`
	HistoricalEventCount *int64           `json:"historical_event_count,omitempty"`
	FirstModule          string           `json:"first_module"`
	LastModule           string           `json:"last_module"`
	Modules              []string         `json:"modules"`
	Events               []EventResponse  `json:"events,omitempty"`
}

// EventResponse is the API shape of a single trace event.
type EventResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Timestamp     time.Time       `json:"timestamp"`
	EventType     string          `json:"event_type"`
	Module        string          `json:"module"`
	Status        string          `json:"status"`
	Data          json.RawMessage `json:"data,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// SearchResponse wraps one page of summaries with paging echo fields.
type SearchResponse struct {
	Total        int64             `json:"total"`
	Skip         int               `json:"skip"`
	Limit        int               `json:"limit"`
	Transactions []SummaryResponse `json:"transactions"`
}

// StatsResponse is the grouped aggregate view over a time window.
type StatsResponse struct {
	GroupBy   string       `json:"group_by"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Stats     []StatBucket `json:"stats"`
}

func toSummaryResponse(summary *models.TransactionSummary) SummaryResponse {
	return SummaryResponse{
		TransactionID:        summary.TransactionID,
		Type:                 summary.Type,
		Origin:               summary.Origin,
		Status:               string(summary.Status),
		StartTime:            summary.StartTime,
		LastUpdate:           summary.LastUpdate,
		EndTime:              summary.EndTime,
		DurationMS:           summary.DurationMS,
		EventCount:           summary.EventCount,
		HistoricalEventCount: summary.HistoricalEventCount,
		FirstModule:          summary.FirstModule,
		LastModule:           summary.LastModule,
		Modules:              []string(summary.Modules),
	}
}

func toEventResponses(events []models.TransactionEvent) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, EventResponse{
			ID:            event.ID.String(),
			TransactionID: event.TransactionID,
			Timestamp:     event.Timestamp,
			EventType:     string(event.EventType),
			Module:        event.Module,
			Status:        string(event.Status),
			Data:          event.Data,
			Metadata:      event.Metadata,
		})
	}
	return out
}
