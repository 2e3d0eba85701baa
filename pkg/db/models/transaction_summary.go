package models

import (
	"time"

	dbtypes "github.com/tavolohq/resto-trace-backend/pkg/db/types"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
)

// TransactionSummary is the mutable aggregate derived from a transaction's
// event stream. One row per transaction identifier; start_time and end_time
// are each set at most once, version guards concurrent updates.
type TransactionSummary struct {
	TransactionID string `gorm:"column:transaction_id;size:64;primaryKey"`
	// Type and Origin hold the identifier's literal code fields (ORD, POS),
	// or UNKNOWN when the id does not decode.
	Type       string                  `gorm:"column:type;size:16;not null"`
	Origin     string                  `gorm:"column:origin;size:16;not null"`
	Status     enums.TransactionStatus `gorm:"column:status;size:16;not null"`
	StartTime  time.Time               `gorm:"column:start_time;not null;index"`
	LastUpdate time.Time               `gorm:"column:last_update;not null"`
	EndTime    *time.Time              `gorm:"column:end_time"`
	DurationMS *int64                  `gorm:"column:duration_ms"`
	EventCount int64                   `gorm:"column:event_count;not null"`
	// HistoricalEventCount freezes the live count the first time retention
	// cleanup prunes this transaction's events.
	HistoricalEventCount *int64             `gorm:"column:historical_event_count"`
	FirstModule          string             `gorm:"column:first_module;size:128;not null"`
	LastModule           string             `gorm:"column:last_module;size:128;not null"`
	Modules              dbtypes.ModuleList `gorm:"column:modules;type:jsonb"`
	Version              int64              `gorm:"column:version;not null"`
	CreatedAt            time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (TransactionSummary) TableName() string {
	return "transactions"
}

// Terminal reports whether a closing event has already been recorded.
func (s TransactionSummary) Terminal() bool {
	return s.EndTime != nil
}
