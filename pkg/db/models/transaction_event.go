package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/tavolohq/resto-trace-backend/pkg/enums"
)

// TransactionEvent records one immutable lifecycle fact about a transaction.
// Rows are append-only; only retention cleanup ever deletes them.
type TransactionEvent struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	TransactionID string                  `gorm:"column:transaction_id;size:64;not null;index:idx_transaction_events_tx_time,priority:1"`
	Timestamp     time.Time               `gorm:"column:timestamp;not null;index:idx_transaction_events_tx_time,priority:2"`
	EventType     enums.TraceEventType    `gorm:"column:event_type;size:16;not null"`
	Module        string                  `gorm:"column:module;size:128;not null"`
	Status        enums.TransactionStatus `gorm:"column:status;size:16;not null"`
	Data          json.RawMessage         `gorm:"column:data;type:jsonb"`
	Metadata      json.RawMessage         `gorm:"column:metadata;type:jsonb"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
}
