package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	dbtypes "github.com/tavolohq/resto-trace-backend/pkg/db/types"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	"github.com/tavolohq/resto-trace-backend/pkg/pagination"
	"github.com/tavolohq/resto-trace-backend/pkg/txid"
)

// maxSummaryRetries bounds the optimistic update loop when concurrent
// writers race on the same transaction's summary row. Every lost round
// means another writer committed, so the bound caps tolerated write
// concurrency per transaction, not wasted spinning.
const maxSummaryRetries = 8

const unknownLabel = "UNKNOWN"

// sortColumns whitelists the fields a search may order by.
var sortColumns = map[string]string{
	"start_time":  "start_time",
	"last_update": "last_update",
	"end_time":    "end_time",
	"duration_ms": "duration_ms",
	"event_count": "event_count",
	"status":      "status",
	"type":        "type",
	"origin":      "origin",
}

// statsColumns whitelists the grouping column per dimension.
var statsColumns = map[enums.StatsDimension]string{
	enums.StatsDimensionType:        "type",
	enums.StatsDimensionOrigin:      "origin",
	enums.StatsDimensionStatus:      "status",
	enums.StatsDimensionFirstModule: "first_module",
	enums.StatsDimensionLastModule:  "last_module",
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tracing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// SaveEvent appends the event and folds it into the transaction summary.
// The event row is the source of truth; the summary is maintained with an
// optimistic version check so concurrent writers on the same transaction
// never lose counts.
func (r *repository) SaveEvent(ctx context.Context, event *models.TransactionEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return r.foldIntoSummary(ctx, event)
}

func (r *repository) foldIntoSummary(ctx context.Context, event *models.TransactionEvent) error {
	for attempt := 0; attempt < maxSummaryRetries; attempt++ {
		var summary models.TransactionSummary
		err := r.db.WithContext(ctx).
			Where("transaction_id = ?", event.TransactionID).
			First(&summary).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, cerr := r.createSummary(ctx, event)
			if cerr != nil {
				return cerr
			}
			if created {
				return nil
			}
			// Lost the insert race; reread and update instead.
			continue
		}
		if err != nil {
			return fmt.Errorf("load summary: %w", err)
		}

		applied, err := r.advanceSummary(ctx, &summary, event)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}
	return fmt.Errorf("summary contention for %s", event.TransactionID)
}

func (r *repository) createSummary(ctx context.Context, event *models.TransactionEvent) (bool, error) {
	// type/origin are the id's literal first two fields, so a stored summary
	// always matches what callers see on the wire (e.g. ORD, not ORDER).
	typeCode, originCode := unknownLabel, unknownLabel
	if parts, err := txid.Parse(event.TransactionID); err == nil {
		typeCode = parts.Type.Code()
		originCode = parts.Origin.Code()
	}

	summary := models.TransactionSummary{
		TransactionID: event.TransactionID,
		Type:          typeCode,
		Origin:        originCode,
		Status:        event.Status,
		StartTime:     event.Timestamp,
		LastUpdate:    event.Timestamp,
		EventCount:    1,
		FirstModule:   event.Module,
		LastModule:    event.Module,
		Modules:       dbtypes.ModuleList{event.Module},
		Version:       1,
	}
	if event.EventType.IsTerminal() {
		end := event.Timestamp
		summary.EndTime = &end
		zero := int64(0)
		summary.DurationMS = &zero
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&summary)
	if result.Error != nil {
		return false, fmt.Errorf("insert summary: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) advanceSummary(ctx context.Context, summary *models.TransactionSummary, event *models.TransactionEvent) (bool, error) {
	updates := map[string]any{
		"status":      event.Status,
		"last_update": event.Timestamp,
		"last_module": event.Module,
		"event_count": summary.EventCount + 1,
		"modules":     append(append(dbtypes.ModuleList{}, summary.Modules...), event.Module),
		"version":     summary.Version + 1,
	}
	if event.EventType.IsTerminal() && !summary.Terminal() {
		end := event.Timestamp
		updates["end_time"] = &end
		updates["duration_ms"] = event.Timestamp.Sub(summary.StartTime).Milliseconds()
	}

	result := r.db.WithContext(ctx).
		Model(&models.TransactionSummary{}).
		Where("transaction_id = ? AND version = ?", summary.TransactionID, summary.Version).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("update summary: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) FindSummary(ctx context.Context, transactionID string) (*models.TransactionSummary, error) {
	var summary models.TransactionSummary
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) FindEventsByTransaction(ctx context.Context, transactionID string) ([]models.TransactionEvent, error) {
	var events []models.TransactionEvent
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("timestamp ASC, created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) SearchSummaries(ctx context.Context, filters SearchFilters, params pagination.Params) (*SummaryPage, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.TransactionSummary{})
	if filters.Type != nil {
		query = query.Where("type = ?", filters.Type.Code())
	}
	if filters.Origin != nil {
		query = query.Where("origin = ?", filters.Origin.Code())
	}
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.Module != "" {
		quoted, err := json.Marshal(filters.Module)
		if err != nil {
			return nil, fmt.Errorf("encode module filter: %w", err)
		}
		query = query.Where("CAST(modules AS TEXT) LIKE ?", "%"+string(quoted)+"%")
	}
	if filters.StartFrom != nil {
		query = query.Where("start_time >= ?", *filters.StartFrom)
	}
	if filters.StartTo != nil {
		query = query.Where("start_time <= ?", *filters.StartTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count summaries: %w", err)
	}

	column, ok := sortColumns[filters.SortBy]
	if !ok {
		column = "start_time"
	}
	direction := "ASC"
	if filters.SortDesc {
		direction = "DESC"
	}

	var items []models.TransactionSummary
	err := query.
		Order(fmt.Sprintf("%s %s, transaction_id ASC", column, direction)).
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("search summaries: %w", err)
	}

	return &SummaryPage{Total: total, Items: items}, nil
}

func (r *repository) AggregateStats(ctx context.Context, start, end time.Time, dimension enums.StatsDimension) ([]StatBucket, error) {
	column, ok := statsColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("unsupported stats dimension %q", dimension)
	}

	var buckets []StatBucket
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT %[1]s AS category,
		       COUNT(*) AS total,
		       SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed,
		       SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS failed,
		       AVG(duration_ms) AS avg_duration_ms,
		       MIN(duration_ms) AS min_duration_ms,
		       MAX(duration_ms) AS max_duration_ms
		FROM transactions
		WHERE start_time >= ? AND start_time <= ?
		GROUP BY %[1]s
		ORDER BY total DESC, category ASC`, column),
		string(enums.TransactionStatusCompleted),
		string(enums.TransactionStatusFailed),
		start, end,
	).Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].SuccessRate = float64(buckets[i].Completed) / float64(buckets[i].Count) * 100
		}
	}
	return buckets, nil
}

// DeleteEventsBefore prunes events older than the cutoff. Summaries whose
// events are pruned keep their live event_count and record it once in
// historical_event_count, so totals remain explainable after cleanup.
func (r *repository) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			UPDATE transactions
			SET historical_event_count = event_count
			WHERE historical_event_count IS NULL
			  AND transaction_id IN (
				SELECT DISTINCT transaction_id
				FROM transaction_events
				WHERE timestamp < ?
			  )`, cutoff).Error
		if err != nil {
			return fmt.Errorf("freeze historical counts: %w", err)
		}

		result := tx.Where("timestamp < ?", cutoff).Delete(&models.TransactionEvent{})
		if result.Error != nil {
			return fmt.Errorf("delete events: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}
