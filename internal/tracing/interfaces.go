package tracing

import (
	"context"
	"time"

	"github.com/tavolohq/resto-trace-backend/pkg/db/models"
	"github.com/tavolohq/resto-trace-backend/pkg/enums"
	"github.com/tavolohq/resto-trace-backend/pkg/pagination"
)

// Repository defines persistence operations for trace events and the
// per-transaction summary rows derived from them.
type Repository interface {
	SaveEvent(ctx context.Context, event *models.TransactionEvent) error
	FindSummary(ctx context.Context, transactionID string) (*models.TransactionSummary, error)
	FindEventsByTransaction(ctx context.Context, transactionID string) ([]models.TransactionEvent, error)
	SearchSummaries(ctx context.Context, filters SearchFilters, params pagination.Params) (*SummaryPage, error)
	AggregateStats(ctx context.Context, start, end time.Time, dimension enums.StatsDimension) ([]StatBucket, error)
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
