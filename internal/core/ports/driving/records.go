package driving

import (
	"context"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// RecordService gives read access to stored records.
type RecordService interface {
	List(ctx context.Context, sourceID string, limit int) ([]domain.StoredRecord, error)
	Get(ctx context.Context, sourceID, key string) (*domain.StoredRecord, error)
	Count(ctx context.Context, sourceID string) (int, error)
}
