package contract

import (
	"context"

	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SummaryRepository interface {
	Create(ctx context.Context, summary *entity.Summary) error
	// FindLatest returns the newest matching summary or nil.
	FindLatest(ctx context.Context, specs ...specification.Specification) (*entity.Summary, error)
	DeleteByMemoId(ctx context.Context, memoId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
