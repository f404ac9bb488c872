package contract

import (
	"context"

	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TagRepository interface {
	CreateMany(ctx context.Context, tags []*entity.Tag) error
	DeleteByMemoId(ctx context.Context, memoId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tag, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
