package contract

import (
	"context"

	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MemoRepository interface {
	Create(ctx context.Context, memo *entity.Memo) error
	Update(ctx context.Context, memo *entity.Memo) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	DeleteUnscoped(ctx context.Context, id uuid.UUID) error
	DeleteTrashedByUserUnscoped(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Memo, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Memo, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
