package implementation

import (
	"context"
	"errors"

	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/mapper"
	"ai-memo-be/internal/model"
	"ai-memo-be/internal/repository/contract"
	"ai-memo-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoMapper
}

func NewMemoRepository(db *gorm.DB) contract.MemoRepository {
	return &MemoRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoMapper(),
	}
}

func (r *MemoRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoRepositoryImpl) Create(ctx context.Context, memo *entity.Memo) error {
	m := r.mapper.ToModel(memo)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*memo = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoRepositoryImpl) Update(ctx context.Context, memo *entity.Memo) error {
	m := r.mapper.ToModel(memo)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*memo = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoRepositoryImpl) SoftDelete(ctx context.Context, id uuid.UUID) error {
	// GORM soft delete: sets deleted_at
	return r.db.WithContext(ctx).Delete(&model.Memo{}, id).Error
}

func (r *MemoRepositoryImpl) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Model(&model.Memo{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *MemoRepositoryImpl) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.Memo{}, id).Error
}

func (r *MemoRepositoryImpl) DeleteTrashedByUserUnscoped(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND deleted_at IS NOT NULL", userId).
		Delete(&model.Memo{}).Error
}

func (r *MemoRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Memo, error) {
	var m model.Memo
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemoRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Memo, error) {
	var models []*model.Memo
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemoRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Memo{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
