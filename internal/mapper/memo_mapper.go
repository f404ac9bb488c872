package mapper

import (
	"time"

	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/model"

	"gorm.io/gorm"
)

type MemoMapper struct{}

func NewMemoMapper() *MemoMapper {
	return &MemoMapper{}
}

func (m *MemoMapper) ToEntity(n *model.Memo) *entity.Memo {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Memo{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *MemoMapper) ToModel(n *entity.Memo) *model.Memo {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Memo{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *MemoMapper) ToEntities(memos []*model.Memo) []*entity.Memo {
	entities := make([]*entity.Memo, len(memos))
	for i, n := range memos {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
