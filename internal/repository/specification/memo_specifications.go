package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InTrash lifts GORM's soft-delete scope and keeps only trashed rows.
type InTrash struct{}

func (s InTrash) Apply(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Where("deleted_at IS NOT NULL")
}

// IncludeTrashed lifts the soft-delete scope without filtering, for lookups
// that must see a memo regardless of trash state (restore, permanent delete).
type IncludeTrashed struct{}

func (s IncludeTrashed) Apply(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

// OrderByCleanTitle sorts by title with any leading emoji/symbol run
// stripped, so "📌 회의록" files under ㅎ, not under the pin. Mirrors the
// client-side regex strip of the original list view.
type OrderByCleanTitle struct{}

func (s OrderByCleanTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("regexp_replace(title, '^[^[:alnum:]가-힣]+', '') ASC")
}

type ByMemoID struct {
	MemoID uuid.UUID
}

func (s ByMemoID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("memo_id = ?", s.MemoID)
}
