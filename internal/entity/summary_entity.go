package entity

import (
	"time"

	"github.com/google/uuid"
)

// Summary rows are append-only: regeneration inserts a new row and the
// newest by CreatedAt is the current one.
type Summary struct {
	Id        uuid.UUID
	MemoId    uuid.UUID
	UserId    uuid.UUID
	Content   string
	Model     string
	Usage     map[string]interface{} // token counters reported by the provider
	CreatedAt time.Time
}
