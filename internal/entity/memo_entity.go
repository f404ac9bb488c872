package entity

import (
	"time"

	"github.com/google/uuid"
)

type Memo struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
