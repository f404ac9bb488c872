package entity

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	Id        uuid.UUID
	MemoId    uuid.UUID
	UserId    uuid.UUID
	Tag       string
	Model     string
	CreatedAt time.Time
}
