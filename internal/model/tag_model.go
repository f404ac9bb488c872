package model

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MemoId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_memo_tag,priority:1"`
	Memo      Memo      `gorm:"foreignKey:MemoId;constraint:OnDelete:CASCADE" json:"-"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tag       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_memo_tag,priority:2"`
	Model     string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Tag) TableName() string {
	return "tags"
}
