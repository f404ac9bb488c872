package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Summary struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MemoId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_summaries_memo_created,priority:1"`
	Memo      Memo           `gorm:"foreignKey:MemoId;constraint:OnDelete:CASCADE" json:"-"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Content   string         `gorm:"type:text;not null"`
	Model     string         `gorm:"type:varchar(100);not null"`
	Usage     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_summaries_memo_created,priority:2"`
}

func (Summary) TableName() string {
	return "summaries"
}
