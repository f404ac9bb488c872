package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationDTO struct {
	Id        uuid.UUID              `json:"id"`
	TypeCode  string                 `json:"type_code"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Items      []NotificationDTO `json:"items"`
	TotalCount int64             `json:"total_count"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
