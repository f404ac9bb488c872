package contract

import (
	"context"

	"ai-memo-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository works on models directly; notifications are
// presentation-shaped rows with no domain behavior worth an entity layer.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notif *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
}
