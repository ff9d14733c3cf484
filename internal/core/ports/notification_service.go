package ports

import (
	"context"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// NotificationContext carries the values a notification template may use.
type NotificationContext struct {
	FullName     string
	TaskID       string
	TaskTitle    string
	TaskStatus   domain.TaskStatus
	HoursLeft    float64
	PendingCount int
}

// ListNotificationsFilter narrows a notification listing.
type ListNotificationsFilter struct {
	UnreadOnly bool
}

// NotificationService is the notification center.
type NotificationService interface {
	Notify(ctx context.Context, userID string, typ domain.NotificationType, nctx NotificationContext) (*domain.Notification, error)
	ListForUser(ctx context.Context, userID string, filter ListNotificationsFilter) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}
