package domain

import "time"

// NotificationType identifies the event a notification was generated for.
type NotificationType string

const (
	NotificationWelcome       NotificationType = "welcome"
	NotificationTaskCreated   NotificationType = "task_created"
	NotificationTaskCompleted NotificationType = "task_completed"
	NotificationTaskDue       NotificationType = "task_due"
	NotificationTaskOverdue   NotificationType = "task_overdue"
	NotificationTaskUpdated   NotificationType = "task_updated"
	NotificationDailySummary  NotificationType = "daily_summary"
)

var notificationTypes = map[NotificationType]struct{}{
	NotificationWelcome:       {},
	NotificationTaskCreated:   {},
	NotificationTaskCompleted: {},
	NotificationTaskDue:       {},
	NotificationTaskOverdue:   {},
	NotificationTaskUpdated:   {},
	NotificationDailySummary:  {},
}

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	_, ok := notificationTypes[t]
	return ok
}

// Notification is an entry in a user's feed. Only Read ever changes after
// creation, and only from false to true.
type Notification struct {
	ID        string           `json:"id" bson:"id"`
	UserID    string           `json:"user_id" bson:"user_id"`
	Type      NotificationType `json:"type" bson:"type"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	RichText  bool             `json:"rich_text" bson:"rich_text"`
	TaskID    string           `json:"task_id,omitempty" bson:"task_id,omitempty"`
	Read      bool             `json:"read" bson:"read"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}
