package domain

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

var knownStatuses = map[TaskStatus]bool{
	TaskPending:   true,
	TaskCompleted: true,
}

// Valid reports whether s is a known status. Any known status may follow
// any other, including itself.
func (s TaskStatus) Valid() bool {
	return knownStatuses[s]
}

// Task is a single entry in a user's personal task list. UserID is fixed at
// creation.
type Task struct {
	ID          string     `json:"id" bson:"id"`
	UserID      string     `json:"user_id" bson:"user_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty" bson:"start_at,omitempty"`
	EndAt       time.Time  `json:"end_at" bson:"end_at"`
	Status      TaskStatus `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// HoursUntilDue returns the signed number of hours between now and EndAt.
func (t Task) HoursUntilDue(now time.Time) float64 {
	return t.EndAt.Sub(now).Hours()
}
