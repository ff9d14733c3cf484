package ports

import (
	"context"
	"time"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// CreateTaskInput is the task-creation schema. Title and EndAt are required.
type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
	StartAt     *time.Time
	EndAt       time.Time
}

// UpdateTaskInput edits the descriptive fields of an owned task. Nil fields
// are left unchanged.
type UpdateTaskInput struct {
	TaskID      string
	UserID      string
	Title       *string
	Description *string
	StartAt     *time.Time
	EndAt       *time.Time
}

// TaskService is the task registry.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, taskID, userID string, status domain.TaskStatus) (*domain.Task, error)
	UpdateDetails(ctx context.Context, in UpdateTaskInput) (*domain.Task, error)
}
