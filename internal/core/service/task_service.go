package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
	"github.com/taskly/taskly-api/internal/pkg/metrics"
)

// TaskService is the task registry. Every mutation and the notification it
// triggers are persisted in a single snapshot write.
type TaskService struct {
	state         *State
	notifications *NotificationService
	logger        zerolog.Logger
	now           func() time.Time
}

func NewTaskService(state *State, notifications *NotificationService, logger zerolog.Logger) *TaskService {
	return &TaskService{state: state, notifications: notifications, logger: logger, now: utcNow}
}

// Create stores a new pending task for the user and emits task_created.
func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	switch {
	case in.UserID == "":
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingField)
	case title == "":
		return nil, fmt.Errorf("%w: title", domain.ErrMissingField)
	case in.EndAt.IsZero():
		return nil, fmt.Errorf("%w: end_at", domain.ErrMissingField)
	}
	if in.StartAt != nil && in.StartAt.After(in.EndAt) {
		return nil, domain.ErrInvalidSchedule
	}

	now := s.now()
	task := domain.Task{
		ID:          newID(),
		UserID:      in.UserID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		EndAt:       in.EndAt.UTC(),
		Status:      domain.TaskPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.StartAt != nil {
		start := in.StartAt.UTC()
		task.StartAt = &start
	}

	err := s.state.Update(ctx, func(snap *domain.Snapshot) error {
		n, err := s.notifications.Build(task.UserID, domain.NotificationTaskCreated, ports.NotificationContext{
			TaskID:    task.ID,
			TaskTitle: task.Title,
		})
		if err != nil {
			return err
		}
		snap.Tasks = append(snap.Tasks, task)
		s.notifications.record(snap, n)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	metrics.TasksCreatedTotal.Inc()
	s.logger.Info().Str("task_id", task.ID).Str("user_id", task.UserID).Msg("task created")
	return &task, nil
}

// ListForUser returns the user's tasks in insertion order.
func (s *TaskService) ListForUser(_ context.Context, userID string) ([]domain.Task, error) {
	out := []domain.Task{}
	s.state.View(func(snap *domain.Snapshot) {
		for _, t := range snap.Tasks {
			if t.UserID == userID {
				out = append(out, cloneTask(t))
			}
		}
	})
	return out, nil
}

// UpdateStatus sets the status of an owned task. Setting the current status
// again is accepted and still bumps UpdatedAt. Completed emits
// task_completed; pending emits task_updated.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, userID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update status: %w: %q", domain.ErrInvalidStatus, status)
	}

	var updated domain.Task
	err := s.state.Update(ctx, func(snap *domain.Snapshot) error {
		idx := snap.OwnedTask(taskID, userID)
		if idx < 0 {
			return fmt.Errorf("update status: %w", domain.ErrNotFoundOrUnauthorized)
		}
		task := &snap.Tasks[idx]

		typ := domain.NotificationTaskUpdated
		nctx := ports.NotificationContext{TaskID: task.ID, TaskTitle: task.Title, TaskStatus: status}
		if status == domain.TaskCompleted {
			typ = domain.NotificationTaskCompleted
			nctx.TaskStatus = ""
		}
		n, err := s.notifications.Build(task.UserID, typ, nctx)
		if err != nil {
			return err
		}

		task.Status = status
		task.UpdatedAt = s.now()
		s.notifications.record(snap, n)
		updated = cloneTask(*task)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TaskStatusChangesTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().Str("task_id", taskID).Str("status", string(status)).Msg("task status updated")
	return &updated, nil
}

// UpdateDetails edits the title, description or schedule of an owned task
// and emits task_updated.
func (s *TaskService) UpdateDetails(ctx context.Context, in ports.UpdateTaskInput) (*domain.Task, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title", domain.ErrMissingField)
	}
	if in.EndAt != nil && in.EndAt.IsZero() {
		return nil, fmt.Errorf("%w: end_at", domain.ErrMissingField)
	}

	var updated domain.Task
	err := s.state.Update(ctx, func(snap *domain.Snapshot) error {
		idx := snap.OwnedTask(in.TaskID, in.UserID)
		if idx < 0 {
			return fmt.Errorf("update task: %w", domain.ErrNotFoundOrUnauthorized)
		}

		next := cloneTask(snap.Tasks[idx])
		if in.Title != nil {
			next.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			next.Description = strings.TrimSpace(*in.Description)
		}
		if in.StartAt != nil {
			start := in.StartAt.UTC()
			next.StartAt = &start
		}
		if in.EndAt != nil {
			next.EndAt = in.EndAt.UTC()
		}
		if next.StartAt != nil && next.StartAt.After(next.EndAt) {
			return domain.ErrInvalidSchedule
		}

		n, err := s.notifications.Build(next.UserID, domain.NotificationTaskUpdated, ports.NotificationContext{
			TaskID:    next.ID,
			TaskTitle: next.Title,
		})
		if err != nil {
			return err
		}

		next.UpdatedAt = s.now()
		snap.Tasks[idx] = next
		s.notifications.record(snap, n)
		updated = cloneTask(next)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", in.TaskID).Msg("task updated")
	return &updated, nil
}

func cloneTask(t domain.Task) domain.Task {
	if t.StartAt != nil {
		start := *t.StartAt
		t.StartAt = &start
	}
	return t
}
