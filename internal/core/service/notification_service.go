package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
	"github.com/taskly/taskly-api/internal/pkg/metrics"
)

// NotificationService builds notifications from typed events and serves the
// per-user feed.
type NotificationService struct {
	state *State
	log   zerolog.Logger
	now   func() time.Time
}

func NewNotificationService(state *State, log zerolog.Logger) *NotificationService {
	return &NotificationService{state: state, log: log, now: utcNow}
}

// Build constructs a notification without storing it.
func (s *NotificationService) Build(userID string, typ domain.NotificationType, nctx ports.NotificationContext) (domain.Notification, error) {
	r, ok := renderNotification(typ, nctx)
	if !ok {
		return domain.Notification{}, fmt.Errorf("build notification: %w: %q", domain.ErrInvalidNotificationType, typ)
	}
	return domain.Notification{
		ID:        newID(),
		UserID:    userID,
		Type:      typ,
		Title:     r.title,
		Message:   r.message,
		RichText:  r.richText,
		TaskID:    nctx.TaskID,
		CreatedAt: s.now(),
	}, nil
}

// record appends a built notification to snap. Callers hold the state write
// lock.
func (s *NotificationService) record(snap *domain.Snapshot, n domain.Notification) {
	snap.Notifications = append(snap.Notifications, n)
	metrics.NotificationsCreatedTotal.WithLabelValues(string(n.Type)).Inc()
}

// Notify builds a notification, appends it to the feed and persists it.
// Identical calls produce distinct notifications.
func (s *NotificationService) Notify(ctx context.Context, userID string, typ domain.NotificationType, nctx ports.NotificationContext) (*domain.Notification, error) {
	n, err := s.Build(userID, typ, nctx)
	if err != nil {
		return nil, err
	}
	err = s.state.Update(ctx, func(snap *domain.Snapshot) error {
		s.record(snap, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", userID).Str("type", string(typ)).Msg("notification created")
	return &n, nil
}

// ListForUser returns the user's notifications in insertion order.
func (s *NotificationService) ListForUser(_ context.Context, userID string, filter ports.ListNotificationsFilter) ([]domain.Notification, error) {
	out := []domain.Notification{}
	s.state.View(func(snap *domain.Snapshot) {
		for _, n := range snap.Notifications {
			if n.UserID != userID {
				continue
			}
			if filter.UnreadOnly && n.Read {
				continue
			}
			out = append(out, n)
		}
	})
	return out, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(_ context.Context, userID string) (int, error) {
	count := 0
	s.state.View(func(snap *domain.Snapshot) {
		for _, n := range snap.Notifications {
			if n.UserID == userID && !n.Read {
				count++
			}
		}
	})
	return count, nil
}

// MarkRead marks one of the user's notifications as read. Marking an
// already-read notification succeeds without writing.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	var updated domain.Notification
	err := s.state.Update(ctx, func(snap *domain.Snapshot) error {
		idx := snap.OwnedNotification(notificationID, userID)
		if idx < 0 {
			return fmt.Errorf("mark read: %w", domain.ErrNotFoundOrUnauthorized)
		}
		n := &snap.Notifications[idx]
		if n.Read {
			updated = *n
			return errNoChange
		}
		n.Read = true
		updated = *n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	changed := 0
	err := s.state.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Notifications {
			n := &snap.Notifications[i]
			if n.UserID == userID && !n.Read {
				n.Read = true
				changed++
			}
		}
		if changed == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
