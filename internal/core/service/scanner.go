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

const (
	dueWindowHours     = 24
	defaultSummaryHour = 9
)

// ScannerConfig tunes the periodic reminder jobs.
type ScannerConfig struct {
	// SummaryHour is the local hour (0-23) in which daily summaries go out.
	SummaryHour int
	// Location is the time zone SummaryHour and reminder days are evaluated in.
	Location *time.Location
	// Reminders, when set, suppresses repeats: a task gets at most one
	// due/overdue reminder per type and day, and a user one summary per day.
	// When nil every run re-emits.
	Reminders ports.ReminderLog
}

// Scanner evaluates tasks against wall-clock time and emits due, overdue
// and daily summary notifications.
type Scanner struct {
	state         *State
	notifications *NotificationService
	cfg           ScannerConfig
	log           zerolog.Logger
}

func NewScanner(state *State, notifications *NotificationService, cfg ScannerConfig, log zerolog.Logger) *Scanner {
	if cfg.SummaryHour < 0 || cfg.SummaryHour > 23 {
		cfg.SummaryHour = defaultSummaryHour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Scanner{state: state, notifications: notifications, cfg: cfg, log: log}
}

// reminder is a notification the scanner decided to emit.
type reminder struct {
	userID string
	typ    domain.NotificationType
	nctx   ports.NotificationContext
	key    string
}

// ScanDueDates emits task_due for every open task ending within the next 24
// hours and task_overdue for every open task already past its end. It
// returns the number of notifications created.
func (s *Scanner) ScanDueDates(ctx context.Context, now time.Time) (int, error) {
	day := now.In(s.cfg.Location).Format(time.DateOnly)

	var candidates []reminder
	s.state.View(func(snap *domain.Snapshot) {
		for _, t := range snap.Tasks {
			typ, hours, ok := dueReminderType(t, now)
			if !ok {
				continue
			}
			candidates = append(candidates, reminder{
				userID: t.UserID,
				typ:    typ,
				nctx:   ports.NotificationContext{TaskID: t.ID, TaskTitle: t.Title, HoursLeft: hours},
				key:    fmt.Sprintf("reminder:%s:%s:%s", typ, t.ID, day),
			})
		}
	})

	return s.emit(ctx, s.filterSeen(ctx, candidates), recheckDue(now))
}

// dueReminderType classifies an open task against now: task_due inside the
// window, task_overdue once past its end.
func dueReminderType(t domain.Task, now time.Time) (domain.NotificationType, float64, bool) {
	if t.Status == domain.TaskCompleted {
		return "", 0, false
	}
	hours := t.HoursUntilDue(now)
	switch {
	case hours > 0 && hours <= dueWindowHours:
		return domain.NotificationTaskDue, hours, true
	case hours < 0:
		return domain.NotificationTaskOverdue, hours, true
	}
	return "", 0, false
}

// recheckDue re-evaluates a reminder against the current task under the
// write lock. A task that was completed, deleted, rescheduled out of the
// window or into the other window is skipped; otherwise title and hours
// are refreshed.
func recheckDue(now time.Time) func(*domain.Snapshot, reminder) (reminder, bool) {
	return func(snap *domain.Snapshot, r reminder) (reminder, bool) {
		for _, t := range snap.Tasks {
			if t.ID != r.nctx.TaskID {
				continue
			}
			typ, hours, ok := dueReminderType(t, now)
			if !ok || typ != r.typ {
				return r, false
			}
			r.nctx.TaskTitle = t.Title
			r.nctx.HoursLeft = hours
			return r, true
		}
		return r, false
	}
}

// SendDailySummaries emits one daily_summary per user with their pending
// task count, but only when now falls in the configured summary hour.
func (s *Scanner) SendDailySummaries(ctx context.Context, now time.Time) (int, error) {
	local := now.In(s.cfg.Location)
	if local.Hour() != s.cfg.SummaryHour {
		return 0, nil
	}
	day := local.Format(time.DateOnly)

	var candidates []reminder
	s.state.View(func(snap *domain.Snapshot) {
		pending := make(map[string]int, len(snap.Users))
		for _, t := range snap.Tasks {
			if t.Status != domain.TaskCompleted {
				pending[t.UserID]++
			}
		}
		for _, u := range snap.Users {
			candidates = append(candidates, reminder{
				userID: u.ID,
				typ:    domain.NotificationDailySummary,
				nctx:   ports.NotificationContext{FullName: u.FullName, PendingCount: pending[u.ID]},
				key:    fmt.Sprintf("summary:%s:%s", u.ID, day),
			})
		}
	})

	return s.emit(ctx, s.filterSeen(ctx, candidates), nil)
}

// filterSeen drops reminders already recorded in the reminder log. Without
// a log every candidate is kept. Lookup errors keep the reminder.
func (s *Scanner) filterSeen(ctx context.Context, candidates []reminder) []reminder {
	if s.cfg.Reminders == nil || len(candidates) == 0 {
		return candidates
	}
	kept := candidates[:0]
	for _, r := range candidates {
		seen, err := s.cfg.Reminders.Seen(ctx, r.key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", r.key).Msg("reminder log lookup failed, sending anyway")
		} else if seen {
			metrics.RemindersSuppressedTotal.WithLabelValues(string(r.typ)).Inc()
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// emit writes the reminders in one snapshot update. recheck, when set, runs
// under the write lock and may drop or refresh a reminder whose task changed
// since the read pass.
func (s *Scanner) emit(ctx context.Context, reminders []reminder, recheck func(*domain.Snapshot, reminder) (reminder, bool)) (int, error) {
	if len(reminders) == 0 {
		return 0, nil
	}

	var sent []reminder
	err := s.state.Update(ctx, func(snap *domain.Snapshot) error {
		for _, r := range reminders {
			if recheck != nil {
				var ok bool
				if r, ok = recheck(snap, r); !ok {
					continue
				}
			}
			n, err := s.notifications.Build(r.userID, r.typ, r.nctx)
			if err != nil {
				return err
			}
			s.notifications.record(snap, n)
			sent = append(sent, r)
		}
		if len(sent) == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.cfg.Reminders != nil {
		for _, r := range sent {
			if err := s.cfg.Reminders.Mark(ctx, r.key); err != nil {
				s.log.Warn().Err(err).Str("key", r.key).Msg("failed to record reminder")
			}
		}
	}

	if len(sent) > 0 {
		s.log.Info().Int("count", len(sent)).Msg("reminders emitted")
	}
	return len(sent), nil
}
