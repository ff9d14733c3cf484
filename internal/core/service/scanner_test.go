package service

import (
	"context"
	"testing"
	"time"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

func newTestScanner(env *testEnv, cfg ScannerConfig) *Scanner {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return NewScanner(env.state, env.notifications, cfg, discardLogger)
}

// A pending task inside the due window triggers task_due on every scan until
// its status changes; repeats are not suppressed by default.
func TestScanner_ScanDueDates_RepeatsEveryTick(t *testing.T) {
	env := newTestEnv()
	user := env.register("a@example.com")
	if user.ID != "taskly-001" {
		t.Fatalf("expected taskly-001, got %s", user.ID)
	}
	now := time.Now().UTC()
	if _, err := env.tasks.Create(context.Background(), taskInput(user.ID, "report", now.Add(12*time.Hour))); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	scanner := newTestScanner(env, ScannerConfig{})

	n, err := scanner.ScanDueDates(context.Background(), now)
	if err != nil || n != 1 {
		t.Fatalf("first tick: expected 1 notification, got %d (%v)", n, err)
	}
	if due := env.notificationsOf("taskly-001", domain.NotificationTaskDue); len(due) != 1 {
		t.Fatalf("expected one task_due after first tick, got %d", len(due))
	}

	n, err = scanner.ScanDueDates(context.Background(), now)
	if err != nil || n != 1 {
		t.Fatalf("second tick: expected 1 notification, got %d (%v)", n, err)
	}
	due := env.notificationsOf("taskly-001", domain.NotificationTaskDue)
	if len(due) != 2 {
		t.Fatalf("expected a duplicate task_due after second tick, got %d", len(due))
	}
	if due[0].ID == due[1].ID {
		t.Fatalf("duplicate reminders must still have distinct identifiers")
	}
}

func TestScanner_ScanDueDates_Windows(t *testing.T) {
	env := newTestEnv()
	user := env.register("a@example.com")
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	dueSoon, _ := env.tasks.Create(ctx, taskInput(user.ID, "soon", now.Add(time.Hour)))
	edge, _ := env.tasks.Create(ctx, taskInput(user.ID, "edge", now.Add(24*time.Hour)))
	_, _ = env.tasks.Create(ctx, taskInput(user.ID, "later", now.Add(25*time.Hour)))
	_, _ = env.tasks.Create(ctx, taskInput(user.ID, "exact", now))
	late, _ := env.tasks.Create(ctx, taskInput(user.ID, "late", now.Add(-time.Minute)))
	done, _ := env.tasks.Create(ctx, taskInput(user.ID, "done", now.Add(-time.Hour)))
	if _, err := env.tasks.UpdateStatus(ctx, done.ID, user.ID, domain.TaskCompleted); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	n, err := newTestScanner(env, ScannerConfig{}).ScanDueDates(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 reminders, got %d", n)
	}

	byTask := map[string]domain.NotificationType{}
	for _, typ := range []domain.NotificationType{domain.NotificationTaskDue, domain.NotificationTaskOverdue} {
		for _, notification := range env.notificationsOf(user.ID, typ) {
			byTask[notification.TaskID] = typ
		}
	}
	if byTask[dueSoon.ID] != domain.NotificationTaskDue || byTask[edge.ID] != domain.NotificationTaskDue {
		t.Errorf("expected task_due for soon and edge, got %v", byTask)
	}
	if byTask[late.ID] != domain.NotificationTaskOverdue {
		t.Errorf("expected task_overdue for late, got %v", byTask)
	}
	if _, ok := byTask[done.ID]; ok {
		t.Errorf("completed task must not be reminded")
	}
}

func TestScanner_ScanDueDates_NothingToDoSkipsSave(t *testing.T) {
	env := newTestEnv()
	user := env.register("a@example.com")
	now := time.Now().UTC()
	_, _ = env.tasks.Create(context.Background(), taskInput(user.ID, "far", now.Add(72*time.Hour)))
	savesBefore := env.store.saves

	n, err := newTestScanner(env, ScannerConfig{}).ScanDueDates(context.Background(), now)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 reminders, got %d (%v)", n, err)
	}
	if env.store.saves != savesBefore {
		t.Fatalf("expected no save")
	}
}

func TestScanner_ScanDueDates_SuppressRepeats(t *testing.T) {
	env := newTestEnv()
	user := env.register("a@example.com")
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	_, _ = env.tasks.Create(context.Background(), taskInput(user.ID, "report", now.Add(12*time.Hour)))
	log := &memReminderLog{}
	scanner := newTestScanner(env, ScannerConfig{Reminders: log})

	if n, _ := scanner.ScanDueDates(context.Background(), now); n != 1 {
		t.Fatalf("first tick: expected 1, got %d", n)
	}
	if n, _ := scanner.ScanDueDates(context.Background(), now.Add(time.Hour)); n != 0 {
		t.Fatalf("second tick same day: expected 0, got %d", n)
	}
	if len(log.keys) != 1 {
		t.Fatalf("expected one recorded key, got %v", log.keys)
	}

	// The next day the task is overdue: a different reminder type goes out.
	if n, _ := scanner.ScanDueDates(context.Background(), now.Add(24*time.Hour)); n != 1 {
		t.Fatalf("next day: expected 1 overdue reminder, got %d", n)
	}
}

func TestScanner_SendDailySummaries(t *testing.T) {
	env := newTestEnv()
	alice := env.register("alice@example.com")
	bob := env.register("bob@example.com")
	ctx := context.Background()
	end := time.Now().Add(72 * time.Hour)
	_, _ = env.tasks.Create(ctx, taskInput(alice.ID, "one", end))
	two, _ := env.tasks.Create(ctx, taskInput(alice.ID, "two", end))
	_, _ = env.tasks.Create(ctx, taskInput(alice.ID, "three", end))
	_, _ = env.tasks.UpdateStatus(ctx, two.ID, alice.ID, domain.TaskCompleted)

	scanner := newTestScanner(env, ScannerConfig{SummaryHour: 9})

	if n, _ := scanner.SendDailySummaries(ctx, time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)); n != 0 {
		t.Fatalf("outside summary hour: expected 0, got %d", n)
	}

	n, err := scanner.SendDailySummaries(ctx, time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC))
	if err != nil || n != 2 {
		t.Fatalf("expected 2 summaries, got %d (%v)", n, err)
	}

	aliceSummary := env.notificationsOf(alice.ID, domain.NotificationDailySummary)
	if len(aliceSummary) != 1 || aliceSummary[0].Message != "You have 2 pending tasks today." {
		t.Fatalf("unexpected summary for alice: %+v", aliceSummary)
	}
	bobSummary := env.notificationsOf(bob.ID, domain.NotificationDailySummary)
	if len(bobSummary) != 1 || bobSummary[0].Message != "You have no pending tasks today." {
		t.Fatalf("unexpected summary for bob: %+v", bobSummary)
	}
}

func TestScanner_SendDailySummaries_UsesLocation(t *testing.T) {
	env := newTestEnv()
	env.register("alice@example.com")
	zone := time.FixedZone("UTC+3", 3*60*60)
	scanner := newTestScanner(env, ScannerConfig{SummaryHour: 9, Location: zone})

	// 06:00 UTC is 09:00 in UTC+3.
	if n, _ := scanner.SendDailySummaries(context.Background(), time.Date(2026, 5, 10, 6, 0, 0, 0, time.UTC)); n != 1 {
		t.Fatalf("expected summary at local 9 AM, got %d", n)
	}
}

func TestScanner_SendDailySummaries_SuppressRepeats(t *testing.T) {
	env := newTestEnv()
	env.register("alice@example.com")
	scanner := newTestScanner(env, ScannerConfig{SummaryHour: 9, Reminders: &memReminderLog{}})
	at := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	if n, _ := scanner.SendDailySummaries(context.Background(), at); n != 1 {
		t.Fatalf("expected 1 summary, got %d", n)
	}
	if n, _ := scanner.SendDailySummaries(context.Background(), at.Add(30*time.Minute)); n != 0 {
		t.Fatalf("expected repeat to be suppressed, got %d", n)
	}
}

func TestNewScanner_DefaultsSummaryHour(t *testing.T) {
	env := newTestEnv()
	s := NewScanner(env.state, env.notifications, ScannerConfig{SummaryHour: 42}, discardLogger)
	if s.cfg.SummaryHour != 9 {
		t.Fatalf("expected default hour 9, got %d", s.cfg.SummaryHour)
	}
	if s.cfg.Location == nil {
		t.Fatalf("expected default location")
	}
}

func TestRecheckDue_UsesCurrentTask(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	stale := reminder{
		userID: "taskly-001",
		typ:    domain.NotificationTaskDue,
		nctx:   ports.NotificationContext{TaskID: "t1", TaskTitle: "old title", HoursLeft: 20},
	}
	snapWith := func(task domain.Task) *domain.Snapshot {
		task.ID, task.UserID = "t1", "taskly-001"
		return &domain.Snapshot{Tasks: []domain.Task{task}}
	}

	cases := []struct {
		name      string
		snap      *domain.Snapshot
		wantOK    bool
		wantHours float64
	}{
		{"still due", snapWith(domain.Task{Title: "new title", EndAt: now.Add(5 * time.Hour), Status: domain.TaskPending}), true, 5},
		{"moved out of window", snapWith(domain.Task{EndAt: now.Add(48 * time.Hour), Status: domain.TaskPending}), false, 0},
		{"now overdue", snapWith(domain.Task{EndAt: now.Add(-time.Hour), Status: domain.TaskPending}), false, 0},
		{"completed", snapWith(domain.Task{EndAt: now.Add(5 * time.Hour), Status: domain.TaskCompleted}), false, 0},
		{"deleted", &domain.Snapshot{}, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := recheckDue(now)(tc.snap, stale)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if !ok {
				return
			}
			if got.nctx.HoursLeft != tc.wantHours {
				t.Fatalf("expected %v hours left, got %v", tc.wantHours, got.nctx.HoursLeft)
			}
			if got.nctx.TaskTitle != "new title" {
				t.Fatalf("expected refreshed title, got %q", got.nctx.TaskTitle)
			}
		})
	}
}

func TestScanner_Emit_SkipsRescheduledTask(t *testing.T) {
	env := newTestEnv()
	user := env.register("a@example.com")
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	task, _ := env.tasks.Create(context.Background(), taskInput(user.ID, "report", now.Add(48*time.Hour)))
	scanner := newTestScanner(env, ScannerConfig{})

	// Reminder computed while the task was still inside the due window.
	stale := reminder{
		userID: user.ID,
		typ:    domain.NotificationTaskDue,
		nctx:   ports.NotificationContext{TaskID: task.ID, TaskTitle: task.Title, HoursLeft: 3},
	}
	n, err := scanner.emit(context.Background(), []reminder{stale}, recheckDue(now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rescheduled task to be skipped, got %d", n)
	}
	if due := env.notificationsOf(user.ID, domain.NotificationTaskDue); len(due) != 0 {
		t.Fatalf("expected no task_due, got %d", len(due))
	}
}
