package memory

import (
	"context"
	"testing"
	"time"
)

func TestReminderLog_SeenAfterMark(t *testing.T) {
	l := NewReminderLog()
	ctx := context.Background()

	if seen, _ := l.Seen(ctx, "reminder:task_due:t1:2026-05-10"); seen {
		t.Fatalf("unexpected hit before mark")
	}
	if err := l.Mark(ctx, "reminder:task_due:t1:2026-05-10"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if seen, _ := l.Seen(ctx, "reminder:task_due:t1:2026-05-10"); !seen {
		t.Fatalf("expected hit after mark")
	}
	if seen, _ := l.Seen(ctx, "reminder:task_due:t2:2026-05-10"); seen {
		t.Fatalf("unexpected hit for other key")
	}
}

func TestReminderLog_Expires(t *testing.T) {
	l := NewReminderLog()
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_ = l.Mark(ctx, "old")
	now = now.Add(defaultTTL)

	if seen, _ := l.Seen(ctx, "old"); seen {
		t.Fatalf("expected entry to expire")
	}
	_ = l.Mark(ctx, "new")
	if _, ok := l.keys["old"]; ok {
		t.Fatalf("expected expired entry to be pruned")
	}
}
