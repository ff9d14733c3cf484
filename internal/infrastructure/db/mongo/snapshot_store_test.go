package mongo

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/taskly/taskly-api/internal/core/domain"
)

func TestNewSnapshotDocument_TruncatesToMilliseconds(t *testing.T) {
	zone := time.FixedZone("UTC-6", -6*60*60)
	created := time.Date(2026, 4, 1, 8, 30, 0, 123456789, zone)
	start := created.Add(time.Hour)
	snap := &domain.Snapshot{
		Users: []domain.User{{ID: "taskly-001", CreatedAt: created}},
		Tasks: []domain.Task{{
			ID: "t1", UserID: "taskly-001", StartAt: &start, EndAt: created,
			Status: domain.TaskPending, CreatedAt: created, UpdatedAt: created,
		}},
		Notifications: []domain.Notification{{ID: "n1", UserID: "taskly-001", CreatedAt: created}},
		UserSeq:       1,
	}

	doc := newSnapshotDocument(snap, created)

	want := time.Date(2026, 4, 1, 14, 30, 0, 123000000, time.UTC)
	for name, got := range map[string]time.Time{
		"user":         doc.Users[0].CreatedAt,
		"task start":   *doc.Tasks[0].StartAt,
		"task end":     doc.Tasks[0].EndAt,
		"task created": doc.Tasks[0].CreatedAt,
		"task updated": doc.Tasks[0].UpdatedAt,
		"notification": doc.Notifications[0].CreatedAt,
		"saved":        doc.SavedAt,
	} {
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}
	if snap.Users[0].CreatedAt.Nanosecond() != 123456789 || *snap.Tasks[0].StartAt != start {
		t.Fatalf("input snapshot must not be modified")
	}
}

func TestSnapshotDocument_BSONRoundTrip(t *testing.T) {
	created := time.Date(2026, 4, 1, 8, 30, 0, 987654321, time.UTC)
	start := created.Add(90 * time.Minute)
	snap := &domain.Snapshot{
		Users: []domain.User{{
			ID:           "taskly-001",
			FullName:     "Alice Doe",
			Email:        "alice@example.com",
			PhoneNumber:  "+15550100",
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			CreatedAt:    created,
		}},
		Tasks: []domain.Task{{
			ID:          "0190f0a0-0000-7000-8000-000000000001",
			UserID:      "taskly-001",
			Title:       "Write report",
			Description: "quarterly numbers",
			StartAt:     &start,
			EndAt:       created.Add(48 * time.Hour),
			Status:      domain.TaskCompleted,
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Minute),
		}},
		Notifications: []domain.Notification{{
			ID:        "0190f0a0-0000-7000-8000-000000000002",
			UserID:    "taskly-001",
			Type:      domain.NotificationTaskCompleted,
			Title:     "Task completed",
			Message:   "Write report is done",
			TaskID:    "0190f0a0-0000-7000-8000-000000000001",
			CreatedAt: created,
		}},
		UserSeq: 1,
	}

	doc := newSnapshotDocument(snap, created)
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got snapshotDocument
	if err := bson.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != snapshotID {
		t.Fatalf("expected _id %q, got %q", snapshotID, got.ID)
	}
	if !reflect.DeepEqual(doc.Snapshot, got.Snapshot) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", doc.Snapshot, got.Snapshot)
	}
	if got.Tasks[0].EndAt.Nanosecond() != 987000000 {
		t.Fatalf("expected millisecond precision, got %d ns", got.Tasks[0].EndAt.Nanosecond())
	}
}
