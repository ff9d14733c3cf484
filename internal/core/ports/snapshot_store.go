package ports

import (
	"context"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// SnapshotStore persists the whole snapshot as one unit.
type SnapshotStore interface {
	// Load returns the persisted snapshot. A store with no prior state returns
	// an empty snapshot and a nil error. State that was discarded (for example
	// a corrupt file moved aside) returns an empty snapshot together with an
	// error wrapping domain.ErrPersistence. State that exists but cannot be
	// read returns an error wrapping domain.ErrStoreUnavailable.
	Load(ctx context.Context) (*domain.Snapshot, error)
	// Save overwrites the persisted state with s.
	Save(ctx context.Context, s *domain.Snapshot) error
}

// Pinger is implemented by stores and clients that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReminderLog remembers which reminders were already sent. It is only
// consulted when repeat suppression is enabled.
type ReminderLog interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}
