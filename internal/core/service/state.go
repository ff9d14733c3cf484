package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
	"github.com/taskly/taskly-api/internal/pkg/metrics"
)

// errNoChange lets an Update callback report that it left the snapshot
// untouched, so nothing is written.
var errNoChange = errors.New("no change")

// State owns the in-memory snapshot. Every read goes through View and every
// mutation through Update; Update persists while still holding the write
// lock, so saves are serialized and never race on the backing store.
type State struct {
	mu    sync.RWMutex
	snap  *domain.Snapshot
	store ports.SnapshotStore
	log   zerolog.Logger
}

// NewState loads the persisted snapshot. A store that is unavailable fails
// startup, since saving an empty state over it would destroy the data. Any
// other load error is logged and the state starts empty.
func NewState(ctx context.Context, store ports.SnapshotStore, log zerolog.Logger) (*State, error) {
	snap, err := store.Load(ctx)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load snapshot, starting with empty state")
		snap = nil
	}
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	snap.Normalize()

	log.Info().
		Int("users", len(snap.Users)).
		Int("tasks", len(snap.Tasks)).
		Int("notifications", len(snap.Notifications)).
		Msg("snapshot loaded")

	return &State{snap: snap, store: store, log: log}, nil
}

// View runs fn with read access to the snapshot. fn must not retain or
// mutate it.
func (s *State) View(fn func(snap *domain.Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.snap)
}

// Update runs fn with exclusive access to the snapshot and then saves it.
// fn must validate before mutating: an error return skips the save but
// does not undo changes already made.
//
// A failed save is logged and counted; the in-memory change is kept.
func (s *State) Update(ctx context.Context, fn func(snap *domain.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.snap); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	if err := s.store.Save(ctx, s.snap); err != nil {
		metrics.SnapshotSavesTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("failed to persist snapshot, in-memory state kept")
		return nil
	}
	metrics.SnapshotSavesTotal.WithLabelValues("ok").Inc()
	return nil
}

// Snapshot returns a deep copy of the current snapshot.
func (s *State) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Ping reports whether the backing store is reachable. Stores that cannot
// be probed are assumed healthy.
func (s *State) Ping(ctx context.Context) error {
	if p, ok := s.store.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
