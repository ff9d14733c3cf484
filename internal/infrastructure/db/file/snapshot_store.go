package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// SnapshotStore persists the snapshot as one indented JSON document.
type SnapshotStore struct {
	path     string
	now      func() time.Time
	readFile func(string) ([]byte, error)
	rename   func(oldpath, newpath string) error
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path, now: time.Now, readFile: os.ReadFile, rename: os.Rename}
}

// Load reads the snapshot. A missing file yields an empty snapshot. A file
// that fails to parse is moved aside to <path>.corrupt-<unix> and an empty
// snapshot is returned together with a persistence error.
//
// Any other read failure, or a corrupt file that cannot be moved aside,
// returns ErrStoreUnavailable and no snapshot: the file is still in place
// and must not be overwritten.
func (s *SnapshotStore) Load(_ context.Context) (*domain.Snapshot, error) {
	raw, err := s.readFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}

	snap := domain.NewSnapshot()
	if err := json.Unmarshal(raw, snap); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
		if renameErr := s.rename(s.path, aside); renameErr != nil {
			return nil, fmt.Errorf("%w: parse %s: %v (could not move aside: %v)", domain.ErrStoreUnavailable, s.path, err, renameErr)
		}
		return domain.NewSnapshot(), fmt.Errorf("%w: parse %s: %v (moved to %s)", domain.ErrPersistence, s.path, err, aside)
	}
	snap.Normalize()
	return snap, nil
}

// Save writes the snapshot to a temp file in the target directory and
// renames it over the target, so readers never see a half-written file.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", domain.ErrPersistence, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write snapshot: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync snapshot: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close snapshot: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", domain.ErrPersistence, s.path, err)
	}
	return nil
}

// Ping reports whether the snapshot directory is usable.
func (s *SnapshotStore) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrPersistence, filepath.Dir(s.path))
	}
	return nil
}
