package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskly/taskly-api/internal/core/domain"
)

const (
	collectionSnapshots = "snapshots"
	snapshotID          = "taskly"
)

// snapshotDocument stores the whole snapshot as a single document.
type snapshotDocument struct {
	ID              string    `bson:"_id"`
	domain.Snapshot `bson:",inline"`
	SavedAt         time.Time `bson:"saved_at"`
}

// newSnapshotDocument copies snap with every timestamp in UTC at millisecond
// precision, the resolution of a BSON datetime, so a reload compares equal
// to what was saved.
func newSnapshotDocument(snap *domain.Snapshot, savedAt time.Time) snapshotDocument {
	c := snap.Clone()
	for i := range c.Users {
		c.Users[i].CreatedAt = bsonTime(c.Users[i].CreatedAt)
	}
	for i := range c.Tasks {
		t := &c.Tasks[i]
		if t.StartAt != nil {
			start := bsonTime(*t.StartAt)
			t.StartAt = &start
		}
		t.EndAt = bsonTime(t.EndAt)
		t.CreatedAt = bsonTime(t.CreatedAt)
		t.UpdatedAt = bsonTime(t.UpdatedAt)
	}
	for i := range c.Notifications {
		c.Notifications[i].CreatedAt = bsonTime(c.Notifications[i].CreatedAt)
	}
	return snapshotDocument{ID: snapshotID, Snapshot: *c, SavedAt: bsonTime(savedAt)}
}

func bsonTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// SnapshotStore persists the snapshot in MongoDB. Each save replaces the
// single snapshot document.
type SnapshotStore struct {
	col *mongo.Collection
}

func NewSnapshotStore(db *mongo.Database) *SnapshotStore {
	return &SnapshotStore{col: db.Collection(collectionSnapshots)}
}

// Load fetches the snapshot document. No document yields an empty snapshot;
// any other failure is ErrStoreUnavailable so startup does not proceed on
// an empty state that would replace the stored document.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc snapshotDocument
	err := s.col.FindOne(ctx, bson.M{"_id": snapshotID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("%w: load snapshot: %v", domain.ErrStoreUnavailable, err)
	}

	snap := doc.Snapshot
	snap.Normalize()
	return &snap, nil
}

// Save replaces the snapshot document, creating it on first save. Times are
// stored with millisecond precision.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newSnapshotDocument(snap, time.Now())
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": snapshotID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: save snapshot: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Ping checks the MongoDB deployment is reachable.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}
