package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "taskly:"
	reminderTTL = 48 * time.Hour
)

// ReminderLog records sent reminders in Redis so repeats can be skipped
// across restarts and replicas. Keys expire after reminderTTL.
type ReminderLog struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReminderLog creates a ReminderLog wrapping the given Redis client.
func NewReminderLog(client *redis.Client) *ReminderLog {
	return &ReminderLog{client: client, ttl: reminderTTL}
}

// Seen reports whether key has been marked.
func (l *ReminderLog) Seen(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("reminder lookup: %w", err)
	}
	return n > 0, nil
}

// Mark records key.
func (l *ReminderLog) Mark(ctx context.Context, key string) error {
	if err := l.client.Set(ctx, keyPrefix+key, "1", l.ttl).Err(); err != nil {
		return fmt.Errorf("reminder mark: %w", err)
	}
	return nil
}

// Ping checks the Redis server is reachable.
func (l *ReminderLog) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
