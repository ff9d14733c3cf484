package memory

import (
	"context"
	"sync"
	"time"
)

const defaultTTL = 48 * time.Hour

// ReminderLog is a process-local reminder log used when Redis is not
// configured. Entries older than the TTL are pruned on Mark.
type ReminderLog struct {
	mu   sync.Mutex
	keys map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewReminderLog() *ReminderLog {
	return &ReminderLog{keys: make(map[string]time.Time), ttl: defaultTTL, now: time.Now}
}

func (l *ReminderLog) Seen(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	at, ok := l.keys[key]
	return ok && l.now().Sub(at) < l.ttl, nil
}

func (l *ReminderLog) Mark(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, at := range l.keys {
		if now.Sub(at) >= l.ttl {
			delete(l.keys, k)
		}
	}
	l.keys[key] = now
	return nil
}
