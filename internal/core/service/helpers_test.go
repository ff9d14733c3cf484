package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubSnapshotStore struct {
	mu      sync.Mutex
	initial *domain.Snapshot
	loadErr error
	saveErr error
	saves   int
	last    *domain.Snapshot
}

func (s *stubSnapshotStore) Load(_ context.Context) (*domain.Snapshot, error) {
	if s.loadErr != nil {
		return domain.NewSnapshot(), s.loadErr
	}
	if s.initial == nil {
		return domain.NewSnapshot(), nil
	}
	return s.initial.Clone(), nil
}

func (s *stubSnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.last = snap.Clone()
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool      { return h == "hashed:"+p }

type stubTokens struct {
	lastClaims ports.TokenClaims
	lastTTL    time.Duration
}

func (s *stubTokens) Issue(c ports.TokenClaims, ttl time.Duration) (string, time.Time, error) {
	s.lastClaims = c
	s.lastTTL = ttl
	return "token-" + c.UserID, time.Now().Add(ttl), nil
}

func (s *stubTokens) Verify(string) (*ports.TokenClaims, error) {
	c := s.lastClaims
	return &c, nil
}

type stubMailQueue struct {
	sent []ports.Mail
}

func (q *stubMailQueue) Enqueue(m ports.Mail) { q.sent = append(q.sent, m) }

type memReminderLog struct {
	keys map[string]bool
}

func (l *memReminderLog) Seen(_ context.Context, key string) (bool, error) {
	return l.keys[key], nil
}

func (l *memReminderLog) Mark(_ context.Context, key string) error {
	if l.keys == nil {
		l.keys = map[string]bool{}
	}
	l.keys[key] = true
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func mustNewState(store ports.SnapshotStore) *State {
	state, err := NewState(context.Background(), store, discardLogger)
	if err != nil {
		panic(err)
	}
	return state
}

type testEnv struct {
	store         *stubSnapshotStore
	state         *State
	notifications *NotificationService
	tasks         *TaskService
	auth          *AuthService
	tokens        *stubTokens
	mail          *stubMailQueue
}

func newTestEnv() *testEnv {
	return newTestEnvWithStore(&stubSnapshotStore{})
}

func newTestEnvWithStore(store *stubSnapshotStore) *testEnv {
	state := mustNewState(store)
	notifications := NewNotificationService(state, discardLogger)
	tokens := &stubTokens{}
	mail := &stubMailQueue{}
	return &testEnv{
		store:         store,
		state:         state,
		notifications: notifications,
		tasks:         NewTaskService(state, notifications, discardLogger),
		auth:          NewAuthService(state, plainHasher{}, tokens, notifications, mail, discardLogger),
		tokens:        tokens,
		mail:          mail,
	}
}

func (e *testEnv) register(email string) *domain.User {
	u, err := e.auth.Register(context.Background(), ports.RegisterInput{
		FullName: "User " + email,
		Email:    email,
		Password: "secret",
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (e *testEnv) notificationsOf(userID string, typ domain.NotificationType) []domain.Notification {
	var out []domain.Notification
	for _, n := range e.state.Snapshot().Notifications {
		if n.UserID == userID && n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func taskInput(userID, title string, end time.Time) ports.CreateTaskInput {
	return ports.CreateTaskInput{UserID: userID, Title: title, EndAt: end}
}
