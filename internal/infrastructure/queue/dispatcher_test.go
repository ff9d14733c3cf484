package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.Mail
	err  error
	done chan struct{}
}

func newRecordingMailer(expected int, err error) *recordingMailer {
	return &recordingMailer{err: err, done: make(chan struct{}, expected)}
}

func (m *recordingMailer) Send(_ context.Context, mail ports.Mail) error {
	m.mu.Lock()
	m.sent = append(m.sent, mail)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func TestMailDispatcher_DeliversQueuedMail(t *testing.T) {
	mailer := newRecordingMailer(3, nil)
	d := NewMailDispatcher(2, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, to := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		d.Enqueue(ports.Mail{To: to, Subject: "hi"})
	}
	waitFor(t, mailer.done, 3)

	cancel()
	d.Wait()

	if len(mailer.sent) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(mailer.sent))
	}
}

func TestMailDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	mailer := newRecordingMailer(2, errors.New("smtp down"))
	d := NewMailDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.Mail{To: "a@x.io"})
	d.Enqueue(ports.Mail{To: "b@x.io"})
	waitFor(t, mailer.done, 2)
}

func TestMailDispatcher_EnqueueDropsWhenFull(t *testing.T) {
	mailer := newRecordingMailer(channelBuffer+1, nil)
	d := NewMailDispatcher(1, mailer, zerolog.Nop())

	// No workers started, so the buffer fills up.
	for i := 0; i < channelBuffer+5; i++ {
		d.Enqueue(ports.Mail{To: "a@x.io"})
	}
	if got := len(d.queue); got != channelBuffer {
		t.Fatalf("expected queue capped at %d, got %d", channelBuffer, got)
	}
}
