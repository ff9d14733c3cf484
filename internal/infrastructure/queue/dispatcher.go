package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/ports"
	"github.com/taskly/taskly-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// MailDispatcher delivers queued mail on a fixed set of workers so callers
// never wait on the mail server. When the buffer is full new mail is dropped.
type MailDispatcher struct {
	queue  chan ports.Mail
	mailer ports.Mailer
	log    zerolog.Logger

	workers int
	wg      sync.WaitGroup
}

// NewMailDispatcher creates a dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &MailDispatcher{
		queue:   make(chan ports.Mail, channelBuffer),
		mailer:  mailer,
		log:     log,
		workers: numWorkers,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (d *MailDispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands m to a worker without blocking.
func (d *MailDispatcher) Enqueue(m ports.Mail) {
	select {
	case d.queue <- m:
		metrics.MailQueueDepth.Inc()
	default:
		metrics.MailDeliveriesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("to", m.To).Str("subject", m.Subject).Msg("mail queue full, message dropped")
	}
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-d.queue:
			metrics.MailQueueDepth.Dec()
			d.deliver(ctx, id, m)
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, id int, m ports.Mail) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.mailer.Send(sendCtx, m); err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("to", m.To).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailDeliveriesTotal.WithLabelValues("sent").Inc()
}
