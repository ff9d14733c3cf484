package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/pkg/metrics"
)

// Job is a unit of periodic work. Run receives the tick time.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context, now time.Time) error
}

// Scheduler runs jobs on their own tickers. Each job runs once immediately
// on Start and then on every tick until the context is cancelled.
type Scheduler struct {
	jobs []Job
	log  zerolog.Logger
	now  func() time.Time
	wg   sync.WaitGroup
}

func NewScheduler(log zerolog.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, log: log, now: time.Now}
}

// Start launches one goroutine per job.
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

// Wait blocks until every job loop has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	defer s.wg.Done()

	interval := j.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.runOnce(ctx, j)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, j)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, j Job) {
	runCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := s.now()
	err := j.Run(runCtx, start)
	metrics.JobDuration.WithLabelValues(j.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		s.log.Error().Err(err).Str("job", j.Name).Msg("scheduled job failed")
		return
	}
	s.log.Debug().Str("job", j.Name).Msg("scheduled job finished")
}
