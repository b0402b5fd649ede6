package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleRunner is a job run once per poll cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context)
}

// PollScheduler runs cycles one after another. The next cycle is due at
// schedule.Next(end of previous cycle), so "@every 10m" means a fixed ten
// minute sleep between cycles and cycles never overlap.
type PollScheduler struct {
	runner   CycleRunner
	schedule cron.Schedule
	logger   *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPollScheduler(runner CycleRunner, spec string, logger *logrus.Logger) (*PollScheduler, error) {
	schedule, err := cron.ParseStandard(spec) // e.g., "@every 10m" or "*/10 * * * *"
	if err != nil {
		return nil, fmt.Errorf("could not parse poll schedule %q: %w", spec, err)
	}
	return &PollScheduler{
		runner:   runner,
		schedule: schedule,
		logger:   logger,
	}, nil
}

// Start launches the poll loop. The first cycle runs immediately.
func (s *PollScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info("Starting poll scheduler...")
	go func() {
		defer close(s.done)
		s.loop(ctx)
	}()
}

func (s *PollScheduler) loop(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		s.logger.Debug("Poll cycle started.")
		s.runner.RunCycle(ctx)

		next := s.schedule.Next(time.Now())
		s.logger.WithField("next_run", next.Format(time.RFC3339)).Debug("Poll cycle finished.")
		timer.Reset(time.Until(next))

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Stop cancels the loop and waits for a running cycle to return.
func (s *PollScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if done == nil {
		return
	}

	s.logger.Info("Stopping poll scheduler...")
	cancel()
	<-done
	s.logger.Info("Poll scheduler gracefully stopped.")
}
