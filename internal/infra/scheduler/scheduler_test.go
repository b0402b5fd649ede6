package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type afterSchedule time.Duration

func (d afterSchedule) Next(t time.Time) time.Time { return t.Add(time.Duration(d)) }

type countingRunner struct {
	mu      sync.Mutex
	runs    int
	active  int
	overlap bool
	block   chan struct{}
}

func (r *countingRunner) RunCycle(ctx context.Context) {
	r.mu.Lock()
	r.runs++
	r.active++
	if r.active > 1 {
		r.overlap = true
	}
	block := r.block
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	} else {
		time.Sleep(2 * time.Millisecond)
	}

	r.mu.Lock()
	r.active--
	r.mu.Unlock()
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewPollSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewPollScheduler(&countingRunner{}, "every ten minutes", quietLogger())
	assert.Error(t, err)
}

func TestNewPollSchedulerEveryIsFixedDelay(t *testing.T) {
	s, err := NewPollScheduler(&countingRunner{}, "@every 10m", quietLogger())
	require.NoError(t, err)

	end := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, end.Add(10*time.Minute), s.schedule.Next(end))
	_, ok := s.schedule.(cron.ConstantDelaySchedule)
	assert.True(t, ok)
}

func TestPollSchedulerRunsCyclesSequentially(t *testing.T) {
	runner := &countingRunner{}
	s := &PollScheduler{runner: runner, schedule: afterSchedule(time.Millisecond), logger: quietLogger()}

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runner.count() >= 5 }, 2*time.Second, time.Millisecond)
	s.Stop()

	after := runner.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runner.count())
	assert.False(t, runner.overlap)
}

func TestPollSchedulerStopWaitsForRunningCycle(t *testing.T) {
	runner := &countingRunner{block: make(chan struct{})}
	s := &PollScheduler{runner: runner, schedule: afterSchedule(time.Hour), logger: quietLogger()}

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after cancelling the running cycle")
	}
	assert.Equal(t, 1, runner.count())
}

func TestPollSchedulerStopWithoutStart(t *testing.T) {
	s := &PollScheduler{runner: &countingRunner{}, schedule: afterSchedule(time.Hour), logger: quietLogger()}
	assert.NotPanics(t, s.Stop)
}
