package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex_bot/config"
)

func testConfig(intervalMin int, spec string) *config.Config {
	cfg := &config.Config{}
	cfg.Scheduler.IntervalMin = intervalMin
	cfg.Scheduler.Cron = spec
	return cfg
}

func TestScheduleSpec(t *testing.T) {
	assert.Equal(t, "@every 30m", ScheduleSpec(testConfig(0, "")))
	assert.Equal(t, "@every 5m", ScheduleSpec(testConfig(5, "")))
	assert.Equal(t, "*/10 * * * *", ScheduleSpec(testConfig(5, " */10 * * * * ")))
}

func TestNewScheduler_InvalidCron(t *testing.T) {
	_, err := NewScheduler(testConfig(0, "not a cron"), func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunsImmediatelyThenWaits(t *testing.T) {
	var calls atomic.Int32
	s, err := NewScheduler(testConfig(60, ""), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	s.checkInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Status().Runs == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	status := s.Status()
	assert.False(t, status.IsRunning)
	assert.WithinDuration(t, time.Now().Add(time.Hour), status.NextRun, time.Minute)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_SkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	s, err := NewScheduler(testConfig(1, ""), func(context.Context) error {
		calls.Add(1)
		<-release
		return errors.New("search failed")
	})
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()
	s.checkTasks(ctx, now)
	s.checkTasks(ctx, now.Add(time.Hour))
	s.checkTasks(ctx, now.Add(2*time.Hour))
	assert.True(t, s.Status().IsRunning)

	close(release)
	s.wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "search failed", s.Status().LastError)
	assert.False(t, s.Status().IsRunning)
}

func TestScheduler_CancelledContextStartsNothing(t *testing.T) {
	var calls atomic.Int32
	s, err := NewScheduler(testConfig(1, ""), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.checkTasks(ctx, time.Now())
	s.wg.Wait()
	assert.Equal(t, int32(0), calls.Load())
}
