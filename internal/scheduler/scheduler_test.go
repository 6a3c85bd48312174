package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	calls    atomic.Int32
	run      func(ctx context.Context, call int32) error
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if j.run == nil {
		return nil
	}
	return j.run(ctx, n)
}

func newTestScheduler() *Scheduler {
	return New(logger.Nop(), time.UTC, WithRetry(2, time.Millisecond))
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "daily_index", schedule: "0 30 17 * * 1-5"}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate names are rejected")
	assert.Equal(t, []string{"daily_index"}, s.GetAllJobs())

	err := s.AddJob(&stubJob{name: "bad", schedule: "not a cron"})
	assert.Error(t, err)
}

func TestNextRun_BeforeStart(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&stubJob{name: "daily_index", schedule: "0 30 17 * * *"}))

	next, err := s.NextRun("daily_index")
	require.NoError(t, err)
	assert.False(t, next.IsZero())
	assert.Equal(t, 17, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.True(t, next.After(time.Now()))

	_, err = s.NextRun("missing")
	assert.Error(t, err)
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunJob_RetriesTransientFailures(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "flaky", schedule: "@daily", run: func(_ context.Context, call int32) error {
		if call < 3 {
			return errors.New("upstream timeout")
		}
		return nil
	}}
	require.NoError(t, s.AddJob(job))

	result := s.runJob(job)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)

	history, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	assert.Len(t, history.Results, 1)
}

func TestRunJob_PermanentFailureIsNotRetried(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "rejected", schedule: "@daily", run: func(context.Context, int32) error {
		return Permanent(errors.New("date rejected"))
	}}
	require.NoError(t, s.AddJob(job))

	result := s.runJob(job)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "date rejected", result.Error)

	stats := s.GetJobStats()["rejected"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunJob_NoOverlap(t *testing.T) {
	s := newTestScheduler()
	started := make(chan struct{})
	release := make(chan struct{})
	job := &stubJob{name: "slow", schedule: "@daily", run: func(context.Context, int32) error {
		close(started)
		<-release
		return nil
	}}
	require.NoError(t, s.AddJob(job))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runJob(job)
	}()
	<-started

	assert.Nil(t, s.runJob(job), "second run is skipped while the first is in progress")
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), job.calls.Load())
}

func TestPermanent(t *testing.T) {
	base := errors.New("boom")
	err := Permanent(base)

	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsPermanent(base))
	assert.Nil(t, Permanent(nil))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
	assert.Empty(t, (&JobHistory{}).GetLatestResults(5))
}
