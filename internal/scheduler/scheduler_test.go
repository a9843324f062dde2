package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

func TestAddJobRejectsDuplicateNames(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.AddJob(&fakeJob{name: "ingest", schedule: "@hourly"}))

	err := s.AddJob(&fakeJob{name: "ingest", schedule: "@daily"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAddJobRejectsInvalidSchedule(t *testing.T) {
	s := New(testLogger())

	err := s.AddJob(&fakeJob{name: "broken", schedule: "not a cron expression"})
	assert.Error(t, err)
}

func TestJobNames(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "*/10 * * * *"}))

	names := s.JobNames()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "b")
}

func TestRunNowUnknownJob(t *testing.T) {
	s := New(testLogger())

	err := s.RunNow("missing")
	assert.Error(t, err)
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(testLogger())
	s.maxRetries = 0

	job := &fakeJob{name: "once", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.HistoryFor("once")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)

	result := history.Last()
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, job.runs)
}

func TestRunJobRetriesOnFailure(t *testing.T) {
	s := New(testLogger())
	s.maxRetries = 2
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "flaky", schedule: "@hourly", err: assert.AnError}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.HistoryFor("flaky")
	require.NoError(t, err)

	result := history.Last()
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts, "initial run plus two retries")
	assert.NotEmpty(t, result.Error)
}

func TestHistoryKeepsRecentResults(t *testing.T) {
	h := &History{}

	for i := 0; i < historyLimit+25; i++ {
		h.Add(Result{JobName: "x", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
}

func TestHistorySuccessRate(t *testing.T) {
	h := &History{}
	assert.Equal(t, 0.0, h.SuccessRate(), "empty history")

	h.Add(Result{Success: true})
	h.Add(Result{Success: true})
	h.Add(Result{Success: false})
	h.Add(Result{Success: true})

	assert.InDelta(t, 0.75, h.SuccessRate(), 1e-9)
}
