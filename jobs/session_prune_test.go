package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/chronicle-cms/chronicle/internal/jobs"
)

type stubSessionStore struct {
	cutoff time.Time
	pruned int64
	err    error
}

func (s *stubSessionStore) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.pruned, s.err
}

func pruneTask(t *testing.T, payload SessionsPrunePayload) *asynq.Task {
	t.Helper()
	task, err := NewSessionsPruneTask(payload)
	require.NoError(t, err)
	return task
}

func TestSessionsPruneAppliesGrace(t *testing.T) {
	store := &stubSessionStore{pruned: 3}
	job := NewSessionsPruneJob(store, nil, nil)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job.clock = func() time.Time { return now }

	err := job.Handle(context.Background(), pruneTask(t, SessionsPrunePayload{GraceHours: 2}))
	require.NoError(t, err)
	assert.Equal(t, now.Add(-2*time.Hour), store.cutoff)
}

func TestSessionsPrunePropagatesStoreError(t *testing.T) {
	store := &stubSessionStore{err: errors.New("boom")}
	job := NewSessionsPruneJob(store, nil, nil)

	err := job.Handle(context.Background(), pruneTask(t, SessionsPrunePayload{}))
	assert.Error(t, err)
}

func TestSessionsPruneRecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	job := NewSessionsPruneJob(&stubSessionStore{pruned: 1}, nil, jobmetrics.NewMetrics(reg))

	require.NoError(t, job.Handle(context.Background(), pruneTask(t, SessionsPrunePayload{})))

	count, err := testutil.GatherAndCount(reg, "chronicle_jobs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessionsPruneFallsBackToDefaultMetrics(t *testing.T) {
	job := NewSessionsPruneJob(&stubSessionStore{}, nil, nil)
	assert.NotNil(t, job.metrics())
}

func TestSessionsPruneSkipsMalformedPayload(t *testing.T) {
	job := NewSessionsPruneJob(&stubSessionStore{}, nil, nil)
	task := asynq.NewTask(TaskSessionsPrune, []byte("{not json"))

	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
