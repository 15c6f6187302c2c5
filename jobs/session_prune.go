package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/chronicle-cms/chronicle/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// SessionStore is the slice of the auth repository the prune job needs.
type SessionStore interface {
	DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionsPruneJob removes session rows whose expiry has passed.
type SessionsPruneJob struct {
	Store   SessionStore
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSessionsPruneJob initialises the prune handler.
func NewSessionsPruneJob(store SessionStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionsPruneJob {
	return &SessionsPruneJob{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the prune logic.
func (j *SessionsPruneJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("sessions prune: handler not configured")
	}
	var payload SessionsPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.GraceHours < 0 {
		payload.GraceHours = 0
	}

	tracker := j.metrics().Track(TaskSessionsPrune)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	cutoff := j.now().Add(-time.Duration(payload.GraceHours) * time.Hour)
	pruned, err := j.Store.DeleteExpiredSessions(ctx, cutoff)
	if err != nil {
		resultErr = err
		j.logger().Error("prune sessions", slog.Any("error", err))
		return resultErr
	}
	j.logger().Info("pruned expired sessions",
		slog.Int64("count", pruned),
		slog.Time("cutoff", cutoff),
	)
	return nil
}

func (j *SessionsPruneJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *SessionsPruneJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *SessionsPruneJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
