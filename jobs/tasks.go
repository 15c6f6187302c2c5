// Package jobs defines the background tasks processed by the worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionsPrune removes expired session records.
	TaskSessionsPrune = "sessions:prune"
)

// SessionsPrunePayload parameterises a session prune run.
type SessionsPrunePayload struct {
	// GraceHours keeps sessions around for this long past expiry so a
	// recently expired session can still be inspected.
	GraceHours int `json:"grace_hours"`
}

// NewSessionsPruneTask constructs an Asynq task.
func NewSessionsPruneTask(payload SessionsPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionsPrune, data), nil
}
