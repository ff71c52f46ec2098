package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

type TaskType string

const (
	// TaskTypeCollectSource fetches a source, normalizes the new events and stores them.
	TaskTypeCollectSource TaskType = "collect_source"
	// TaskTypeRenormalizeSource re-runs the date engine over a source's stored raw dates.
	TaskTypeRenormalizeSource TaskType = "renormalize_source"
	// TaskTypeSyncSourceConfig mirrors a source YAML file into the sources table.
	TaskTypeSyncSourceConfig TaskType = "sync_source_config"
)

const DefaultMaxRetries = 3

// taskLimits are the retry budget and execution timeout of each task type.
var taskLimits = map[TaskType]struct {
	maxRetries int
	timeout    time.Duration
}{
	TaskTypeCollectSource:     {maxRetries: DefaultMaxRetries, timeout: 5 * time.Minute},
	TaskTypeRenormalizeSource: {maxRetries: 1, timeout: 2 * time.Minute},
	TaskTypeSyncSourceConfig:  {maxRetries: 2, timeout: 30 * time.Second},
}

const defaultTaskTimeout = 5 * time.Minute

var taskSeq atomic.Uint64

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSourceName() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Timeout() time.Duration
	Start()
	GetDuration() time.Duration
}

// Task carries the bookkeeping shared by all source tasks. Concrete tasks
// embed it and add Execute.
type Task struct {
	ID         string
	Type       TaskType
	SourceName string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSourceName() string {
	return t.SourceName
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

// Timeout bounds one execution attempt.
func (t *Task) Timeout() time.Duration {
	if limits, ok := taskLimits[t.Type]; ok {
		return limits.timeout
	}
	return defaultTaskTimeout
}

// Start marks the beginning of an attempt; retries restart the clock.
func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

// NewTask builds the bookkeeping for a task on sourceName. IDs read like
// "collect_source/forte#42" so log lines can be followed per source.
func NewTask(taskType TaskType, sourceName string) Task {
	maxRetries := DefaultMaxRetries
	if limits, ok := taskLimits[taskType]; ok {
		maxRetries = limits.maxRetries
	}

	return Task{
		ID:         fmt.Sprintf("%s/%s#%d", taskType, sourceName, taskSeq.Add(1)),
		Type:       taskType,
		SourceName: sourceName,
		MaxRetries: maxRetries,
	}
}
