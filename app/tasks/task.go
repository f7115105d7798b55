package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeProcessFeed    TaskType = "process_feed"
	TaskTypeSyncFeedConfig TaskType = "sync_feed_config"
)

const (
	DefaultMaxRetries = 3
	maxRetryDelay     = 30 * time.Second
)

// TaskInterface is a unit of work bound to a single feed.
type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetFeedName() string
	Start()
	GetDuration() time.Duration
	NextRetry() (time.Duration, bool)
	LogArgs() []any
}

// Task carries the bookkeeping shared by every feed task. Concrete tasks
// embed it and supply Execute.
type Task struct {
	ID         string
	Type       TaskType
	FeedName   string
	Retries    int
	MaxRetries int
	StartedAt  *time.Time
}

func NewTask(taskType TaskType, feedName string) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		FeedName:   feedName,
		MaxRetries: DefaultMaxRetries,
	}
}

func (t *Task) GetID() string       { return t.ID }
func (t *Task) GetType() TaskType   { return t.Type }
func (t *Task) GetFeedName() string { return t.FeedName }

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

// NextRetry books another attempt and returns how long to wait before it.
// The wait doubles from one second and is capped at maxRetryDelay. Once
// MaxRetries attempts are booked it returns false and leaves the count alone.
func (t *Task) NextRetry() (time.Duration, bool) {
	if t.Retries >= t.MaxRetries {
		return 0, false
	}
	t.Retries++
	return retryDelay(t.Retries), true
}

// LogArgs returns the key/value pairs identifying the task in log lines.
func (t *Task) LogArgs() []any {
	return []any{
		"type", string(t.Type),
		"id", t.ID,
		"feed", t.FeedName,
		"retry_count", t.Retries,
		"max_retries", t.MaxRetries,
	}
}

func retryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		return time.Second
	}
	if retryCount > 6 {
		return maxRetryDelay
	}
	return min(time.Duration(1<<uint(retryCount-1))*time.Second, maxRetryDelay)
}
