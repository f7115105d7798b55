package tasks

import "github.com/lysyi3m/podmeta/app/feed"

// TaskSchedulerInterface is the worker pool main drives: feeds are synced
// and processed in the background until Stop is called.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueFeed(feedConfig *feed.Config) ([]TaskInterface, error)
}
