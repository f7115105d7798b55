package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/cfg"
	"github.com/lysyi3m/podmeta/app/database"
	"github.com/lysyi3m/podmeta/app/feed"
	"github.com/lysyi3m/podmeta/app/module"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	feedRepo    database.FeedRepository
	itemRepo    database.ItemRepository
	configCache *feed.ConfigCache
	httpClient  *http.Client
	registry    *module.Registry
	filterer    *feed.Filterer
	locale      language.Tag
	userAgent   string
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(configCache *feed.ConfigCache, feedRepo database.FeedRepository,
	itemRepo database.ItemRepository, httpClient *http.Client, registry *module.Registry, filterer *feed.Filterer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		feedRepo:    feedRepo,
		itemRepo:    itemRepo,
		configCache: configCache,
		httpClient:  httpClient,
		registry:    registry,
		filterer:    filterer,
		locale:      cfg.Locale,
		userAgent:   cfg.UserAgent,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) newProcessFeedTask(feedConfig *feed.Config) *ProcessFeedTask {
	return NewProcessFeedTask(feedConfig.Name, feedConfig, s.httpClient, s.registry, s.locale, s.filterer, s.feedRepo, s.itemRepo, s.userAgent)
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	feedConfigs := s.configCache.GetConfigs()
	if len(feedConfigs) == 0 {
		slog.Debug("No feed configurations found")
		return
	}

	slog.Debug("Processing feed configurations", "count", len(feedConfigs))

	for _, feedConfig := range feedConfigs {
		if _, err := s.EnqueueFeed(feedConfig); err != nil {
			slog.Warn("Failed to enqueue feed tasks", "feed", feedConfig.Name, "error", err)
		}
	}
}

// EnqueueFeed queues a config sync for the feed and, when it is enabled, a
// fetch right after it.
func (s *Scheduler) EnqueueFeed(feedConfig *feed.Config) ([]TaskInterface, error) {
	syncTask := NewSyncFeedConfigTask(feedConfig.Name, feedConfig, s.feedRepo)
	if err := s.EnqueueTask(syncTask); err != nil {
		return nil, fmt.Errorf("failed to enqueue SyncFeedConfigTask: %w", err)
	}
	queued := []TaskInterface{syncTask}

	if !feedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping ProcessFeedTask", "feed", feedConfig.Name)
		return queued, nil
	}

	processTask := s.newProcessFeedTask(feedConfig)
	if err := s.EnqueueTask(processTask); err != nil {
		return queued, fmt.Errorf("failed to enqueue ProcessFeedTask: %w", err)
	}
	return append(queued, processTask), nil
}

func (s *Scheduler) enqueueTasks() {
	feedConfigs := s.configCache.GetEnabledConfigs()
	if len(feedConfigs) == 0 {
		slog.Debug("No enabled feed configurations found")
		return
	}

	slog.Debug("Processing enabled feed configurations for task scheduling", "count", len(feedConfigs))

	for _, feedConfig := range feedConfigs {
		feed, err := s.feedRepo.GetFeed(feedConfig.Name)
		if err != nil {
			slog.Warn("Failed to get feed from database, skipping", "feed", feedConfig.Name, "error", err)
			continue
		}
		if feed == nil {
			slog.Warn("Feed not found in database, skipping", "feed", feedConfig.Name)
			continue
		}

		if !isDue(feed, time.Now().UTC()) {
			slog.Debug("Feed not due for refresh yet", "feed", feedConfig.Name, "next_fetch_at", feed.NextFetchAt)
			continue
		}

		if err := s.EnqueueTask(s.newProcessFeedTask(feedConfig)); err != nil {
			slog.Warn("Failed to enqueue ProcessFeedTask", "feed", feedConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", append(task.LogArgs(), "worker_id", workerID, "error", err)...)

	delay, ok := task.NextRetry()
	if !ok {
		slog.Error("Task failed after maximum retries", append(task.LogArgs(), "last_error", err)...)
		return
	}

	slog.Warn("Task retry scheduled", append(task.LogArgs(), "delay", delay.String())...)

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", task.LogArgs()...)
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", append(task.LogArgs(), "error", retryErr)...)
			}
		}
	}()
}

func isDue(feed *database.Feed, now time.Time) bool {
	return feed.NextFetchAt == nil || !feed.NextFetchAt.After(now)
}
