package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/database"
	"github.com/lysyi3m/podmeta/app/feed"
	"github.com/lysyi3m/podmeta/app/module"
)

// maxFeedSize bounds how much of a response body is read.
const maxFeedSize = 20 << 20

type ProcessFeedTask struct {
	Task
	FeedConfig *feed.Config
	httpClient *http.Client
	parser     *feed.Parser
	filterer   *feed.Filterer
	feedRepo   database.FeedRepository
	itemRepo   database.ItemRepository
	userAgent  string
}

// NewProcessFeedTask parses the feed with the feed's own locale, or locale
// when the feed does not set one.
func NewProcessFeedTask(feedName string, feedConfig *feed.Config, httpClient *http.Client, registry *module.Registry, locale language.Tag, filterer *feed.Filterer, feedRepo database.FeedRepository, itemRepo database.ItemRepository, userAgent string) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:       NewTask(TaskTypeProcessFeed, feedName),
		FeedConfig: feedConfig,
		httpClient: httpClient,
		parser:     feed.NewParser(registry, feedConfig.Language(locale)),
		filterer:   filterer,
		feedRepo:   feedRepo,
		itemRepo:   itemRepo,
		userAgent:  userAgent,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedName)
		return nil
	}

	data, err := t.fetchFeed(ctx, t.FeedConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	metadata, items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	nextFetch := time.Now().UTC().Add(time.Duration(t.FeedConfig.Settings.RefreshInterval) * time.Second)
	if err := t.feedRepo.UpdateFeedMetadata(t.FeedName, metadata, nextFetch); err != nil {
		return fmt.Errorf("failed to store feed metadata: %w", err)
	}

	filteredCount := 0
	for _, item := range t.filterer.Run(items, t.FeedConfig) {
		if item.IsFiltered {
			filteredCount++
		}
		if err := t.itemRepo.UpsertItem(t.FeedName, item); err != nil {
			return fmt.Errorf("failed to store item %s: %w", item.GUID, err)
		}
	}

	slog.Info("Task completed",
		"type", "ProcessFeed",
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"podcast", metadata.Podcast != nil,
		"total", len(items),
		"filtered", filteredCount)

	return nil
}

func (t *ProcessFeedTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.FeedConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
