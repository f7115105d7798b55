package api

import (
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/database"
	"github.com/lysyi3m/podmeta/app/feed"
	"github.com/lysyi3m/podmeta/app/module"
	"github.com/lysyi3m/podmeta/app/tasks"
)

// maxParseBody bounds feeds posted to the parse endpoint.
const maxParseBody = 20 << 20

func NewHandler(configCache *feed.ConfigCache, feedRepo database.FeedRepository,
	itemRepo database.ItemRepository, registry *module.Registry, locale language.Tag,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		feedRepo:    feedRepo,
		itemRepo:    itemRepo,
		configCache: configCache,
		registry:    registry,
		locale:      locale,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp":             time.Now().In(time.Local).Format(time.RFC3339),
		"loaded_configurations": h.configCache.GetConfigCount(),
		"namespaces":            h.registry.NamespaceURIs(),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListFeeds(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	feeds := make([]FeedSummary, 0, len(configs))
	for _, feedConfig := range configs {
		summary := FeedSummary{
			Name:    feedConfig.Name,
			URL:     feedConfig.URL,
			Enabled: feedConfig.Settings.Enabled,
		}

		if f, err := h.feedRepo.GetFeed(feedConfig.Name); err == nil && f != nil {
			summary.Title = f.Title
			summary.Podcast = f.Podcast != nil
			summary.LastFetchedAt = f.LastFetchedAt
			summary.NextFetchAt = f.NextFetchAt
		}

		if itemCount, err := h.itemRepo.GetItemCount(feedConfig.Name); err == nil {
			summary.ItemCount = itemCount
		}

		feeds = append(feeds, summary)
	}

	slices.SortFunc(feeds, func(a, b FeedSummary) int { return strings.Compare(a.Name, b.Name) })

	c.JSON(http.StatusOK, gin.H{
		"feeds": feeds,
		"total": len(feeds),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")

	feedConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	f, err := h.feedRepo.GetFeed(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found in database"})
		return
	}

	items, err := h.itemRepo.GetVisibleItems(name, feedConfig.Settings.MaxItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	details := FeedDetails{
		Name:          f.Name,
		URL:           f.FeedURL,
		Title:         f.Title,
		Link:          f.Link,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		Language:      f.Language,
		PublishedAt:   f.FeedPublishedAt,
		LastFetchedAt: f.LastFetchedAt,
		Podcast:       f.Podcast,
		Location:      f.Location,
		Episodes:      make([]Episode, 0, len(items)),
	}
	for _, item := range items {
		details.Episodes = append(details.Episodes, newEpisode(item))
	}

	c.JSON(http.StatusOK, details)
}

// APIParseFeed parses a posted feed document without storing it. The
// locale query parameter overrides the server default.
func (h *Handler) APIParseFeed(c *gin.Context) {
	locale := h.locale
	if raw := c.Query("locale"); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid locale", "details": err.Error()})
			return
		}
		locale = tag
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxParseBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty request body"})
		return
	}

	metadata, items, err := feed.NewParser(h.registry, locale).Run(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to parse feed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{Metadata: metadata, Items: items})
}

// APIReloadFeed rereads a feed's configuration and queues a fresh fetch.
func (h *Handler) APIReloadFeed(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	feedConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	queued, err := h.scheduler.EnqueueFeed(feedConfig)
	if err != nil {
		slog.Error("Error enqueueing feed tasks", "feed", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue feed tasks",
			"details": err.Error(),
		})
		return
	}

	taskInfo := make([]gin.H, 0, len(queued))
	for _, task := range queued {
		taskInfo = append(taskInfo, gin.H{"id": task.GetID(), "type": task.GetType()})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"feed": gin.H{
			"name":    name,
			"url":     feedConfig.URL,
			"enabled": feedConfig.Settings.Enabled,
		},
		"tasks": taskInfo,
	})
}
