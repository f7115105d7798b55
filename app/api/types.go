package api

import (
	"time"

	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/database"
	"github.com/lysyi3m/podmeta/app/feed"
	"github.com/lysyi3m/podmeta/app/module"
	"github.com/lysyi3m/podmeta/app/tasks"
)

type Handler struct {
	feedRepo    database.FeedRepository
	itemRepo    database.ItemRepository
	configCache *feed.ConfigCache
	registry    *module.Registry
	locale      language.Tag
	scheduler   tasks.TaskSchedulerInterface
}

type FeedSummary struct {
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Enabled       bool       `json:"enabled"`
	Title         string     `json:"title"`
	Podcast       bool       `json:"podcast"`
	ItemCount     int        `json:"item_count"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	NextFetchAt   *time.Time `json:"next_fetch_at,omitempty"`
}

type FeedDetails struct {
	Name          string         `json:"name"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	Link          string         `json:"link,omitempty"`
	Description   string         `json:"description,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	Language      string         `json:"language,omitempty"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
	LastFetchedAt *time.Time     `json:"last_fetched_at,omitempty"`
	Podcast       *feed.Podcast  `json:"podcast,omitempty"`
	Location      *feed.Location `json:"location,omitempty"`
	Episodes      []Episode      `json:"episodes"`
}

type Episode struct {
	GUID            string         `json:"guid"`
	Title           string         `json:"title"`
	Link            string         `json:"link,omitempty"`
	PublishedAt     time.Time      `json:"published_at"`
	Authors         []string       `json:"authors,omitempty"`
	EnclosureURL    string         `json:"enclosure_url,omitempty"`
	EnclosureType   string         `json:"enclosure_type,omitempty"`
	EnclosureLength int64          `json:"enclosure_length,omitempty"`
	Episode         *feed.Episode  `json:"itunes,omitempty"`
	Location        *feed.Location `json:"location,omitempty"`
}

type ParseResponse struct {
	Metadata *feed.Metadata `json:"metadata"`
	Items    []feed.Item    `json:"items"`
}

func newEpisode(item database.Item) Episode {
	return Episode{
		GUID:            item.GUID,
		Title:           item.Title,
		Link:            item.Link,
		PublishedAt:     item.PublishedAt,
		Authors:         item.Authors,
		EnclosureURL:    item.EnclosureURL,
		EnclosureType:   item.EnclosureType,
		EnclosureLength: item.EnclosureLength,
		Episode:         item.Episode,
		Location:        item.Location,
	}
}
