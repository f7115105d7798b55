package database

import (
	"time"

	"github.com/lysyi3m/podmeta/app/feed"
)

type Feed struct {
	ID              string // Database UUID
	Name            string // Configuration feed identifier derived from filename
	FeedURL         string
	Link            string
	Title           string
	Description     string
	ImageURL        string
	Language        string
	FeedPublishedAt *time.Time
	LastFetchedAt   *time.Time
	NextFetchAt     *time.Time
	Podcast         *feed.Podcast
	Location        *feed.Location
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Item struct {
	ID              string
	FeedID          string
	GUID            string
	Link            string
	Title           string
	Description     string
	PublishedAt     time.Time
	UpdatedAt       *time.Time
	Authors         []string
	Categories      []string
	EnclosureURL    string
	EnclosureLength int64
	EnclosureType   string
	Episode         *feed.Episode
	Location        *feed.Location
	IsFiltered      bool
	FilterReason    string
	CreatedAt       time.Time
}
