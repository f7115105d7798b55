package database

import (
	"time"

	"github.com/lysyi3m/podmeta/app/feed"
)

type FeedRepository interface {
	GetFeed(feedName string) (*Feed, error)
	GetFeeds() ([]Feed, error)
	GetFeedCount() (int, error)

	UpsertFeed(feedName, feedURL string) error
	UpdateFeedMetadata(feedName string, metadata *feed.Metadata, nextFetch time.Time) error
}

type ItemRepository interface {
	GetVisibleItems(feedName string, limit int) ([]Item, error)
	GetItemCount(feedName string) (int, error)

	UpsertItem(feedName string, item feed.Item) error
}
