package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/podmeta/app/feed"
)

const feedColumns = `id, name, feed_url, link, title, description, image_url, language,
	feed_published_at, last_fetched_at, next_fetch_at, podcast,
	location_kind, location_coordinates, created_at, updated_at`

type FeedRepo struct {
	db *DB
}

func NewFeedRepository(db *DB) *FeedRepo {
	return &FeedRepo{db: db}
}

// UpsertFeed registers a configured feed or updates its URL.
func (r *FeedRepo) UpsertFeed(feedName, feedURL string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`
		INSERT INTO feeds (id, name, feed_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			feed_url = excluded.feed_url,
			updated_at = excluded.updated_at
	`, uuid.NewString(), feedName, feedURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}
	return nil
}

// UpdateFeedMetadata stores what the latest successful fetch parsed.
func (r *FeedRepo) UpdateFeedMetadata(feedName string, metadata *feed.Metadata, nextFetch time.Time) error {
	podcast, err := toJSON(metadata.Podcast, metadata.Podcast == nil)
	if err != nil {
		return err
	}

	var locationKind, locationCoordinates string
	if metadata.Location != nil {
		locationKind, locationCoordinates = metadata.Location.Kind, metadata.Location.Coordinates
	}

	now := time.Now().UTC()
	result, err := r.db.Exec(`
		UPDATE feeds SET
			link = ?, title = ?, description = ?, image_url = ?, language = ?,
			feed_published_at = ?, podcast = ?,
			location_kind = ?, location_coordinates = ?,
			last_fetched_at = ?, next_fetch_at = ?, updated_at = ?
		WHERE name = ?
	`, metadata.Link, metadata.Title, metadata.Description, metadata.ImageURL, metadata.Language,
		metadata.FeedPublishedAt, podcast,
		locationKind, locationCoordinates,
		now, nextFetch.UTC(), now,
		feedName)
	if err != nil {
		return fmt.Errorf("failed to update feed metadata: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated feed: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("feed '%s' not found", feedName)
	}
	return nil
}

// GetFeed returns nil when no feed with that name is registered.
func (r *FeedRepo) GetFeed(feedName string) (*Feed, error) {
	f, err := scanFeed(r.db.QueryRow(`SELECT `+feedColumns+` FROM feeds WHERE name = ?`, feedName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return f, nil
}

func (r *FeedRepo) GetFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`SELECT ` + feedColumns + ` FROM feeds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}
	return feeds, nil
}

func (r *FeedRepo) GetFeedCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM feeds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var (
		f                                 Feed
		published, lastFetched, nextFetch sql.NullTime
		podcast                           sql.NullString
		locationKind, locationCoordinates string
	)

	err := row.Scan(
		&f.ID, &f.Name, &f.FeedURL, &f.Link, &f.Title, &f.Description, &f.ImageURL, &f.Language,
		&published, &lastFetched, &nextFetch, &podcast,
		&locationKind, &locationCoordinates, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.FeedPublishedAt = nullTime(published)
	f.LastFetchedAt = nullTime(lastFetched)
	f.NextFetchAt = nullTime(nextFetch)
	f.Location = location(locationKind, locationCoordinates)

	if podcast.Valid {
		f.Podcast = &feed.Podcast{}
		if err := fromJSON(podcast, f.Podcast); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func location(kind, coordinates string) *feed.Location {
	if kind == "" {
		return nil
	}
	return &feed.Location{Kind: kind, Coordinates: coordinates}
}
