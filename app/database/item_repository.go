package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/podmeta/app/feed"
)

type ItemRepo struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// UpsertItem stores item under the named feed, keyed by its GUID.
func (r *ItemRepo) UpsertItem(feedName string, item feed.Item) error {
	authors, err := toJSON(item.Authors, len(item.Authors) == 0)
	if err != nil {
		return err
	}
	categories, err := toJSON(item.Categories, len(item.Categories) == 0)
	if err != nil {
		return err
	}
	episode, err := toJSON(item.Episode, item.Episode == nil)
	if err != nil {
		return err
	}

	var (
		durationSeconds                   sql.NullInt64
		explicit                          string
		locationKind, locationCoordinates string
	)
	if item.Episode != nil {
		explicit = item.Episode.Explicit
		if item.Episode.Duration != "" {
			durationSeconds = sql.NullInt64{Int64: item.Episode.DurationSeconds, Valid: true}
		}
	}
	if item.Location != nil {
		locationKind, locationCoordinates = item.Location.Kind, item.Location.Coordinates
	}

	result, err := r.db.Exec(`
		INSERT INTO items (
			id, feed_id, guid, link, title, description,
			published_at, updated_at, authors, categories,
			enclosure_url, enclosure_length, enclosure_type,
			episode, duration_seconds, explicit,
			location_kind, location_coordinates,
			is_filtered, filter_reason, created_at
		)
		SELECT ?, id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM feeds WHERE name = ?
		ON CONFLICT (feed_id, guid) DO UPDATE SET
			link = excluded.link,
			title = excluded.title,
			description = excluded.description,
			published_at = excluded.published_at,
			updated_at = excluded.updated_at,
			authors = excluded.authors,
			categories = excluded.categories,
			enclosure_url = excluded.enclosure_url,
			enclosure_length = excluded.enclosure_length,
			enclosure_type = excluded.enclosure_type,
			episode = excluded.episode,
			duration_seconds = excluded.duration_seconds,
			explicit = excluded.explicit,
			location_kind = excluded.location_kind,
			location_coordinates = excluded.location_coordinates,
			is_filtered = excluded.is_filtered,
			filter_reason = excluded.filter_reason
	`, uuid.NewString(), item.GUID, item.Link, item.Title, item.Description,
		item.PublishedAt.UTC(), item.UpdatedAt, authors, categories,
		item.EnclosureURL, item.EnclosureLength, item.EnclosureType,
		episode, durationSeconds, explicit,
		locationKind, locationCoordinates,
		item.IsFiltered, item.FilterReason, time.Now().UTC(),
		feedName)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check upserted item: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("feed '%s' not found", feedName)
	}
	return nil
}

// GetVisibleItems returns the newest unfiltered items of a feed.
func (r *ItemRepo) GetVisibleItems(feedName string, limit int) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT i.id, i.feed_id, i.guid, i.link, i.title, i.description,
		       i.published_at, i.updated_at, i.authors, i.categories,
		       i.enclosure_url, i.enclosure_length, i.enclosure_type,
		       i.episode, i.location_kind, i.location_coordinates,
		       i.is_filtered, i.filter_reason, i.created_at
		FROM items i
		JOIN feeds f ON f.id = i.feed_id
		WHERE f.name = ? AND i.is_filtered = FALSE
		ORDER BY i.published_at DESC
		LIMIT ?
	`, feedName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

func (r *ItemRepo) GetItemCount(feedName string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM items i
		JOIN feeds f ON f.id = i.feed_id
		WHERE f.name = ?
	`, feedName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item                              Item
		updated                           sql.NullTime
		authors, categories, episode      sql.NullString
		locationKind, locationCoordinates string
	)

	err := row.Scan(
		&item.ID, &item.FeedID, &item.GUID, &item.Link, &item.Title, &item.Description,
		&item.PublishedAt, &updated, &authors, &categories,
		&item.EnclosureURL, &item.EnclosureLength, &item.EnclosureType,
		&episode, &locationKind, &locationCoordinates,
		&item.IsFiltered, &item.FilterReason, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.UpdatedAt = nullTime(updated)
	item.Location = location(locationKind, locationCoordinates)

	if err := fromJSON(authors, &item.Authors); err != nil {
		return nil, err
	}
	if err := fromJSON(categories, &item.Categories); err != nil {
		return nil, err
	}
	if episode.Valid {
		item.Episode = &feed.Episode{}
		if err := fromJSON(episode, item.Episode); err != nil {
			return nil, err
		}
	}
	return &item, nil
}
