package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/podmeta/app/feed"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("Expected clean migration version 2, got %d (dirty=%v)", version, dirty)
	}
	return db
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	version, _, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected no error on second run, got: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected version 2, got %d", version)
	}
}

func TestFeedRepository(t *testing.T) {
	repo := NewFeedRepository(newTestDB(t))

	if err := repo.UpsertFeed("show", "https://example.com/v1.xml"); err != nil {
		t.Fatalf("Failed to upsert feed: %v", err)
	}
	if err := repo.UpsertFeed("show", "https://example.com/v2.xml"); err != nil {
		t.Fatalf("Failed to update feed: %v", err)
	}

	count, err := repo.GetFeedCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 feed, got %d", count)
	}

	metadata := &feed.Metadata{
		Title:    "Show",
		Language: "en",
		Podcast: &feed.Podcast{
			Show:       feed.Show{Author: "Jane Doe", Explicit: "no", Keywords: []string{"go"}},
			OwnerEmail: "jane@example.com",
			Categories: []feed.Category{{Name: "Technology", Subcategory: "Podcasting"}},
		},
		Location: &feed.Location{Kind: "point", Coordinates: "45.256 -71.92"},
	}
	nextFetch := time.Now().Add(time.Hour)
	if err := repo.UpdateFeedMetadata("show", metadata, nextFetch); err != nil {
		t.Fatalf("Failed to update metadata: %v", err)
	}

	f, err := repo.GetFeed("show")
	if err != nil {
		t.Fatal(err)
	}
	if f == nil {
		t.Fatal("Expected feed to exist")
	}
	if f.FeedURL != "https://example.com/v2.xml" {
		t.Errorf("Expected updated URL, got %s", f.FeedURL)
	}
	if f.Title != "Show" || f.Language != "en" {
		t.Errorf("Expected title 'Show' and language 'en', got %s/%s", f.Title, f.Language)
	}
	if f.Podcast == nil || f.Podcast.Author != "Jane Doe" || f.Podcast.OwnerEmail != "jane@example.com" {
		t.Errorf("Expected podcast metadata to round trip, got %+v", f.Podcast)
	}
	if len(f.Podcast.Categories) != 1 || f.Podcast.Categories[0].Subcategory != "Podcasting" {
		t.Errorf("Expected categories to round trip, got %+v", f.Podcast.Categories)
	}
	if f.Location == nil || f.Location.Coordinates != "45.256 -71.92" {
		t.Errorf("Expected location to round trip, got %+v", f.Location)
	}
	if f.NextFetchAt == nil || f.LastFetchedAt == nil {
		t.Error("Expected fetch times to be set")
	}

	missing, err := repo.GetFeed("missing")
	if err != nil || missing != nil {
		t.Errorf("Expected nil feed without error, got %+v, %v", missing, err)
	}

	if err := repo.UpdateFeedMetadata("missing", metadata, nextFetch); err == nil {
		t.Error("Expected error updating unknown feed")
	}

	feeds, err := repo.GetFeeds()
	if err != nil {
		t.Fatal(err)
	}
	if len(feeds) != 1 || feeds[0].Name != "show" {
		t.Errorf("Expected feed 'show', got %+v", feeds)
	}
}

func TestItemRepository(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedRepository(db)
	repo := NewItemRepository(db)

	if err := feeds.UpsertFeed("show", "https://example.com/feed.xml"); err != nil {
		t.Fatal(err)
	}

	order := 1
	published := time.Date(2023, 2, 1, 10, 0, 0, 0, time.UTC)
	items := []feed.Item{
		{
			GUID:        "episode-1",
			Title:       "Episode 1",
			PublishedAt: published,
			Authors:     []string{"Jane Doe"},
			Episode: &feed.Episode{
				Show:            feed.Show{Explicit: "yes"},
				Duration:        "01:02:03",
				DurationSeconds: 3723,
				Order:           &order,
			},
		},
		{
			GUID:        "episode-2",
			Title:       "Episode 2",
			PublishedAt: published.Add(24 * time.Hour),
			Location:    &feed.Location{Kind: "box", Coordinates: "1 2 3 4"},
		},
		{
			GUID:         "episode-3",
			Title:        "Hidden",
			PublishedAt:  published.Add(48 * time.Hour),
			IsFiltered:   true,
			FilterReason: "Blocked by publisher",
		},
	}

	for _, item := range items {
		if err := repo.UpsertItem("show", item); err != nil {
			t.Fatalf("Failed to upsert item: %v", err)
		}
	}

	items[0].Title = "Episode 1 (updated)"
	if err := repo.UpsertItem("show", items[0]); err != nil {
		t.Fatalf("Failed to update item: %v", err)
	}

	count, err := repo.GetItemCount("show")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("Expected 3 items, got %d", count)
	}

	visible, err := repo.GetVisibleItems("show", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 2 {
		t.Fatalf("Expected 2 visible items, got %d", len(visible))
	}
	if visible[0].GUID != "episode-2" {
		t.Errorf("Expected newest item first, got %s", visible[0].GUID)
	}
	if visible[0].Location == nil || visible[0].Location.Kind != "box" {
		t.Errorf("Expected box location, got %+v", visible[0].Location)
	}

	first := visible[1]
	if first.Title != "Episode 1 (updated)" {
		t.Errorf("Expected updated title, got %s", first.Title)
	}
	if !first.PublishedAt.Equal(published) {
		t.Errorf("Expected published %v, got %v", published, first.PublishedAt)
	}
	if len(first.Authors) != 1 || first.Authors[0] != "Jane Doe" {
		t.Errorf("Expected authors to round trip, got %v", first.Authors)
	}
	if first.Episode == nil || first.Episode.DurationSeconds != 3723 || first.Episode.Explicit != "yes" {
		t.Fatalf("Expected episode to round trip, got %+v", first.Episode)
	}
	if first.Episode.Order == nil || *first.Episode.Order != 1 {
		t.Errorf("Expected order 1, got %v", first.Episode.Order)
	}

	limited, err := repo.GetVisibleItems("show", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d items", len(limited))
	}

	if err := repo.UpsertItem("missing", items[0]); err == nil {
		t.Error("Expected error storing item for unknown feed")
	}
}
