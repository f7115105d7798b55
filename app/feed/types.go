package feed

import (
	"time"
)

// Feed processing types

type Metadata struct {
	Title           string     `yaml:"title" json:"title"`
	Link            string     `yaml:"link,omitempty" json:"link,omitempty"`
	Description     string     `yaml:"description,omitempty" json:"description,omitempty"`
	ImageURL        string     `yaml:"image_url,omitempty" json:"image_url,omitempty"`
	Language        string     `yaml:"language,omitempty" json:"language,omitempty"`
	FeedPublishedAt *time.Time `yaml:"published_at,omitempty" json:"published_at,omitempty"`
	Podcast         *Podcast   `yaml:"podcast,omitempty" json:"podcast,omitempty"`
	Location        *Location  `yaml:"location,omitempty" json:"location,omitempty"`
}

type Item struct {
	GUID        string     `yaml:"guid" json:"guid"`
	Title       string     `yaml:"title" json:"title"`
	Link        string     `yaml:"link,omitempty" json:"link,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	PublishedAt time.Time  `yaml:"published_at" json:"published_at"`
	UpdatedAt   *time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
	Authors     []string   `yaml:"authors,omitempty" json:"authors,omitempty"` // "email (name)" or "name"
	Categories  []string   `yaml:"categories,omitempty" json:"categories,omitempty"`

	EnclosureURL    string `yaml:"enclosure_url,omitempty" json:"enclosure_url,omitempty"`
	EnclosureLength int64  `yaml:"enclosure_length,omitempty" json:"enclosure_length,omitempty"`
	EnclosureType   string `yaml:"enclosure_type,omitempty" json:"enclosure_type,omitempty"`

	Episode  *Episode  `yaml:"episode,omitempty" json:"episode,omitempty"`
	Location *Location `yaml:"location,omitempty" json:"location,omitempty"`

	IsFiltered   bool   `yaml:"-" json:"-"`
	FilterReason string `yaml:"-" json:"-"`
}

// Show holds the iTunes fields channels and episodes share.
type Show struct {
	Author   string   `yaml:"author,omitempty" json:"author,omitempty"`
	Block    bool     `yaml:"block,omitempty" json:"block,omitempty"`
	Explicit string   `yaml:"explicit,omitempty" json:"explicit,omitempty"`
	ImageURL string   `yaml:"image_url,omitempty" json:"image_url,omitempty"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Subtitle string   `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Summary  string   `yaml:"summary,omitempty" json:"summary,omitempty"`
}

type Podcast struct {
	Show       `yaml:",inline"`
	OwnerName  string     `yaml:"owner_name,omitempty" json:"owner_name,omitempty"`
	OwnerEmail string     `yaml:"owner_email,omitempty" json:"owner_email,omitempty"`
	NewFeedURL string     `yaml:"new_feed_url,omitempty" json:"new_feed_url,omitempty"`
	Categories []Category `yaml:"categories,omitempty" json:"categories,omitempty"`
	Complete   bool       `yaml:"complete,omitempty" json:"complete,omitempty"`
}

type Category struct {
	Name        string `yaml:"name" json:"name"`
	Subcategory string `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
}

type Episode struct {
	Show            `yaml:",inline"`
	Duration        string `yaml:"duration,omitempty" json:"duration,omitempty"` // HH:MM:SS
	DurationSeconds int64  `yaml:"-" json:"duration_seconds,omitempty"`
	ClosedCaptioned string `yaml:"closed_captioned,omitempty" json:"closed_captioned,omitempty"`
	Order           *int   `yaml:"order,omitempty" json:"order,omitempty"`
}

// Location is a GeoRSS-Simple geometry in its text form.
type Location struct {
	Kind        string `yaml:"kind" json:"kind"`
	Coordinates string `yaml:"coordinates" json:"coordinates"`
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled         bool   `yaml:"enabled"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	MaxItems        int    `yaml:"max_items"`
	Timeout         int    `yaml:"timeout"` // seconds
	Locale          string `yaml:"locale"`  // BCP 47 tag, empty uses the server default
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
