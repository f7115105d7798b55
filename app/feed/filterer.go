package feed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// filterFields lists the item fields a feed filter may match against.
var filterFields = map[string]func(Item) string{
	"title":       func(i Item) string { return i.Title },
	"description": func(i Item) string { return i.Description },
	"categories":  func(i Item) string { return strings.Join(i.Categories, " ") },
	"authors": func(i Item) string {
		authors := strings.Join(i.Authors, " ")
		if i.Episode != nil && i.Episode.Author != "" {
			authors += " " + i.Episode.Author
		}
		return authors
	},
	"keywords": func(i Item) string { return episodeField(i, func(e *Episode) string { return strings.Join(e.Keywords, ",") }) },
	"subtitle": func(i Item) string { return episodeField(i, func(e *Episode) string { return e.Subtitle }) },
	"summary":  func(i Item) string { return episodeField(i, func(e *Episode) string { return e.Summary }) },
	"explicit": func(i Item) string { return episodeField(i, func(e *Episode) string { return e.Explicit }) },
}

func episodeField(item Item, get func(*Episode) string) string {
	if item.Episode == nil {
		return ""
	}
	return get(item.Episode)
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run marks items hidden from clients. Episodes carrying itunes:block are
// always hidden; the feed's filters decide the rest.
func (f *Filterer) Run(items []Item, feedConfig *Config) []Item {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		item.IsFiltered, item.FilterReason = f.applyFilters(item, feedConfig.Filters)
		filtered = append(filtered, item)
	}
	return filtered
}

func (f *Filterer) applyFilters(item Item, filters []ConfigFilter) (bool, string) {
	if item.Episode != nil && item.Episode.Block {
		return true, "Blocked by publisher"
	}

	for _, filter := range filters {
		get, ok := filterFields[filter.Field]
		if !ok {
			continue
		}
		value := get(item)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 && !f.matchesAny(value, filter.Includes) {
			return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
		}
	}

	return false, ""
}

func (f *Filterer) matchesAny(value string, patterns []string) bool {
	for _, pattern := range patterns {
		if f.matchesFilter(value, pattern) {
			return true
		}
	}
	return false
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(value), fold.String(pattern))
}
