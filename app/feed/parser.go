package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/mmcdole/gofeed"
	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/element"
	"github.com/lysyi3m/podmeta/app/extract"
	"github.com/lysyi3m/podmeta/app/georss"
	"github.com/lysyi3m/podmeta/app/itunes"
	"github.com/lysyi3m/podmeta/app/module"
)

const (
	rss1NS = "http://purl.org/rss/1.0/"
	atomNS = "http://www.w3.org/2005/Atom"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	registry     *module.Registry
	locale       language.Tag
}

// NewRegistry returns the module parsers every feed is run through.
func NewRegistry() (*module.Registry, error) {
	return module.NewRegistry(
		itunes.NewParser(),
		itunes.NewParserForNamespace(itunes.OldURI),
		georss.NewParser(),
	)
}

func NewParser(registry *module.Registry, locale language.Tag) *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		registry:     registry,
		locale:       locale,
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}

	if feed.PublishedParsed != nil {
		metadata.FeedPublishedAt = feed.PublishedParsed
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, p.normalizeItem(item))
	}

	if err := p.attachModules(data, feed, metadata, items); err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed modules: %w", err)
	}

	return metadata, items, nil
}

func (p *Parser) attachModules(data []byte, feed *gofeed.Feed, metadata *Metadata, items []Item) error {
	container, entries := p.moduleElements(data, feed)

	var diag extract.Diagnostics
	defer func() {
		for _, d := range diag.Items() {
			slog.Debug("Ignored malformed module value", "feed", metadata.Title, "field", d.Field, "value", d.Value, "error", d.Err)
		}
	}()

	modules, err := p.registry.Parse(container, p.locale, &diag)
	if err != nil {
		return err
	}
	if info, ok := lookup[*itunes.FeedInformation](modules); ok {
		metadata.Podcast = podcastFrom(info)
	}
	metadata.Location = locationFrom(modules)

	for i, entry := range entries {
		modules, err := p.registry.Parse(entry, p.locale, &diag)
		if err != nil {
			return fmt.Errorf("item %d (%s): %w", i, items[i].GUID, err)
		}
		if info, ok := lookup[*itunes.EntryInformation](modules); ok {
			items[i].Episode = episodeFrom(info)
		}
		items[i].Location = locationFrom(modules)
	}
	return nil
}

// moduleElements prefers a strict, fully namespace-aware tree. Documents
// etree cannot read (bad markup, non UTF-8 charsets) fall back to the
// extension tree gofeed already built.
func (p *Parser) moduleElements(data []byte, feed *gofeed.Feed) (element.Element, []element.Element) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		slog.Debug("Using gofeed extensions for modules", "feed", feed.Title, "reason", err)
		return extensionElements(feed)
	}

	container, entries, ok := locateElements(doc)
	if !ok || len(entries) != len(feed.Items) {
		slog.Debug("Using gofeed extensions for modules", "feed", feed.Title, "reason", "document shape mismatch")
		return extensionElements(feed)
	}
	return container, entries
}

func locateElements(doc *etree.Document) (element.Element, []element.Element, bool) {
	root, ok := element.Root(doc)
	if !ok {
		return nil, nil, false
	}

	switch root.Name() {
	case "rss":
		channel, ok := root.Child("", "channel")
		if !ok {
			return nil, nil, false
		}
		return channel, channel.Children("", "item"), true
	case "RDF":
		channel, ok := root.Child(rss1NS, "channel")
		if !ok {
			return nil, nil, false
		}
		return channel, root.Children(rss1NS, "item"), true
	case "feed":
		return root, root.Children(atomNS, "entry"), true
	}
	return nil, nil, false
}

func extensionElements(feed *gofeed.Feed) (element.Element, []element.Element) {
	containerName, entryName := "channel", "item"
	if feed.FeedType == "atom" {
		containerName, entryName = "feed", "entry"
	}

	entries := make([]element.Element, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, element.FromExtensions(entryName, item.Extensions, nil))
	}
	return element.FromExtensions(containerName, feed.Extensions, nil), entries
}

// lookup finds the iTunes module under either namespace spelling.
func lookup[T itunes.Metadata](modules module.Modules) (T, bool) {
	for _, uri := range []string{itunes.URI, itunes.OldURI} {
		if m, ok := modules[uri].(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func showFrom(info *itunes.Info) Show {
	return Show{
		Author:   info.Author,
		Block:    info.Block,
		Explicit: info.Explicit.String(),
		ImageURL: urlString(info.Image),
		Keywords: info.Keywords,
		Subtitle: info.Subtitle,
		Summary:  info.Summary,
	}
}

func podcastFrom(info *itunes.FeedInformation) *Podcast {
	podcast := &Podcast{
		Show:       showFrom(info.Common()),
		OwnerName:  info.OwnerName,
		OwnerEmail: info.OwnerEmailAddress,
		NewFeedURL: urlString(info.NewFeedURL),
		Complete:   info.Complete,
	}
	for _, c := range info.Categories {
		category := Category{Name: c.Name}
		if c.Subcategory != nil {
			category.Subcategory = c.Subcategory.Name
		}
		podcast.Categories = append(podcast.Categories, category)
	}
	return podcast
}

func episodeFrom(info *itunes.EntryInformation) *Episode {
	episode := &Episode{
		Show:            showFrom(info.Common()),
		ClosedCaptioned: info.ClosedCaptioned.String(),
		Order:           info.Order,
	}
	if info.Duration != nil {
		episode.Duration = info.Duration.String()
		episode.DurationSeconds = int64(info.Duration.Seconds())
	}
	return episode
}

func locationFrom(modules module.Modules) *Location {
	where, ok := modules[georss.URI].(*georss.Where)
	if !ok {
		return nil
	}
	kind, text, err := georss.Format(where.Geometry)
	if err != nil {
		slog.Debug("Skipping unsupported geometry", "error", err)
		return nil
	}
	return &Location{Kind: kind, Coordinates: text}
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		GUID:        cmp.Or(item.GUID, item.Link),
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
	}

	if item.PublishedParsed != nil {
		normalized.PublishedAt = *item.PublishedParsed
	}

	if item.UpdatedParsed != nil {
		normalized.UpdatedAt = item.UpdatedParsed
	}

	normalized.Authors = p.extractAuthors(item)

	if item.Categories != nil {
		normalized.Categories = item.Categories
	}

	// RSS 2.0 allows a single enclosure per item
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enclosure := item.Enclosures[0]
		normalized.EnclosureURL = enclosure.URL
		normalized.EnclosureType = enclosure.Type

		if enclosure.Length != "" {
			if length, err := strconv.ParseInt(enclosure.Length, 10, 64); err == nil {
				normalized.EnclosureLength = length
			}
		}
	}

	return normalized
}

func (p *Parser) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				if s := p.formatAuthor(author.Name, author.Email); s != "" {
					authors = append(authors, s)
				}
			}
		}
	} else if item.Author != nil {
		if s := p.formatAuthor(item.Author.Name, item.Author.Email); s != "" {
			authors = append(authors, s)
		}
	}

	return authors
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s (%s)", email, name)
	case name != "":
		return name
	default:
		return email
	}
}
