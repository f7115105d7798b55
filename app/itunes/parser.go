package itunes

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/element"
	"github.com/lysyi3m/podmeta/app/extract"
	"github.com/lysyi3m/podmeta/app/module"
)

var _ module.Parser = Parser{}

// Parser is stateless apart from the namespace it is bound to and can be
// shared between goroutines.
type Parser struct {
	ns string
}

func NewParser() Parser {
	return Parser{ns: URI}
}

// NewParserForNamespace binds the parser to an alternative namespace URI,
// such as OldURI.
func NewParserForNamespace(ns string) Parser {
	return Parser{ns: ns}
}

func (p Parser) NamespaceURI() string {
	return p.ns
}

// Parse extracts channel metadata from a "channel" element and item metadata
// from an "item" element. Any other element yields a nil module. The locale
// is not used.
//
// Malformed URLs leave their field unset and are reported to diag. A
// malformed integer leaves its field unset silently. An unknown explicit or isClosedCaptioned value, or an unreadable
// duration, fails the whole call.
func (p Parser) Parse(el element.Element, _ language.Tag, diag *extract.Diagnostics) (module.Module, error) {
	var (
		m    Metadata
		info *Info
	)

	switch el.Name() {
	case "channel":
		feed := &FeedInformation{}
		p.parseChannel(el, feed, diag)
		m, info = feed, &feed.Info
	case "item":
		entry := &EntryInformation{}
		if err := p.parseItem(el, entry); err != nil {
			return nil, err
		}
		m, info = entry, &entry.Info
	default:
		return nil, nil
	}

	info.ns = p.ns
	if err := p.parseCommon(el, info, diag); err != nil {
		return nil, err
	}
	return m, nil
}

func (p Parser) parseChannel(el element.Element, feed *FeedInformation, diag *extract.Diagnostics) {
	if owner, ok := el.Child(p.ns, "owner"); ok {
		if name, ok := owner.Child(p.ns, "name"); ok {
			feed.OwnerName = strings.TrimSpace(name.InnerText())
		}
		if email, ok := owner.Child(p.ns, "email"); ok {
			feed.OwnerEmailAddress = strings.TrimSpace(email.InnerText())
		}
	}

	if newFeedURL, ok := el.Child(p.ns, "new-feed-url"); ok {
		if u, ok := extract.URL("new-feed-url", newFeedURL.Text(), diag); ok {
			feed.NewFeedURL = u
		}
	}

	for _, c := range el.Children(p.ns, "category") {
		text, ok := c.Attr("text")
		if !ok {
			continue
		}
		cat := Category{Name: strings.TrimSpace(text)}
		if sub, ok := c.Child(p.ns, "category"); ok {
			if subText, ok := sub.Attr("text"); ok {
				cat.Subcategory = &Subcategory{Name: strings.TrimSpace(subText)}
			}
		}
		feed.Categories = append(feed.Categories, cat)
	}

	if complete, ok := el.Child(p.ns, "complete"); ok {
		feed.Complete = extract.Flag(complete.Text())
	}
}

func (p Parser) parseItem(el element.Element, entry *EntryInformation) error {
	if duration, ok := el.Child(p.ns, "duration"); ok {
		d, err := extract.Duration(duration.InnerText())
		if err != nil {
			return err
		}
		entry.Duration = &Duration{Duration: d}
	}

	if cc, ok := el.Child(p.ns, "isClosedCaptioned"); ok {
		v, err := extract.Enum("isClosedCaptioned", cc.Text(), closedCaptionedValues)
		if err != nil {
			return err
		}
		entry.ClosedCaptioned = v
	}

	if order, ok := el.Child(p.ns, "order"); ok {
		if n, ok := extract.Int(order.Text()); ok {
			entry.Order = &n
		}
	}
	return nil
}

func (p Parser) parseCommon(el element.Element, info *Info, diag *extract.Diagnostics) error {
	if author, ok := el.Child(p.ns, "author"); ok {
		info.Author = author.Text()
	}

	if block, ok := el.Child(p.ns, "block"); ok {
		info.Block = extract.Flag(block.Text())
	}

	if explicit, ok := el.Child(p.ns, "explicit"); ok {
		v, err := extract.Enum("explicit", explicit.Text(), explicitValues)
		if err != nil {
			return err
		}
		info.Explicit = v
	}

	if image, ok := el.Child(p.ns, "image"); ok {
		if href, ok := image.Attr("href"); ok {
			if u, ok := extract.URL("image", href, diag); ok {
				info.Image = u
			}
		}
	}

	if keywords, ok := el.Child(p.ns, "keywords"); ok {
		info.Keywords = extract.Tokens(strings.TrimSpace(keywords.InnerText()))
	}

	if subtitle, ok := el.Child(p.ns, "subtitle"); ok {
		info.Subtitle = strings.TrimSpace(subtitle.Text())
	}

	if summary, ok := el.Child(p.ns, "summary"); ok {
		info.Summary = strings.TrimSpace(summary.Text())
	}
	return nil
}
