// Package itunes parses the iTunes podcast namespace
// (http://www.itunes.com/dtds/podcast-1.0.dtd) into typed channel and item
// metadata.
package itunes

import (
	"net/url"
	"time"

	"github.com/sa6mwa/mp3duration"
)

const (
	URI = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	// OldURI is the mixed-case spelling older feeds still declare.
	OldURI = "http://www.itunes.com/DTDs/Podcast-1.0.dtd"
)

// Explicit is the parental advisory flag. The zero value means the feed did
// not say.
type Explicit int

const (
	ExplicitUnspecified Explicit = iota
	ExplicitYes
	ExplicitNo
	ExplicitClean
)

var explicitValues = map[string]Explicit{
	"yes":   ExplicitYes,
	"no":    ExplicitNo,
	"clean": ExplicitClean,
}

func (e Explicit) String() string {
	switch e {
	case ExplicitYes:
		return "yes"
	case ExplicitNo:
		return "no"
	case ExplicitClean:
		return "clean"
	default:
		return ""
	}
}

// ClosedCaptioned marks episodes with embedded captions. The zero value means
// the item did not say.
type ClosedCaptioned int

const (
	ClosedCaptionedUnspecified ClosedCaptioned = iota
	ClosedCaptionedYes
	ClosedCaptionedNo
)

var closedCaptionedValues = map[string]ClosedCaptioned{
	"yes": ClosedCaptionedYes,
	"no":  ClosedCaptionedNo,
}

func (c ClosedCaptioned) String() string {
	switch c {
	case ClosedCaptionedYes:
		return "yes"
	case ClosedCaptionedNo:
		return "no"
	default:
		return ""
	}
}

// Duration is the running time of an episode.
type Duration struct {
	time.Duration
}

// String renders the duration as HH:MM:SS.
func (d Duration) String() string {
	return mp3duration.FormatDuration(d.Duration)
}

// Subcategory is the single nested category level iTunes allows.
type Subcategory struct {
	Name string
}

type Category struct {
	Name        string
	Subcategory *Subcategory
}

// Info holds the fields channel and item metadata share.
type Info struct {
	Author   string
	Block    bool
	Explicit Explicit
	Image    *url.URL
	Keywords []string
	Subtitle string
	Summary  string

	ns string
}

func (i *Info) NamespaceURI() string {
	if i.ns == "" {
		return URI
	}
	return i.ns
}

// Common returns the shared fields.
func (i *Info) Common() *Info {
	return i
}

// Metadata is either *FeedInformation or *EntryInformation.
type Metadata interface {
	NamespaceURI() string
	Common() *Info
	isMetadata()
}

// FeedInformation is the channel-level metadata.
type FeedInformation struct {
	Info
	OwnerName         string
	OwnerEmailAddress string
	NewFeedURL        *url.URL
	Categories        []Category
	Complete          bool
}

func (*FeedInformation) isMetadata() {}

// EntryInformation is the item-level metadata. Order is nil when the item
// carries no usable ordering hint.
type EntryInformation struct {
	Info
	Duration        *Duration
	ClosedCaptioned ClosedCaptioned
	Order           *int
}

func (*EntryInformation) isMetadata() {}
