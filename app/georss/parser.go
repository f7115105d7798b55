package georss

import (
	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/element"
	"github.com/lysyi3m/podmeta/app/extract"
	"github.com/lysyi3m/podmeta/app/module"
)

const URI = "http://www.georss.org/georss"

var _ module.Parser = Parser{}

// Where is the location attached to a feed or an entry.
type Where struct {
	Geometry Geometry
}

func (*Where) NamespaceURI() string { return URI }

type Parser struct {
	ns string
}

func NewParser() Parser {
	return Parser{ns: URI}
}

func (p Parser) NamespaceURI() string {
	return p.ns
}

// Parse returns the first point, line, polygon or box found on el. Text that
// does not encode a valid shape is reported to diag and skipped.
func (p Parser) Parse(el element.Element, _ language.Tag, diag *extract.Diagnostics) (module.Module, error) {
	for _, kind := range kinds {
		child, ok := el.Child(p.ns, kind)
		if !ok {
			continue
		}
		g, err := Parse(kind, child.Text())
		if err != nil {
			diag.Report(kind, child.Text(), err)
			continue
		}
		return &Where{Geometry: g}, nil
	}
	return nil, nil
}
