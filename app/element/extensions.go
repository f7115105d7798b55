package element

import (
	"slices"
	"strings"

	ext "github.com/mmcdole/gofeed/extensions"
)

// DefaultPrefixes maps namespace URIs to the map keys gofeed files their
// extension elements under.
var DefaultPrefixes = map[string]string{
	"http://www.itunes.com/dtds/podcast-1.0.dtd": "itunes",
	"http://www.georss.org/georss":               "georss",
}

// extRoot stands in for the channel or item element that carried the
// extensions. gofeed keeps only the extension children, keyed by prefix.
type extRoot struct {
	name     string
	exts     ext.Extensions
	prefixes map[string]string
}

// extNode is one gofeed extension element. gofeed drops the namespace of
// nested elements, so children inherit the namespace of their parent.
type extNode struct {
	ns string
	e  ext.Extension
}

// FromExtensions builds an Element named name whose children are the gofeed
// extension elements in exts. prefixes maps namespace URIs to gofeed's prefix
// keys; nil means DefaultPrefixes. A URI missing from the map is looked up
// under its own text.
func FromExtensions(name string, exts ext.Extensions, prefixes map[string]string) Element {
	if prefixes == nil {
		prefixes = DefaultPrefixes
	}
	return extRoot{name: name, exts: exts, prefixes: prefixes}
}

func (r extRoot) prefix(ns string) string {
	if p, ok := r.prefixes[ns]; ok {
		return p
	}
	return ns
}

func (r extRoot) Name() string      { return r.name }
func (r extRoot) Namespace() string { return "" }

func (r extRoot) Child(ns, name string) (Element, bool) {
	els := r.exts[r.prefix(ns)][name]
	if len(els) == 0 {
		return nil, false
	}
	return extNode{ns: ns, e: els[0]}, true
}

func (r extRoot) Children(ns, name string) []Element {
	return wrap(ns, r.exts[r.prefix(ns)][name])
}

func (r extRoot) HasNamespace(ns string) bool {
	return len(r.exts[r.prefix(ns)]) > 0
}

func (r extRoot) Attr(string) (string, bool) { return "", false }
func (r extRoot) Text() string               { return "" }
func (r extRoot) InnerText() string          { return "" }

func (n extNode) Name() string      { return n.e.Name }
func (n extNode) Namespace() string { return n.ns }

func (n extNode) Child(ns, name string) (Element, bool) {
	if ns != n.ns {
		return nil, false
	}
	els := n.e.Children[name]
	if len(els) == 0 {
		return nil, false
	}
	return extNode{ns: ns, e: els[0]}, true
}

func (n extNode) Children(ns, name string) []Element {
	if ns != n.ns {
		return nil
	}
	return wrap(ns, n.e.Children[name])
}

func (n extNode) HasNamespace(ns string) bool {
	return ns == n.ns && len(n.e.Children) > 0
}

func (n extNode) Attr(name string) (string, bool) {
	v, ok := n.e.Attrs[name]
	return v, ok
}

func (n extNode) Text() string {
	return n.e.Value
}

// InnerText appends the children's text after the element's own text. gofeed
// does not keep sibling order across names, so children are visited by name.
func (n extNode) InnerText() string {
	var sb strings.Builder
	collectExtText(&sb, n.e)
	return sb.String()
}

func collectExtText(sb *strings.Builder, e ext.Extension) {
	sb.WriteString(e.Value)
	names := make([]string, 0, len(e.Children))
	for name := range e.Children {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, c := range e.Children[name] {
			collectExtText(sb, c)
		}
	}
}

func wrap(ns string, els []ext.Extension) []Element {
	if len(els) == 0 {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, e := range els {
		out = append(out, extNode{ns: ns, e: e})
	}
	return out
}
