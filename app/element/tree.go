package element

import (
	"strings"

	"github.com/beevik/etree"
)

type treeElement struct {
	el *etree.Element
}

// FromETree wraps an etree element. Namespace URIs are resolved through the
// xmlns declarations in scope, so the prefix used in the document is irrelevant.
func FromETree(el *etree.Element) Element {
	if el == nil {
		return nil
	}
	return treeElement{el: el}
}

// Root returns the document root wrapped as an Element.
func Root(doc *etree.Document) (Element, bool) {
	if doc == nil || doc.Root() == nil {
		return nil, false
	}
	return FromETree(doc.Root()), true
}

func (t treeElement) Name() string {
	return t.el.Tag
}

func (t treeElement) Namespace() string {
	return t.el.NamespaceURI()
}

func (t treeElement) Child(ns, name string) (Element, bool) {
	for _, c := range t.el.ChildElements() {
		if c.Tag == name && c.NamespaceURI() == ns {
			return treeElement{el: c}, true
		}
	}
	return nil, false
}

func (t treeElement) Children(ns, name string) []Element {
	var out []Element
	for _, c := range t.el.ChildElements() {
		if c.Tag == name && c.NamespaceURI() == ns {
			out = append(out, treeElement{el: c})
		}
	}
	return out
}

func (t treeElement) HasNamespace(ns string) bool {
	for _, c := range t.el.ChildElements() {
		if c.NamespaceURI() == ns {
			return true
		}
	}
	return false
}

func (t treeElement) Attr(name string) (string, bool) {
	for _, a := range t.el.Attr {
		// prefixed attributes belong to another namespace
		if a.Space == "" && a.Key == name {
			return a.Value, true
		}
	}
	return "", false
}

func (t treeElement) Text() string {
	var sb strings.Builder
	for _, tok := range t.el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			sb.WriteString(cd.Data)
		}
	}
	return sb.String()
}

func (t treeElement) InnerText() string {
	var sb strings.Builder
	collectText(&sb, t.el)
	return sb.String()
}

func collectText(sb *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			sb.WriteString(v.Data)
		case *etree.Element:
			collectText(sb, v)
		}
	}
}
