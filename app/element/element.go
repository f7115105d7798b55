// Package element exposes a read-only, namespace-scoped view over an already
// parsed XML element tree. Module parsers only ever see this interface, so the
// host is free to build the tree with whichever XML library it prefers.
package element

// Element is one node of a parsed document.
//
// Lookups are scoped by namespace URI: a child with the right local name but a
// different namespace is never returned. Children come back in document order.
type Element interface {
	// Name is the local name of the element (no prefix).
	Name() string
	// Namespace is the resolved namespace URI of the element.
	Namespace() string
	// Child returns the first child with the given namespace URI and local name.
	Child(ns, name string) (Element, bool)
	// Children returns every child with the given namespace URI and local name.
	Children(ns, name string) []Element
	// HasNamespace reports whether at least one direct child lives in ns.
	HasNamespace(ns string) bool
	// Attr returns the value of an unqualified attribute.
	Attr(name string) (string, bool)
	// Text is the concatenated character data directly under the element.
	Text() string
	// InnerText is the concatenated character data of the element and all of
	// its descendants, in document order.
	InnerText() string
}
