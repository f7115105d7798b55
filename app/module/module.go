// Package module routes parsed elements to the namespace parsers registered
// for them.
package module

import (
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/element"
	"github.com/lysyi3m/podmeta/app/extract"
)

// Module is the typed metadata one namespace parser extracted from an element.
type Module interface {
	NamespaceURI() string
}

// Parser extracts a Module from a channel or item element. It returns a nil
// Module when it does not apply to the element's kind.
type Parser interface {
	NamespaceURI() string
	Parse(el element.Element, locale language.Tag, diag *extract.Diagnostics) (Module, error)
}

// Modules maps namespace URIs to the module extracted for them.
type Modules map[string]Module

// Registry is an immutable set of parsers, at most one per namespace URI.
// It is safe for concurrent use.
type Registry struct {
	parsers []Parser
}

func NewRegistry(parsers ...Parser) (*Registry, error) {
	seen := make(map[string]bool, len(parsers))
	for _, p := range parsers {
		uri := p.NamespaceURI()
		if seen[uri] {
			return nil, fmt.Errorf("duplicate parser for namespace %s", uri)
		}
		seen[uri] = true
	}
	return &Registry{parsers: append([]Parser(nil), parsers...)}, nil
}

// NamespaceURIs lists the registered namespaces in registration order.
func (r *Registry) NamespaceURIs() []string {
	uris := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		uris = append(uris, p.NamespaceURI())
	}
	return uris
}

// Parse runs every parser whose namespace appears among el's children.
// Modules from parsers that failed are left out and their errors combined.
func (r *Registry) Parse(el element.Element, locale language.Tag, diag *extract.Diagnostics) (Modules, error) {
	modules := Modules{}
	var errs error
	for _, p := range r.parsers {
		uri := p.NamespaceURI()
		if !el.HasNamespace(uri) {
			continue
		}
		m, err := p.Parse(el, locale, diag)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to parse %s module on <%s>: %w", uri, el.Name(), err))
			continue
		}
		if m != nil {
			modules[uri] = m
		}
	}
	return modules, errs
}
