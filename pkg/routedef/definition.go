package routedef

import (
	"encoding/json"

	"github.com/vango-dev/routedefs/pkg/manifest"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

// Definition is one resolved route.
type Definition struct {
	// Kind is the category the route belongs to.
	Kind routekind.Kind `json:"kind"`

	// Page is the route identifier as it appears in the manifest.
	Page string `json:"page"`

	// Pathname is the URL path the route serves.
	Pathname string `json:"pathname"`

	// BundlePath is the build's name for the route bundle.
	BundlePath string `json:"bundlePath"`

	// Filename is the absolute path of the compiled artifact.
	Filename string `json:"filename"`

	// Metadata marks app-router route handlers that serve a metadata file
	// (robots.txt, sitemap.xml, icons, social images).
	Metadata bool `json:"metadata,omitempty"`
}

// Set is an immutable, ordered collection of definitions of one kind.
// Order follows the manifest.
type Set struct {
	kind    routekind.Kind
	defs    []Definition
	index   map[string]int
	version manifest.Version
}

// Kind returns the kind shared by every definition in the set.
func (s *Set) Kind() routekind.Kind {
	return s.kind
}

// Version returns the manifest version the set was built from.
func (s *Set) Version() manifest.Version {
	return s.version
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	return len(s.defs)
}

// At returns the i-th definition.
func (s *Set) At(i int) Definition {
	return s.defs[i]
}

// All returns a copy of the definitions in order.
func (s *Set) All() []Definition {
	out := make([]Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Get returns the definition for page.
func (s *Set) Get(page string) (Definition, bool) {
	i, ok := s.index[page]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// Pages returns the route identifiers in order.
func (s *Set) Pages() []string {
	out := make([]string, len(s.defs))
	for i, d := range s.defs {
		out[i] = d.Page
	}
	return out
}

// Equal reports whether two sets hold the same definitions in the same order.
func (s *Set) Equal(other *Set) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.kind != other.kind || len(s.defs) != len(other.defs) {
		return false
	}
	for i := range s.defs {
		if s.defs[i] != other.defs[i] {
			return false
		}
	}
	return true
}

// withVersion returns a copy of s stamped with version. Definitions are
// shared since neither copy mutates them.
func (s *Set) withVersion(v manifest.Version) *Set {
	return &Set{kind: s.kind, defs: s.defs, index: s.index, version: v}
}

// MarshalJSON encodes the set as {"kind", "version", "definitions"}.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind        routekind.Kind   `json:"kind"`
		Version     manifest.Version `json:"version,omitempty"`
		Definitions []Definition     `json:"definitions"`
	}{s.kind, s.version, s.defs})
}
