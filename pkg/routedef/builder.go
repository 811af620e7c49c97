package routedef

import (
	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

// DefinitionFunc derives the kind-specific fields of a definition from a
// page and its normalized filename. Kind is filled in by the Builder.
type DefinitionFunc func(page, filename string) Definition

// Builder accumulates definitions for one resolution pass. It has exactly
// one accumulation cycle: after Build it rejects further use.
type Builder struct {
	kind   routekind.Kind
	define DefinitionFunc
	defs   []Definition
	seen   map[string]struct{}
	spent  bool
}

// NewBuilder creates a builder for kind. A nil define keeps Page as the
// pathname and leaves BundlePath empty.
func NewBuilder(kind routekind.Kind, define DefinitionFunc) *Builder {
	if define == nil {
		define = func(page, filename string) Definition {
			return Definition{Page: page, Pathname: page, Filename: filename}
		}
	}
	return &Builder{
		kind:   kind,
		define: define,
		seen:   make(map[string]struct{}),
	}
}

// Add registers page. A page added twice fails with errors.ErrDuplicateRoute.
func (b *Builder) Add(page, filename string) error {
	if b.spent {
		return errors.New("R005")
	}
	if _, dup := b.seen[page]; dup {
		return errors.New("R003").
			WithDetailf("%s route %q appears more than once", b.kind, page).
			WithSuggestion("Rebuild the application; the manifest is inconsistent")
	}
	b.seen[page] = struct{}{}

	def := b.define(page, filename)
	def.Kind = b.kind
	def.Page = page
	def.Filename = filename
	b.defs = append(b.defs, def)
	return nil
}

// Len returns the number of accumulated definitions.
func (b *Builder) Len() int {
	return len(b.defs)
}

// Build finalizes the accumulated definitions into a Set and spends the builder.
func (b *Builder) Build() (*Set, error) {
	if b.spent {
		return nil, errors.New("R005")
	}
	b.spent = true

	defs := b.defs
	if defs == nil {
		defs = []Definition{}
	}
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		index[d.Page] = i
	}

	b.defs = nil
	b.seen = nil

	return &Set{kind: b.kind, defs: defs, index: index}, nil
}
