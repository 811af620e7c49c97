package routedef

import (
	"context"
	"sync"

	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

// Registry holds one provider per route kind.
type Registry struct {
	providers []*Provider
	byKind    map[routekind.Kind]*Provider
}

// NewRegistry creates a registry. Two providers for the same kind are rejected.
func NewRegistry(providers ...*Provider) (*Registry, error) {
	r := &Registry{byKind: make(map[routekind.Kind]*Provider, len(providers))}
	for _, p := range providers {
		if _, dup := r.byKind[p.Kind()]; dup {
			return nil, errors.Newf(errors.CategoryValidation, "provider for %s registered twice", p.Kind())
		}
		r.byKind[p.Kind()] = p
		r.providers = append(r.providers, p)
	}
	return r, nil
}

// Providers returns the providers in registration order.
func (r *Registry) Providers() []*Provider {
	out := make([]*Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Provider returns the provider for kind.
func (r *Registry) Provider(kind routekind.Kind) (*Provider, bool) {
	p, ok := r.byKind[kind]
	return p, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []routekind.Kind {
	out := make([]routekind.Kind, len(r.providers))
	for i, p := range r.providers {
		out[i] = p.Kind()
	}
	return out
}

// Resolve resolves one kind.
func (r *Registry) Resolve(ctx context.Context, kind routekind.Kind) (*Set, error) {
	p, ok := r.byKind[kind]
	if !ok {
		return nil, errors.New("R006").WithDetailf("no provider registered for %s", kind)
	}
	return p.Resolve(ctx)
}

// ResolveAll resolves every kind concurrently. If any kind fails, the
// error of the first failing kind in registration order is returned and
// no sets are returned.
func (r *Registry) ResolveAll(ctx context.Context) (map[routekind.Kind]*Set, error) {
	sets := make([]*Set, len(r.providers))
	errs := make([]error, len(r.providers))

	var wg sync.WaitGroup
	for i, p := range r.providers {
		wg.Add(1)
		go func(i int, p *Provider) {
			defer wg.Done()
			sets[i], errs[i] = p.Resolve(ctx)
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[routekind.Kind]*Set, len(sets))
	for i, p := range r.providers {
		out[p.Kind()] = sets[i]
	}
	return out, nil
}

// Invalidate discards the cached sets of every provider reading manifestKey
// and returns their kinds.
func (r *Registry) Invalidate(manifestKey string) []routekind.Kind {
	var kinds []routekind.Kind
	for _, p := range r.providers {
		if p.ManifestKey() == manifestKey {
			p.Invalidate()
			kinds = append(kinds, p.Kind())
		}
	}
	return kinds
}

// ManifestKeys returns the distinct manifest keys read by the providers.
func (r *Registry) ManifestKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, p := range r.providers {
		if !seen[p.ManifestKey()] {
			seen[p.ManifestKey()] = true
			keys = append(keys, p.ManifestKey())
		}
	}
	return keys
}
