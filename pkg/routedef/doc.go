// Package routedef resolves build manifests into typed route definitions.
//
// A Provider serves one route kind. It reads a manifest through a
// manifest.Loader, keeps the entries its Predicate accepts, maps each
// artifact to an absolute filename with its Normalizer and collects the
// results in a fresh Builder. The finished Set is immutable, keeps manifest
// order and never contains the same page twice.
//
// # Route Kinds
//
// Each kind is a Capabilities value rather than a type:
//
//	APP_ROUTE  app-paths-manifest.json  ".../route"
//	APP_PAGE   app-paths-manifest.json  ".../page"
//	PAGES_API  pages-manifest.json      "/api", "/api/..."
//	PAGES      pages-manifest.json      everything else except /_app, /_document, /_error
//
// # Caching
//
// A Provider caches its Set with the manifest version that produced it.
// Resolve asks the loader for the current version and only reloads when it
// differs. Concurrent callers waiting for the same version share one load.
//
// # Usage
//
//	loader := manifest.NewFileLoader(".next")
//	p := routedef.NewPagesAPIProvider(".next", nil, loader)
//
//	set, err := p.Resolve(ctx)
//	if err != nil {
//	    // serve nothing of this kind
//	}
//	for _, def := range set.All() {
//	    fmt.Println(def.Page, def.Filename)
//	}
package routedef
