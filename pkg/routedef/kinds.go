package routedef

import (
	"github.com/vango-dev/routedefs/pkg/manifest"
	"github.com/vango-dev/routedefs/pkg/normalize"
	"github.com/vango-dev/routedefs/pkg/routekind"
	"github.com/vango-dev/routedefs/pkg/routepath"
)

// appDefinition derives pathname and bundle path for app-router entries.
func appDefinition(page, filename string) Definition {
	return Definition{
		Pathname:   routepath.NormalizeAppPath(page),
		BundlePath: routepath.BundlePath("app", page),
	}
}

// appRouteDefinition is appDefinition plus metadata-route detection, which
// needs the application's page extensions.
func appRouteDefinition(pageExtensions []string) DefinitionFunc {
	exts := append([]string(nil), pageExtensions...)
	return func(page, filename string) Definition {
		def := appDefinition(page, filename)
		def.Metadata = routepath.IsMetadataRoute(page, exts)
		return def
	}
}

// pagesDefinition derives pathname and bundle path for pages-router entries.
func pagesDefinition(page, filename string) Definition {
	return Definition{
		Pathname:   page,
		BundlePath: routepath.BundlePath("pages", page),
	}
}

// AppRouteCapabilities describes app-router route handlers. pageExtensions
// are the application's source page extensions; extensions are the bundle
// extensions.
func AppRouteCapabilities(distDir string, pageExtensions, extensions []string) Capabilities {
	define := appRouteDefinition(pageExtensions)
	return Capabilities{
		Kind:        routekind.AppRoute,
		ManifestKey: manifest.AppPathsManifest,
		Predicate:   IsAppRouteRoute,
		Normalizer:  normalize.NewServerNormalizer(distDir, extensions),
		NewBuilder:  func() *Builder { return NewBuilder(routekind.AppRoute, define) },
	}
}

// AppPageCapabilities describes app-router pages.
func AppPageCapabilities(distDir string, extensions []string) Capabilities {
	return Capabilities{
		Kind:        routekind.AppPage,
		ManifestKey: manifest.AppPathsManifest,
		Predicate:   IsAppPageRoute,
		Normalizer:  normalize.NewServerNormalizer(distDir, extensions),
		NewBuilder:  func() *Builder { return NewBuilder(routekind.AppPage, appDefinition) },
	}
}

// PagesAPICapabilities describes pages-router API routes.
func PagesAPICapabilities(distDir string, extensions []string) Capabilities {
	return Capabilities{
		Kind:        routekind.PagesAPI,
		ManifestKey: manifest.PagesManifest,
		Predicate:   IsAPIRoute,
		Normalizer:  normalize.NewServerNormalizer(distDir, extensions),
		NewBuilder:  func() *Builder { return NewBuilder(routekind.PagesAPI, pagesDefinition) },
	}
}

// PagesCapabilities describes pages-router pages.
func PagesCapabilities(distDir string, extensions []string) Capabilities {
	return Capabilities{
		Kind:        routekind.Pages,
		ManifestKey: manifest.PagesManifest,
		Predicate:   IsPagesRoute,
		Normalizer:  normalize.NewServerNormalizer(distDir, extensions),
		NewBuilder:  func() *Builder { return NewBuilder(routekind.Pages, pagesDefinition) },
	}
}

// CapabilitiesFor returns the capabilities of kind. Only app-router route
// handlers use pageExtensions.
func CapabilitiesFor(kind routekind.Kind, distDir string, pageExtensions, extensions []string) (Capabilities, bool) {
	switch kind {
	case routekind.AppRoute:
		return AppRouteCapabilities(distDir, pageExtensions, extensions), true
	case routekind.AppPage:
		return AppPageCapabilities(distDir, extensions), true
	case routekind.PagesAPI:
		return PagesAPICapabilities(distDir, extensions), true
	case routekind.Pages:
		return PagesCapabilities(distDir, extensions), true
	}
	return Capabilities{}, false
}

// NewAppRouteProvider resolves app-router route handlers from the app paths manifest.
func NewAppRouteProvider(distDir string, pageExtensions, extensions []string, loader manifest.Loader, opts ...Option) *Provider {
	return NewProvider(AppRouteCapabilities(distDir, pageExtensions, extensions), loader, opts...)
}

// NewAppPageProvider resolves app-router pages from the app paths manifest.
func NewAppPageProvider(distDir string, extensions []string, loader manifest.Loader, opts ...Option) *Provider {
	return NewProvider(AppPageCapabilities(distDir, extensions), loader, opts...)
}

// NewPagesAPIProvider resolves pages-router API routes from the pages manifest.
func NewPagesAPIProvider(distDir string, extensions []string, loader manifest.Loader, opts ...Option) *Provider {
	return NewProvider(PagesAPICapabilities(distDir, extensions), loader, opts...)
}

// NewPagesProvider resolves pages-router pages from the pages manifest.
func NewPagesProvider(distDir string, extensions []string, loader manifest.Loader, opts ...Option) *Provider {
	return NewProvider(PagesCapabilities(distDir, extensions), loader, opts...)
}
