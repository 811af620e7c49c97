// Package manifest models build manifests and the loaders that supply them.
//
// A manifest maps route identifiers to the relative path of the bundle the
// build produced for them:
//
//	{
//	  "/api/users": "pages/api/users.js",
//	  "/about": "pages/about.js"
//	}
//
// Loaders own caching and versioning. Consumers poll Version to learn whether
// a new snapshot is available and only call Load when it changed:
//
//	loader := manifest.NewFileLoader(".next")
//	v, _ := loader.Version(ctx, manifest.PagesManifest)
//	m, _ := loader.Load(ctx, manifest.PagesManifest)
package manifest

import (
	"context"
)

// Manifest keys produced by the build.
const (
	// PagesManifest maps pages-router identifiers to bundles.
	PagesManifest = "pages-manifest.json"

	// AppPathsManifest maps app-router identifiers to bundles.
	AppPathsManifest = "app-paths-manifest.json"

	// ServerDir is the directory below the build output holding server bundles
	// and manifests.
	ServerDir = "server"
)

// Loader supplies manifests by key.
//
// Load fails with an error matching errors.ErrManifestNotFound when the key
// has no manifest and errors.ErrManifestParse when its content is malformed.
// Version returns the token of the snapshot Load would currently return; it
// must be cheap enough to call on every resolution.
type Loader interface {
	Load(ctx context.Context, key string) (*Manifest, error)
	Version(ctx context.Context, key string) (Version, error)
}
