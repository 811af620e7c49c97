// Package watch polls manifest versions and invalidates the route
// definitions built from manifests that changed.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/routedefs/pkg/manifest"
	"github.com/vango-dev/routedefs/pkg/routedef"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

// Change represents a detected manifest change.
type Change struct {
	// Manifest is the key of the manifest that changed.
	Manifest string

	// Version is the new version, empty if the manifest disappeared.
	Version manifest.Version

	// Kinds are the route kinds whose cached sets were discarded.
	Kinds []routekind.Kind
}

// Removed reports whether the manifest can no longer be loaded.
func (c Change) Removed() bool {
	return c.Version == ""
}

// Config configures the watcher.
type Config struct {
	// Interval is the delay between two polls.
	Interval time.Duration

	// Logger receives change notifications. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultInterval is used when Config.Interval is zero.
const DefaultInterval = 500 * time.Millisecond

// Watcher monitors manifest versions for changes.
type Watcher struct {
	config   Config
	loader   manifest.Loader
	registry *routedef.Registry

	mu          sync.Mutex
	onChange    func(Change)
	running     bool
	initialized bool
	stopCh      chan struct{}
	versions    map[string]manifest.Version
}

// New creates a watcher for the manifests read by registry.
func New(loader manifest.Loader, registry *routedef.Registry, config Config) *Watcher {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Watcher{
		config:   config,
		loader:   loader,
		registry: registry,
		versions: make(map[string]manifest.Version),
	}
}

// OnChange sets the callback for manifest changes.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.scanInitial(ctx)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.markStopped(stopCh)
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

func (w *Watcher) markStopped(stopCh chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running && w.stopCh == stopCh {
		w.running = false
	}
}

// scanInitial records the current versions without reporting them.
func (w *Watcher) scanInitial(ctx context.Context) {
	current := w.snapshot(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	for key, v := range current {
		w.versions[key] = v
	}
	w.initialized = true
}

// snapshot reads the version of every watched manifest. Manifests that
// cannot be read map to the empty version.
func (w *Watcher) snapshot(ctx context.Context) map[string]manifest.Version {
	keys := w.registry.ManifestKeys()
	current := make(map[string]manifest.Version, len(keys))
	for _, key := range keys {
		v, err := w.loader.Version(ctx, key)
		if err != nil {
			v = ""
		}
		current[key] = v
	}
	return current
}

// Poll checks every manifest once, invalidates the kinds reading changed
// manifests and reports one Change per changed manifest.
func (w *Watcher) Poll(ctx context.Context) []Change {
	w.mu.Lock()
	initialized := w.initialized
	w.mu.Unlock()
	if !initialized {
		w.scanInitial(ctx)
		return nil
	}

	current := w.snapshot(ctx)
	if ctx.Err() != nil {
		return nil
	}

	var changed []string
	w.mu.Lock()
	for _, key := range w.registry.ManifestKeys() {
		if w.versions[key] != current[key] {
			w.versions[key] = current[key]
			changed = append(changed, key)
		}
	}
	callback := w.onChange
	w.mu.Unlock()

	changes := make([]Change, 0, len(changed))
	for _, key := range changed {
		change := Change{
			Manifest: key,
			Version:  current[key],
			Kinds:    w.registry.Invalidate(key),
		}
		w.config.Logger.Info("manifest changed",
			"manifest", key,
			"version", string(change.Version),
			"removed", change.Removed(),
			"kinds", len(change.Kinds),
		)
		changes = append(changes, change)
		if callback != nil {
			callback(change)
		}
	}
	return changes
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
