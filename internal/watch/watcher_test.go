package watch

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/routedefs/pkg/manifest"
	"github.com/vango-dev/routedefs/pkg/routedef"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

func setup(t *testing.T) (*manifest.MemoryLoader, *routedef.Registry, *Watcher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	loader := manifest.NewMemoryLoader()
	loader.Set(manifest.PagesManifest, manifest.Entry{Page: "/api/a", Artifact: "pages/api/a.js"})
	loader.Set(manifest.AppPathsManifest, manifest.Entry{Page: "/page", Artifact: "app/page.js"})

	opts := []routedef.Option{routedef.WithLogger(logger)}
	registry, err := routedef.NewRegistry(
		routedef.NewAppPageProvider("/dist", nil, loader, opts...),
		routedef.NewPagesProvider("/dist", nil, loader, opts...),
		routedef.NewPagesAPIProvider("/dist", nil, loader, opts...),
	)
	if err != nil {
		t.Fatal(err)
	}

	w := New(loader, registry, Config{Interval: 10 * time.Millisecond, Logger: logger})
	return loader, registry, w
}

func TestPoll_FirstPollRecordsOnly(t *testing.T) {
	_, _, w := setup(t)
	if changes := w.Poll(context.Background()); len(changes) != 0 {
		t.Errorf("first Poll() = %v, want no changes", changes)
	}
	if changes := w.Poll(context.Background()); len(changes) != 0 {
		t.Errorf("Poll() without changes = %v", changes)
	}
}

func TestPoll_InvalidatesChangedManifest(t *testing.T) {
	loader, registry, w := setup(t)
	ctx := context.Background()

	if _, err := registry.ResolveAll(ctx); err != nil {
		t.Fatal(err)
	}
	w.Poll(ctx)

	var reported []Change
	w.OnChange(func(c Change) { reported = append(reported, c) })

	v := loader.Set(manifest.PagesManifest, manifest.Entry{Page: "/api/b", Artifact: "pages/api/b.js"})
	changes := w.Poll(ctx)

	if len(changes) != 1 {
		t.Fatalf("Poll() = %v, want one change", changes)
	}
	c := changes[0]
	if c.Manifest != manifest.PagesManifest || c.Version != v || c.Removed() {
		t.Errorf("change = %+v", c)
	}
	if len(c.Kinds) != 2 || c.Kinds[0] != routekind.Pages || c.Kinds[1] != routekind.PagesAPI {
		t.Errorf("Kinds = %v, want [PAGES PAGES_API]", c.Kinds)
	}
	if len(reported) != 1 {
		t.Errorf("callback called %d times, want 1", len(reported))
	}

	for _, p := range registry.Providers() {
		_, cached := p.Cached()
		if want := p.Kind() == routekind.AppPage; cached != want {
			t.Errorf("%s: Cached() = %v, want %v", p.Kind(), cached, want)
		}
	}
}

func TestPoll_ReportsRemovedManifest(t *testing.T) {
	loader, _, w := setup(t)
	ctx := context.Background()
	w.Poll(ctx)

	loader.Delete(manifest.AppPathsManifest)
	changes := w.Poll(ctx)

	if len(changes) != 1 || !changes[0].Removed() || changes[0].Manifest != manifest.AppPathsManifest {
		t.Errorf("Poll() = %+v, want the app manifest removed", changes)
	}
}

func TestStartStop(t *testing.T) {
	loader, _, w := setup(t)

	changed := make(chan Change, 8)
	w.OnChange(func(c Change) { changed <- c })

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	deadline := time.Now().Add(time.Second)
	for !w.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("watcher did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The initial scan may race with the first update, so keep publishing
	// new versions until one is reported.
	timeout := time.After(2 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
wait:
	for {
		select {
		case c := <-changed:
			if c.Manifest != manifest.PagesManifest {
				t.Errorf("change for %q, want %q", c.Manifest, manifest.PagesManifest)
			}
			break wait
		case <-tick.C:
			loader.Set(manifest.PagesManifest)
		case <-timeout:
			t.Fatal("no change reported")
		}
	}

	w.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v, want nil after Stop", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
	if w.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestStart_ContextCancel(t *testing.T) {
	_, _, w := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Start() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
