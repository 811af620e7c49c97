package manifest

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/vango-dev/routedefs/internal/errors"
)

func TestMemoryLoader(t *testing.T) {
	l := NewMemoryLoader()
	ctx := context.Background()

	if _, err := l.Load(ctx, PagesManifest); !stderrors.Is(err, errors.ErrManifestNotFound) {
		t.Errorf("Load() on empty loader error = %v, want ErrManifestNotFound", err)
	}

	v1 := l.Set(PagesManifest, Entry{Page: "/a", Artifact: "pages/a.js"})
	v2 := l.Set(PagesManifest, Entry{Page: "/b", Artifact: "pages/b.js"})
	if v1 == v2 {
		t.Error("Set should publish a new version every time")
	}

	got, err := l.Version(ctx, PagesManifest)
	if err != nil || got != v2 {
		t.Errorf("Version() = %q, %v; want %q", got, err, v2)
	}

	m, err := l.Load(ctx, PagesManifest)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Has("/b") || m.Has("/a") {
		t.Errorf("Load() entries = %v", m.Entries())
	}
	if l.Loads(PagesManifest) != 1 {
		t.Errorf("Loads() = %d, want 1", l.Loads(PagesManifest))
	}

	l.Delete(PagesManifest)
	if _, err := l.Version(ctx, PagesManifest); !stderrors.Is(err, errors.ErrManifestNotFound) {
		t.Errorf("Version() after Delete error = %v", err)
	}
}

func TestMemoryLoader_SetJSON(t *testing.T) {
	l := NewMemoryLoader()

	if _, err := l.SetJSON(PagesManifest, []byte(`{"/a":`)); !stderrors.Is(err, errors.ErrManifestParse) {
		t.Errorf("SetJSON(bad) error = %v, want ErrManifestParse", err)
	}

	if _, err := l.SetJSON(PagesManifest, []byte(`{"/a": "a.js", "/b": "b.js"}`)); err != nil {
		t.Fatal(err)
	}
	m, _ := l.Load(context.Background(), PagesManifest)
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}
