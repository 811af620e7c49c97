package normalize

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/vango-dev/routedefs/internal/errors"
)

func TestPathNormalizer_Normalize(t *testing.T) {
	root := filepath.Join(t.TempDir(), "dist", "server")
	n := New(Options{Root: root, Extensions: []string{"js", ".MJS"}})

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"pages api", "pages/api/users.js", filepath.Join(root, "pages", "api", "users.js")},
		{"app route", "app/blog/[slug]/route.js", filepath.Join(root, "app", "blog", "[slug]", "route.js")},
		{"dot slash prefix", "./pages/about.js", filepath.Join(root, "pages", "about.js")},
		{"inner dot dot", "pages/x/../about.js", filepath.Join(root, "pages", "about.js")},
		{"second extension", "pages/edge.mjs", filepath.Join(root, "pages", "edge.mjs")},
		{"upper case extension", "pages/old.JS", filepath.Join(root, "pages", "old.JS")},
		{"missing extension", "pages/about", filepath.Join(root, "pages", "about.js")},
		{"catch-all without extension", "pages/[...slug]", filepath.Join(root, "pages", "[...slug].js")},
		{"optional catch-all without extension", "pages/[[...slug]]", filepath.Join(root, "pages", "[[...slug]].js")},
		{"catch-all with extension", "pages/[...slug].js", filepath.Join(root, "pages", "[...slug].js")},
		{"version-like name", "pages/docs/v1.2", filepath.Join(root, "pages", "docs", "v1.2.js")},
		{"app route without extension", "app/blog/route", filepath.Join(root, "app", "blog", "route.js")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.ref)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestPathNormalizer_Rejects(t *testing.T) {
	n := New(Options{Root: "/srv/app/.next/server"})

	tests := []struct {
		name string
		ref  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"absolute", "/etc/passwd.js"},
		{"escapes root", "../secrets.js"},
		{"escapes after clean", "pages/../../x.js"},
		{"backslash", `pages\about.js`},
		{"nul byte", "pages/a\x00.js"},
		{"unknown extension", "pages/styles.css"},
		{"unknown alphanumeric extension", "pages/clip.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.ref)
			if !stderrors.Is(err, errors.ErrNormalization) {
				t.Errorf("Normalize(%q) error = %v, want ErrNormalization", tt.ref, err)
			}
		})
	}
}

func TestPathNormalizer_StripPrefix(t *testing.T) {
	n := New(Options{Root: "/out", StripPrefix: "server/"})

	got, err := n.Normalize("server/pages/index.js")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/out", "pages", "index.js") {
		t.Errorf("Normalize() = %q", got)
	}

	if _, err := n.Normalize("server"); !stderrors.Is(err, errors.ErrNormalization) {
		t.Errorf("Normalize(server) error = %v, want ErrNormalization", err)
	}
}

func TestPathNormalizer_Deterministic(t *testing.T) {
	n := NewServerNormalizer("/srv/app/.next", nil)
	a, _ := n.Normalize("pages/api/users.js")
	b, _ := n.Normalize("pages/api/users.js")
	if a != b {
		t.Errorf("Normalize is not deterministic: %q vs %q", a, b)
	}
	if a != filepath.Join("/srv/app/.next", "server", "pages", "api", "users.js") {
		t.Errorf("Normalize() = %q", a)
	}
}

func TestPathNormalizer_DoesNotTouchDisk(t *testing.T) {
	n := New(Options{Root: t.TempDir()})
	if _, err := n.Normalize("pages/does-not-exist.js"); err != nil {
		t.Errorf("missing artifact should still normalize, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	n := New(Options{Root: "relative/dir"})
	if !filepath.IsAbs(n.Root()) {
		t.Errorf("Root() = %q, want absolute", n.Root())
	}
	exts := n.Extensions()
	if len(exts) != 1 || exts[0] != ".js" {
		t.Errorf("Extensions() = %v, want [.js]", exts)
	}
}

func TestFunc(t *testing.T) {
	var n Normalizer = Func(func(ref string) (string, error) { return "/x/" + ref, nil })
	if got, _ := n.Normalize("a.js"); got != "/x/a.js" {
		t.Errorf("Func.Normalize() = %q", got)
	}
}
