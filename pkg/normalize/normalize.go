// Package normalize maps manifest artifact references to absolute runtime
// paths.
//
// Normalization is pure path arithmetic: it never touches the filesystem, so
// a reference to a missing bundle still normalizes. Whether the artifact
// exists is for the router to find out when it dispatches.
package normalize

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/manifest"
)

// DefaultExtensions are the bundle extensions recognized when none are configured.
var DefaultExtensions = []string{".js"}

// Normalizer converts an artifact reference to a normalized filename.
type Normalizer interface {
	Normalize(ref string) (string, error)
}

// Func adapts a function to Normalizer.
type Func func(ref string) (string, error)

// Normalize implements Normalizer.
func (f Func) Normalize(ref string) (string, error) {
	return f(ref)
}

// Options configures a PathNormalizer.
type Options struct {
	// Root is the directory references are resolved against. It is made
	// absolute at construction.
	Root string

	// StripPrefix is removed from the front of references before joining
	// (e.g., "server/" for manifests that include the server directory).
	StripPrefix string

	// Extensions lists recognized bundle extensions, with leading dot.
	// A reference without an extension gets the first one appended.
	Extensions []string
}

// PathNormalizer joins references onto a fixed root.
// It is immutable and safe for concurrent use.
type PathNormalizer struct {
	root        string
	stripPrefix string
	extensions  []string
}

// New creates a PathNormalizer. Extensions are normalized to lower case
// with a leading dot.
func New(opts Options) *PathNormalizer {
	root := opts.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	normalized := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}

	return &PathNormalizer{
		root:        filepath.Clean(root),
		stripPrefix: strings.Trim(filepath.ToSlash(opts.StripPrefix), "/"),
		extensions:  normalized,
	}
}

// NewServerNormalizer roots references at <distDir>/server, where the build
// writes the bundles listed by both the pages and the app manifests.
func NewServerNormalizer(distDir string, extensions []string) *PathNormalizer {
	return New(Options{
		Root:       filepath.Join(distDir, manifest.ServerDir),
		Extensions: extensions,
	})
}

// Root returns the absolute output root.
func (n *PathNormalizer) Root() string {
	return n.root
}

// Extensions returns a copy of the recognized extensions.
func (n *PathNormalizer) Extensions() []string {
	out := make([]string, len(n.extensions))
	copy(out, n.extensions)
	return out
}

// Normalize implements Normalizer.
func (n *PathNormalizer) Normalize(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", invalid(ref, "artifact reference is empty")
	}
	if strings.ContainsRune(ref, 0) {
		return "", invalid(ref, "artifact reference contains a NUL byte")
	}
	if strings.Contains(ref, "\\") {
		return "", invalid(ref, "artifact reference must use forward slashes")
	}
	if strings.HasPrefix(ref, "/") || filepath.IsAbs(ref) {
		return "", invalid(ref, "artifact reference must be relative to the build output")
	}

	rel := path.Clean(ref)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", invalid(ref, "artifact reference escapes the build output")
	}

	if n.stripPrefix != "" {
		if rel == n.stripPrefix {
			return "", invalid(ref, "artifact reference names the stripped prefix itself")
		}
		rel = strings.TrimPrefix(rel, n.stripPrefix+"/")
	}

	rel, err := n.resolveExtension(ref, rel)
	if err != nil {
		return "", err
	}

	return filepath.Join(n.root, filepath.FromSlash(rel)), nil
}

// resolveExtension checks the bundle extension, appending the default one
// when the reference has none.
func (n *PathNormalizer) resolveExtension(ref, rel string) (string, error) {
	ext := fileExtension(rel)
	if ext == "" {
		if len(n.extensions) == 0 {
			return "", invalid(ref, "artifact reference has no extension")
		}
		return rel + n.extensions[0], nil
	}
	for _, known := range n.extensions {
		if ext == known {
			return rel, nil
		}
	}
	return "", invalid(ref, "extension "+ext+" is not a recognized bundle extension ("+strings.Join(n.extensions, ", ")+")")
}

// fileExtension returns the lower-cased extension of rel, or "" when the
// text after the last dot is not a file extension. Dots also occur inside
// dynamic segments ("[...slug]") and version-like names ("v1.2"), so an
// extension must be alphanumeric with at least one letter.
func fileExtension(rel string) string {
	ext := strings.ToLower(path.Ext(rel))
	if len(ext) < 2 {
		return ""
	}
	letter := false
	for _, r := range ext[1:] {
		switch {
		case r >= 'a' && r <= 'z':
			letter = true
		case r >= '0' && r <= '9':
		default:
			return ""
		}
	}
	if !letter {
		return ""
	}
	return ext
}

func invalid(ref, detail string) error {
	return errors.New("R004").WithDetailf("%s: %q", detail, ref)
}
