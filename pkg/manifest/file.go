package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vango-dev/routedefs/internal/errors"
)

// FileLoader reads manifests from <distDir>/server/<key>.
//
// Parsed manifests are cached per key and version. Version stats the file
// and only rehashes its content when size or modification time changed.
// It is safe for concurrent use.
type FileLoader struct {
	dir string

	mu    sync.Mutex
	stats map[string]fileStat
	cache map[string]*Manifest
}

type fileStat struct {
	size    int64
	modTime time.Time
	version Version
}

// NewFileLoader creates a loader rooted at the server directory of distDir.
func NewFileLoader(distDir string) *FileLoader {
	return NewDirLoader(filepath.Join(distDir, ServerDir))
}

// NewDirLoader creates a loader reading manifests directly from dir.
func NewDirLoader(dir string) *FileLoader {
	return &FileLoader{
		dir:   dir,
		stats: make(map[string]fileStat),
		cache: make(map[string]*Manifest),
	}
}

// Dir returns the directory manifests are read from.
func (l *FileLoader) Dir() string {
	return l.dir
}

// Path returns the file path for a manifest key. Keys cannot escape Dir.
func (l *FileLoader) Path(key string) string {
	return filepath.Join(l.dir, filepath.Clean(string(filepath.Separator)+key))
}

// Version implements Loader.
func (l *FileLoader) Version(ctx context.Context, key string) (Version, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := l.Path(key)
	info, err := os.Stat(path)
	if err != nil {
		return "", l.readError(key, err)
	}

	l.mu.Lock()
	st, ok := l.stats[key]
	l.mu.Unlock()
	if ok && st.size == info.Size() && st.modTime.Equal(info.ModTime()) {
		return st.version, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", l.readError(key, err)
	}
	v := HashVersion(data)

	l.mu.Lock()
	l.stats[key] = fileStat{size: info.Size(), modTime: info.ModTime(), version: v}
	l.mu.Unlock()

	return v, nil
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, key string) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := l.Path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, l.readError(key, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, l.readError(key, err)
	}
	v := HashVersion(data)

	l.mu.Lock()
	l.stats[key] = fileStat{size: info.Size(), modTime: info.ModTime(), version: v}
	if cached, ok := l.cache[key]; ok && cached.Version() == v {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	m, err := ParseVersion(data, v)
	if err != nil {
		if re, ok := err.(*errors.RouteError); ok {
			re.WithSource(key, "")
		}
		return nil, err
	}

	l.mu.Lock()
	l.cache[key] = m
	l.mu.Unlock()

	return m, nil
}

// Purge drops every cached manifest and stat.
func (l *FileLoader) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats = make(map[string]fileStat)
	l.cache = make(map[string]*Manifest)
}

func (l *FileLoader) readError(key string, err error) error {
	if os.IsNotExist(err) {
		return errors.New("R001").
			WithSource(key, "").
			WithDetail("no manifest at " + l.Path(key)).
			WithSuggestion("Run the build first or check the configured distDir").
			Wrap(err)
	}
	return fmt.Errorf("reading manifest %s: %w", key, err)
}
