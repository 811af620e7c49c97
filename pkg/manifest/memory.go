package manifest

import (
	"context"
	"strconv"
	"sync"

	"github.com/vango-dev/routedefs/internal/errors"
)

// MemoryLoader serves manifests held in memory. Every Set publishes a new
// snapshot with a fresh version. It is safe for concurrent use.
type MemoryLoader struct {
	mu        sync.RWMutex
	manifests map[string]*Manifest
	seq       uint64
	loads     map[string]int
}

// NewMemoryLoader creates an empty loader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{
		manifests: make(map[string]*Manifest),
		loads:     make(map[string]int),
	}
}

// Set publishes entries under key and returns the new version.
func (l *MemoryLoader) Set(key string, entries ...Entry) Version {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	v := Version("mem-" + strconv.FormatUint(l.seq, 10))
	l.manifests[key] = New(v, entries...)
	return v
}

// SetJSON parses data and publishes it under key.
func (l *MemoryLoader) SetJSON(key string, data []byte) (Version, error) {
	m, err := Parse(data)
	if err != nil {
		return "", err
	}
	return l.Set(key, m.entries...), nil
}

// Delete removes the manifest for key.
func (l *MemoryLoader) Delete(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.manifests, key)
}

// Loads returns how many times Load succeeded for key.
func (l *MemoryLoader) Loads(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loads[key]
}

// Version implements Loader.
func (l *MemoryLoader) Version(ctx context.Context, key string) (Version, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.manifests[key]
	if !ok {
		return "", errors.New("R001").WithSource(key, "")
	}
	return m.Version(), nil
}

// Load implements Loader.
func (l *MemoryLoader) Load(ctx context.Context, key string) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.manifests[key]
	if !ok {
		return nil, errors.New("R001").WithSource(key, "")
	}
	l.loads[key]++
	return m, nil
}
