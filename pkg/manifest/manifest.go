package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vango-dev/routedefs/internal/errors"
)

// Version is an opaque token identifying one manifest snapshot. Two loads
// returning the same Version carry the same content.
type Version string

// Entry is one manifest row: a route identifier and the artifact built for it.
type Entry struct {
	// Page is the route identifier as authored (e.g., "/api/users/[id]").
	Page string

	// Artifact is the relative path of the compiled bundle.
	Artifact string
}

// Manifest is an immutable snapshot of a build manifest.
// Entries keep document order and repeated keys are kept as separate
// entries so that consumers can reject them.
type Manifest struct {
	entries []Entry
	index   map[string]int
	version Version
}

// New creates a manifest from entries. The slice is copied.
func New(version Version, entries ...Entry) *Manifest {
	m := &Manifest{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
		version: version,
	}
	copy(m.entries, entries)
	for i, e := range m.entries {
		if _, seen := m.index[e.Page]; !seen {
			m.index[e.Page] = i
		}
	}
	return m
}

// HashVersion derives a content version from raw manifest bytes.
func HashVersion(data []byte) Version {
	sum := sha256.Sum256(data)
	return Version(hex.EncodeToString(sum[:8]))
}

// Parse decodes a JSON object of string to string, preserving key order.
// The version is derived from the content hash.
func Parse(data []byte) (*Manifest, error) {
	return ParseVersion(data, HashVersion(data))
}

// ParseVersion is Parse with an explicit version token.
func ParseVersion(data []byte, version Version) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, parseError(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("R002").WithDetailf("expected a JSON object, got %v", tok)
	}

	var entries []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, parseError(err)
		}
		page, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return nil, parseError(err)
		}
		artifact, ok := valTok.(string)
		if !ok {
			return nil, errors.New("R002").
				WithDetailf("value for %q must be a string, got %s", page, describeToken(valTok))
		}

		entries = append(entries, Entry{Page: page, Artifact: artifact})
	}

	if _, err := dec.Token(); err != nil {
		return nil, parseError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("R002").WithDetail("unexpected data after the manifest object")
	}

	return New(version, entries...), nil
}

func parseError(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return errors.New("R002").Wrap(err)
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return "an object"
		}
		return "an array"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Version returns the snapshot's version token.
func (m *Manifest) Version() Version {
	return m.version
}

// Len returns the number of entries, duplicates included.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in document order.
func (m *Manifest) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Get returns the artifact of the first entry for page.
func (m *Manifest) Get(page string) (string, bool) {
	i, ok := m.index[page]
	if !ok {
		return "", false
	}
	return m.entries[i].Artifact, true
}

// Has reports whether the manifest contains page.
func (m *Manifest) Has(page string) bool {
	_, ok := m.index[page]
	return ok
}

// All returns the entries as a map. Later duplicates are dropped.
func (m *Manifest) All() map[string]string {
	result := make(map[string]string, len(m.index))
	for page, i := range m.index {
		result[page] = m.entries[i].Artifact
	}
	return result
}
