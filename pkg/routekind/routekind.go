// Package routekind defines the closed set of route categories a route
// definition can belong to.
package routekind

import (
	"strings"

	"github.com/vango-dev/routedefs/internal/errors"
)

// Kind identifies the category of a route definition.
type Kind int

const (
	// AppPage is a page rendered by the app router (".../page").
	AppPage Kind = iota + 1

	// AppRoute is a route handler served by the app router (".../route").
	AppRoute

	// Pages is a page served by the pages router.
	Pages

	// PagesAPI is an API route served by the pages router ("/api/...").
	PagesAPI
)

var names = map[Kind]string{
	AppPage:  "APP_PAGE",
	AppRoute: "APP_ROUTE",
	Pages:    "PAGES",
	PagesAPI: "PAGES_API",
}

// All returns every kind in declaration order.
func All() []Kind {
	return []Kind{AppPage, AppRoute, Pages, PagesAPI}
}

// String returns the canonical upper-case name of the kind.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Slug returns the lower-case, dash separated name used in URLs and flags.
func (k Kind) Slug() string {
	return strings.ToLower(strings.ReplaceAll(k.String(), "_", "-"))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := names[k]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Parse accepts either the canonical name ("PAGES_API") or the slug
// ("pages-api"), case-insensitively.
func Parse(s string) (Kind, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for k, n := range names {
		if n == norm {
			return k, nil
		}
	}
	return 0, errors.New("R006").WithDetailf("%q is not one of %s", s, strings.Join(Names(), ", "))
}

// Names returns the canonical names of all kinds.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, k := range All() {
		out = append(out, k.String())
	}
	return out
}
