package routekind

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/vango-dev/routedefs/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"APP_ROUTE", AppRoute},
		{"app-route", AppRoute},
		{"pages_api", PagesAPI},
		{" Pages ", Pages},
		{"APP-PAGE", AppPage},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("middleware")
	if !stderrors.Is(err, errors.ErrUnknownKind) {
		t.Errorf("Parse(middleware) error = %v, want ErrUnknownKind", err)
	}
}

func TestStringAndSlug(t *testing.T) {
	if PagesAPI.String() != "PAGES_API" {
		t.Errorf("String() = %q", PagesAPI.String())
	}
	if PagesAPI.Slug() != "pages-api" {
		t.Errorf("Slug() = %q", PagesAPI.Slug())
	}
	if Kind(42).String() != "UNKNOWN" || Kind(42).Valid() {
		t.Error("Kind(42) should be unknown and invalid")
	}
}

func TestAll_RoundTrip(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(k.Slug())
		if err != nil || got != k {
			t.Errorf("Parse(%q) = %v, %v; want %v", k.Slug(), got, err, k)
		}
	}
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Kind{"kind": AppRoute})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"kind":"APP_ROUTE"}` {
		t.Errorf("Marshal = %s", data)
	}

	var decoded struct{ Kind Kind }
	if err := json.Unmarshal([]byte(`{"Kind":"pages-api"}`), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Kind != PagesAPI {
		t.Errorf("Unmarshal kind = %v, want PAGES_API", decoded.Kind)
	}
}
