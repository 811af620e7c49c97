package routedef

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

func TestBuilder_PreservesOrder(t *testing.T) {
	b := NewBuilder(routekind.PagesAPI, pagesDefinition)
	pages := []string{"/api/z", "/api/a", "/api/m"}
	for _, page := range pages {
		if err := b.Add(page, "/out"+page+".js"); err != nil {
			t.Fatalf("Add(%q) error = %v", page, err)
		}
	}

	set, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if set.Kind() != routekind.PagesAPI {
		t.Errorf("Kind() = %v", set.Kind())
	}
	got := set.Pages()
	for i := range pages {
		if got[i] != pages[i] {
			t.Errorf("Pages()[%d] = %q, want %q", i, got[i], pages[i])
		}
	}

	def, ok := set.Get("/api/a")
	if !ok {
		t.Fatal("Get(/api/a) not found")
	}
	want := Definition{
		Kind:       routekind.PagesAPI,
		Page:       "/api/a",
		Pathname:   "/api/a",
		BundlePath: "pages/api/a",
		Filename:   "/out/api/a.js",
	}
	if def != want {
		t.Errorf("Get(/api/a) = %+v, want %+v", def, want)
	}
}

func TestBuilder_RejectsDuplicate(t *testing.T) {
	b := NewBuilder(routekind.Pages, nil)
	if err := b.Add("/about", "/out/about.js"); err != nil {
		t.Fatal(err)
	}

	err := b.Add("/about", "/out/about-2.js")
	if !stderrors.Is(err, errors.ErrDuplicateRoute) {
		t.Fatalf("second Add error = %v, want ErrDuplicateRoute", err)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBuilder_SpentAfterBuild(t *testing.T) {
	b := NewBuilder(routekind.AppRoute, appDefinition)
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}

	if err := b.Add("/x/route", "/out/x.js"); !stderrors.Is(err, errors.ErrBuilderSpent) {
		t.Errorf("Add after Build error = %v, want ErrBuilderSpent", err)
	}
	if _, err := b.Build(); !stderrors.Is(err, errors.ErrBuilderSpent) {
		t.Errorf("second Build error = %v, want ErrBuilderSpent", err)
	}
}

func TestBuilder_Empty(t *testing.T) {
	set, err := NewBuilder(routekind.AppPage, nil).Build()
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 0 || set.All() == nil {
		t.Errorf("empty build = %d definitions (nil=%v)", set.Len(), set.All() == nil)
	}
}

func TestBuilder_KindAndFieldsCannotBeOverridden(t *testing.T) {
	b := NewBuilder(routekind.AppRoute, func(page, filename string) Definition {
		return Definition{Kind: routekind.Pages, Page: "other", Filename: "other", Pathname: "/p"}
	})
	if err := b.Add("/p/route", "/out/p.js"); err != nil {
		t.Fatal(err)
	}
	set, _ := b.Build()
	def := set.At(0)
	if def.Kind != routekind.AppRoute || def.Page != "/p/route" || def.Filename != "/out/p.js" {
		t.Errorf("definition = %+v", def)
	}
	if def.Pathname != "/p" {
		t.Errorf("Pathname = %q, want value from DefinitionFunc", def.Pathname)
	}
}

func TestSet_IsImmutable(t *testing.T) {
	b := NewBuilder(routekind.Pages, nil)
	_ = b.Add("/a", "/out/a.js")
	set, _ := b.Build()

	all := set.All()
	all[0].Filename = "changed"
	if set.At(0).Filename != "/out/a.js" {
		t.Error("All() should return a copy")
	}
}

func TestSet_Equal(t *testing.T) {
	build := func(pages ...string) *Set {
		b := NewBuilder(routekind.Pages, nil)
		for _, p := range pages {
			_ = b.Add(p, "/out"+p+".js")
		}
		s, _ := b.Build()
		return s
	}

	if !build("/a", "/b").Equal(build("/a", "/b")) {
		t.Error("identical sets should be equal")
	}
	if build("/a", "/b").Equal(build("/b", "/a")) {
		t.Error("order should matter")
	}
	var nilSet *Set
	if nilSet.Equal(build()) || !nilSet.Equal(nil) {
		t.Error("nil handling is wrong")
	}
}
