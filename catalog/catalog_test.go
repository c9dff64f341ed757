package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/naming"
	"github.com/patternforge/patternforge/registry"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, src := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func buildFixture(t *testing.T, files map[string]string) (map[string]*Collection, *registry.Registry, *[]*apperr.Error) {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, files)

	var errs []*apperr.Error
	h := &apperr.Handler{OnError: func(e *apperr.Error) { errs = append(errs, e) }}
	reg := registry.New()
	b := NewBuilder(reg, h, naming.DefaultSeparator, ".html")
	cat := b.Build([]string{filepath.Join(dir, "materials", "components", "**", "*")})
	return cat, reg, &errs
}

const buttonSource = "---\ntitle: Button\n---\n<button><%= label %></button>\n"

func TestBuildCollection(t *testing.T) {
	cat, reg, errs := buildFixture(t, map[string]string{
		"materials/components/01-button.html":          buttonSource,
		"materials/components/button--large.html":      `<button class="lg"><%= label %></button>`,
		"materials/components/02-card/card.html":       "---\ntitle: Card\n---\n<div class=\"card\"></div>\n",
		"materials/components/02-card/card--flat.html": `<div class="card flat"></div>`,
	})

	if len(*errs) != 0 {
		t.Fatalf("unexpected errors: %v", *errs)
	}

	col, ok := cat["components"]
	if !ok {
		t.Fatalf("catalog = %v, want collection %q", cat, "components")
	}
	if col.DisplayTitle != "Components" {
		t.Errorf("DisplayTitle = %q", col.DisplayTitle)
	}
	if !reflect.DeepEqual(col.Order, []string{"button", "card"}) {
		t.Errorf("Order = %v, want [button card]", col.Order)
	}

	button := col.Items["button"]
	if button == nil {
		t.Fatal("item button missing")
	}
	if button.OrderRank != 1 {
		t.Errorf("button.OrderRank = %d, want 1", button.OrderRank)
	}
	if button.FrontMatter["title"] != "Button" {
		t.Errorf("button.FrontMatter = %v", button.FrontMatter)
	}
	if !button.IsView {
		t.Error("button.IsView = false")
	}

	large := button.Variants["large"]
	if large == nil {
		t.Fatalf("variant large missing: %v", button.Variants)
	}
	if large.DisplayTitle != "Large" {
		t.Errorf("large.DisplayTitle = %q", large.DisplayTitle)
	}

	card := col.Items["card"]
	if card == nil {
		t.Fatal("item card missing")
	}
	if card.Variants["flat"] == nil {
		t.Errorf("card variants = %v, want flat", card.Variants)
	}

	// Every primary and variant body is registered under its own
	// stripped id, never composed with the parent's.
	for _, id := range []string{"button", "large", "card", "flat"} {
		if !reg.Has(id) {
			t.Errorf("partial %q not registered (have %v)", id, reg.IDs())
		}
	}
}

func TestBuildNumericOrdering(t *testing.T) {
	cat, _, _ := buildFixture(t, map[string]string{
		"materials/components/1-alpha.html":  "<i></i>",
		"materials/components/2-beta.html":   "<i></i>",
		"materials/components/10-gamma.html": "<i></i>",
		"materials/components/zz-omega.html": "<i></i>",
	})

	col := cat["components"]
	if col == nil {
		t.Fatal("collection missing")
	}
	// Numeric, not lexicographic: 10 lands after 2. Unnumbered
	// siblings sort after every numbered one.
	want := []string{"alpha", "beta", "gamma", "zz-omega"}
	if !reflect.DeepEqual(col.Order, want) {
		t.Errorf("Order = %v, want %v", col.Order, want)
	}
}

func TestBuildIdempotent(t *testing.T) {
	files := map[string]string{
		"materials/components/01-button.html":     buttonSource,
		"materials/components/button--large.html": `<button></button>`,
		"materials/components/05-nav/nav.html":    "<nav></nav>",
	}
	dir := t.TempDir()
	writeTree(t, dir, files)
	h := &apperr.Handler{OnError: func(*apperr.Error) {}}
	pattern := []string{filepath.Join(dir, "materials", "components", "**", "*")}

	first := NewBuilder(registry.New(), h, "--", ".html").Build(pattern)
	second := NewBuilder(registry.New(), h, "--", ".html").Build(pattern)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("catalog differs across identical builds:\n%#v\n%#v", first, second)
	}
}

func TestBuildSkipsEmptyRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "materials", "structures"), 0755); err != nil {
		t.Fatal(err)
	}
	h := &apperr.Handler{OnError: func(*apperr.Error) {}}
	cat := NewBuilder(registry.New(), h, "--", ".html").Build([]string{
		filepath.Join(dir, "materials", "structures", "**", "*"),
		filepath.Join(dir, "materials", "missing", "**", "*"),
	})
	if len(cat) != 0 {
		t.Errorf("catalog = %v, want no collections for empty/missing roots", cat)
	}
}

func TestBuildReportsItemWithoutTemplate(t *testing.T) {
	cat, _, errs := buildFixture(t, map[string]string{
		"materials/components/01-button.html":      buttonSource,
		"materials/components/02-icons/readme.txt": "not a template",
	})

	col := cat["components"]
	if col == nil {
		t.Fatal("collection missing")
	}
	if _, ok := col.Items["icons"]; ok {
		t.Error("template-less item was materialized")
	}
	found := false
	for _, e := range *errs {
		if e.Name == apperr.ContentParseError {
			found = true
		}
	}
	if !found {
		t.Errorf("no ContentParseError reported for template-less item: %v", *errs)
	}
}

func TestBuildReportsOrphanVariant(t *testing.T) {
	cat, _, errs := buildFixture(t, map[string]string{
		"materials/components/01-button.html":     buttonSource,
		"materials/components/ghost--spooky.html": "<span></span>",
	})

	if len(*errs) != 1 || (*errs)[0].Name != apperr.ContentParseError {
		t.Fatalf("errors = %v, want one ContentParseError", *errs)
	}
	if len(cat["components"].Items) != 1 {
		t.Errorf("items = %v, want button only", cat["components"].Items)
	}
}

func TestBuildAssetsIgnored(t *testing.T) {
	cat, reg, errs := buildFixture(t, map[string]string{
		"materials/components/01-button/button.html": buttonSource,
		"materials/components/01-button/button.css":  ".btn {}",
		"materials/components/01-button/notes.md":    "# notes",
	})

	if len(*errs) != 0 {
		t.Fatalf("unexpected errors: %v", *errs)
	}
	button := cat["components"].Items["button"]
	if button == nil {
		t.Fatal("item button missing")
	}
	if len(button.Variants) != 0 {
		t.Errorf("assets leaked into variants: %v", button.Variants)
	}
	if reg.Has("notes") {
		t.Error("non-template file registered as a partial")
	}
}
