package naming

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path  string
		id    string
		title string
		rank  int
	}{
		{"02-Button.html", "button", "Button", 2},
		{"Foo Bar.html", "foo-bar", "Foo Bar", Unranked},
		{"10-data_table.html", "data_table", "Data Table", 10},
		{"src/materials/components/01-button.html", "button", "Button", 1},
		{"card", "card", "Card", Unranked},
		{"02.01-nested.html", "nested", "Nested", 2},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Resolve(tt.path, false)
			if got.ID != tt.id {
				t.Errorf("ID = %q, want %q", got.ID, tt.id)
			}
			if got.DisplayTitle != tt.title {
				t.Errorf("DisplayTitle = %q, want %q", got.DisplayTitle, tt.title)
			}
			if got.OrderRank != tt.rank {
				t.Errorf("OrderRank = %d, want %d", got.OrderRank, tt.rank)
			}
			if got.IsVariant {
				t.Errorf("IsVariant = true, want false")
			}
		})
	}
}

func TestResolveVariant(t *testing.T) {
	got := Resolve("button--large.html", false)
	if !got.IsVariant {
		t.Fatal("IsVariant = false, want true")
	}
	if got.ParentID != "button" {
		t.Errorf("ParentID = %q, want %q", got.ParentID, "button")
	}
	if got.ID != "large" {
		t.Errorf("ID = %q, want %q", got.ID, "large")
	}
	if got.DisplayTitle != "Large" {
		t.Errorf("DisplayTitle = %q, want %q", got.DisplayTitle, "Large")
	}

	// Ordering prefixes sit on the parent half.
	got = Resolve("03-button--primary.html", false)
	if got.OrderRank != 3 {
		t.Errorf("OrderRank = %d, want 3", got.OrderRank)
	}
	if got.ParentID != "button" {
		t.Errorf("ParentID = %q, want %q", got.ParentID, "button")
	}
}

func TestResolvePreserveNumbers(t *testing.T) {
	got := Resolve("02-Button.html", true)
	if got.ID != "02-button" {
		t.Errorf("ID = %q, want %q", got.ID, "02-button")
	}
	if got.OrderRank != 2 {
		t.Errorf("OrderRank = %d, want 2", got.OrderRank)
	}
}

func TestResolveNumericOnlyName(t *testing.T) {
	// A name that is nothing but an ordering prefix keeps its numerals;
	// an empty id would collide across siblings.
	got := Resolve("01.html", false)
	if got.ID != "01" {
		t.Errorf("ID = %q, want %q", got.ID, "01")
	}
	if got.OrderRank != 1 {
		t.Errorf("OrderRank = %d, want 1", got.OrderRank)
	}
}

func TestResolveCustomSeparator(t *testing.T) {
	got := ResolveWith("button__ghost.html", "__", false)
	if !got.IsVariant || got.ParentID != "button" || got.ID != "ghost" {
		t.Errorf("unexpected name %+v", got)
	}

	// With a custom separator, "--" is plain punctuation.
	got = ResolveWith("button--large.html", "__", false)
	if got.IsVariant {
		t.Error("IsVariant = true with non-matching separator")
	}
}

func TestResolveIDShape(t *testing.T) {
	paths := []string{
		"02-Button.html",
		"Foo Bar.html",
		"  spaced   out .html",
		"01.html",
		"UPPER-Case.HTML",
		"weird..--..name.html",
	}
	for _, p := range paths {
		id := Resolve(p, false).ID
		if id == "" {
			t.Errorf("Resolve(%q).ID is empty", p)
			continue
		}
		if strings.ContainsAny(id, " \t\n") {
			t.Errorf("Resolve(%q).ID = %q contains whitespace", p, id)
		}
		if id[0] == '.' || id[0] == '-' {
			t.Errorf("Resolve(%q).ID = %q starts with separator punctuation", p, id)
		}
	}
}
