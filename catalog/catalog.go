// Package catalog groups material fragment files into the hierarchical
// catalog of collections, items, and variants, registering each leaf
// fragment as a renderable partial along the way.
package catalog

import (
	"sort"

	"github.com/patternforge/patternforge/naming"
)

// Collection is one configured material root, e.g. "components".
type Collection struct {
	Name         string
	DisplayTitle string
	Items        map[string]*Item

	// Order holds item ids sorted by OrderRank ascending, ties kept in
	// directory enumeration order. Navigation rendering consumes this.
	Order []string
}

// Item is a single material: a component with an optional set of
// variants. The primary fragment is registered as a partial under ID.
type Item struct {
	ID           string
	DisplayTitle string
	OrderRank    int
	FrontMatter  map[string]interface{}
	Variants     map[string]*Variant
	VariantOrder []string
	IsView       bool
	SourcePath   string
}

// Variant is an alternate rendering of an item. Its partial id is the
// variant's own stripped id, never prefixed by the parent.
type Variant struct {
	ID           string
	DisplayTitle string
	SourcePath   string
}

func (c *Collection) sortItems() {
	ids := make([]string, 0, len(c.Order))
	ids = append(ids, c.Order...)
	sort.SliceStable(ids, func(i, j int) bool {
		return c.Items[ids[i]].OrderRank < c.Items[ids[j]].OrderRank
	})
	c.Order = ids
}

func (i *Item) addVariant(v *Variant) {
	if _, ok := i.Variants[v.ID]; !ok {
		i.VariantOrder = append(i.VariantOrder, v.ID)
	}
	i.Variants[v.ID] = v
}

func newItem(name naming.Name, sourcePath string) *Item {
	return &Item{
		ID:           name.ID,
		DisplayTitle: name.DisplayTitle,
		OrderRank:    name.OrderRank,
		Variants:     map[string]*Variant{},
		SourcePath:   sourcePath,
	}
}
