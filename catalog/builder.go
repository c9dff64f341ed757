package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/data"
	"github.com/patternforge/patternforge/naming"
	"github.com/patternforge/patternforge/registry"
)

// Builder walks configured material roots and produces the catalog,
// registering every primary and variant fragment body as a partial.
type Builder struct {
	reg       *registry.Registry
	handler   *apperr.Handler
	separator string
	ext       string
}

func NewBuilder(reg *registry.Registry, handler *apperr.Handler, separator, templateExt string) *Builder {
	return &Builder{reg: reg, handler: handler, separator: separator, ext: strings.ToLower(templateExt)}
}

// Build assembles one Collection per configured root pattern. A root
// whose directory is missing or yields no items is skipped entirely; a
// broken item is reported through the handler and omitted rather than
// failing the build.
func (b *Builder) Build(patterns []string) map[string]*Collection {
	catalog := map[string]*Collection{}

	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		root := filepath.FromSlash(base)

		entries, err := os.ReadDir(root)
		if err != nil {
			// A configured root that does not exist yet is not a fault.
			continue
		}

		name := naming.ResolveWith(root, b.separator, false)
		col := &Collection{
			Name:         name.ID,
			DisplayTitle: name.DisplayTitle,
			Items:        map[string]*Item{},
		}

		// First pass materializes items; variant files sitting directly
		// under the root attach to their parent item in a second pass,
		// regardless of enumeration order.
		var looseVariants []string
		for _, entry := range entries {
			path := filepath.Join(root, entry.Name())
			if entry.IsDir() {
				b.buildDirItem(col, path)
				continue
			}
			if naming.ResolveWith(path, b.separator, false).IsVariant {
				looseVariants = append(looseVariants, path)
				continue
			}
			b.buildFileItem(col, path)
		}
		for _, path := range looseVariants {
			vn := naming.ResolveWith(path, b.separator, false)
			item, ok := col.Items[vn.ParentID]
			if !ok {
				b.handler.Handle(apperr.New(apperr.ContentParseError,
					"variant has no parent item "+vn.ParentID).WithPath(path))
				continue
			}
			b.attachVariant(item, path, vn)
		}

		if len(col.Items) == 0 {
			continue
		}
		col.sortItems()
		catalog[col.Name] = col
	}
	return catalog
}

// buildDirItem treats a sub-directory as one item boundary: the first
// non-variant page template found inside becomes the primary fragment,
// everything carrying the separator token becomes a variant, and any
// other file is an asset the catalog ignores.
func (b *Builder) buildDirItem(col *Collection, dir string) {
	files, err := doublestar.FilepathGlob(filepath.ToSlash(filepath.Join(dir, "**", "*")))
	if err != nil {
		b.handler.Handle(apperr.Wrap(apperr.FileReadError, err, "cannot enumerate item directory").WithPath(dir))
		return
	}

	name := naming.ResolveWith(dir, b.separator, false)
	item := newItem(name, "")

	var variantPaths []naming.Name
	var variantFiles []string
	for _, path := range files {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		if !b.isTemplate(path) {
			continue
		}
		fn := naming.ResolveWith(path, b.separator, false)
		if fn.IsVariant {
			variantPaths = append(variantPaths, fn)
			variantFiles = append(variantFiles, path)
			continue
		}
		if item.SourcePath == "" {
			item.SourcePath = path
		}
	}

	if item.SourcePath == "" {
		b.handler.Handle(apperr.New(apperr.ContentParseError,
			"item "+item.ID+" has no page template").WithPath(dir))
		return
	}
	if !b.registerPrimary(item) {
		return
	}
	for i, fn := range variantPaths {
		b.attachVariant(item, variantFiles[i], fn)
	}
	b.addItem(col, item)
}

// buildFileItem handles a single file sitting directly under the
// collection root: an item with no variants of its own.
func (b *Builder) buildFileItem(col *Collection, path string) {
	if !b.isTemplate(path) {
		return
	}
	item := newItem(naming.ResolveWith(path, b.separator, false), path)
	if !b.registerPrimary(item) {
		return
	}
	b.addItem(col, item)
}

func (b *Builder) addItem(col *Collection, item *Item) {
	if _, ok := col.Items[item.ID]; !ok {
		col.Order = append(col.Order, item.ID)
	}
	col.Items[item.ID] = item
}

// registerPrimary reads the item's primary file, splits front matter
// from body, and registers the body as a partial under the item id.
// Reports and declines the item on any read or parse failure.
func (b *Builder) registerPrimary(item *Item) bool {
	raw, err := os.ReadFile(item.SourcePath)
	if err != nil {
		b.handler.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err),
			"cannot read item template").WithPath(item.SourcePath))
		return false
	}

	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		b.handler.Handle(apperr.Wrap(apperr.ContentParseError, err,
			"malformed front matter").WithPath(item.SourcePath))
		return false
	}
	if normalized, ok := data.Normalize(fm).(map[string]interface{}); ok {
		item.FrontMatter = normalized
	}
	item.IsView = true

	b.reg.Add(item.ID, string(body))
	return true
}

// attachVariant registers a variant file's body under the variant's own
// id and hangs the node off its parent item.
func (b *Builder) attachVariant(item *Item, path string, vn naming.Name) {
	raw, err := os.ReadFile(path)
	if err != nil {
		b.handler.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err),
			"cannot read variant template").WithPath(path))
		return
	}

	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		b.handler.Handle(apperr.Wrap(apperr.ContentParseError, err,
			"malformed front matter").WithPath(path))
		return
	}

	b.reg.Add(vn.ID, string(body))
	item.addVariant(&Variant{ID: vn.ID, DisplayTitle: vn.DisplayTitle, SourcePath: path})
}

func (b *Builder) isTemplate(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == b.ext
}
