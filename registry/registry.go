// Package registry holds the named template partials available to the
// renderer: layouts, layout includes, and every catalog leaf fragment.
package registry

import (
	"os"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobuffalo/plush"
	"github.com/pkg/errors"

	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/naming"
)

type entry struct {
	source string
	tpl    *plush.Template
}

// Registry maps canonical partial ids to template sources. Sources are
// compiled lazily on first lookup and the compiled form replaces the raw
// one, so each partial compiles at most once per run.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func New() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

// Add registers raw template source under an id. A later Add for the
// same id replaces the earlier entry, including any compiled form.
func (r *Registry) Add(id, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry{source: source}
}

// AddFromFiles eagerly registers every file matched by the glob
// patterns, keyed by the file's canonical id. Used for layouts and
// layout includes; catalog fragments arrive through the catalog builder.
func (r *Registry) AddFromFiles(patterns []string, separator string) error {
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return apperr.Wrap(apperr.ConfigurationError, err, "bad glob pattern").WithPath(pattern)
		}
		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot read template file").WithPath(path)
			}
			r.Add(naming.ResolveWith(path, separator, false).ID, string(src))
		}
	}
	return nil
}

// Has reports whether an id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Template returns the compiled template for an id, compiling and
// caching it on first use. A missing id is a PartialNotFoundError; a
// source that will not parse is a TemplateCompileError.
func (r *Registry) Template(id string) (*plush.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, apperr.New(apperr.PartialNotFoundError, "no partial registered as "+quote(id))
	}
	if e.tpl == nil {
		tpl, err := plush.Parse(e.source)
		if err != nil {
			return nil, apperr.Wrap(apperr.TemplateCompileError, err, "cannot compile partial "+quote(id))
		}
		e.tpl = tpl
		e.source = ""
	}
	return e.tpl, nil
}

func quote(id string) string {
	return `"` + id + `"`
}
