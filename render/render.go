// Package render executes registered partials against merged render
// contexts and exposes the nested-inclusion "material" directive to
// templates.
package render

import (
	"errors"
	"html/template"
	"strings"

	"github.com/gobuffalo/plush"

	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/beautify"
	"github.com/patternforge/patternforge/naming"
	"github.com/patternforge/patternforge/registry"
)

// maxIncludeDepth bounds nested material inclusion. The catalog is a
// tree, so legitimate nesting stays shallow; anything deeper is a cycle
// the in-flight check missed through re-registration tricks.
const maxIncludeDepth = 32

// Renderer resolves partials by name, compiles them on demand through
// the registry's cache, merges context layers, renders, trims, and
// pretty-prints. Single-threaded use, matching the one-shot build.
type Renderer struct {
	reg        *registry.Registry
	beautifier beautify.Config
	separator  string
	helpers    map[string]interface{}
	ambient    map[string]interface{}

	stack    []string
	inFlight map[string]struct{}

	// lastErr preserves the structured error raised inside a material
	// call; plush wraps helper errors in a way that can sever the chain.
	lastErr *apperr.Error
}

// New builds a Renderer. The ambient map is the lowest-precedence
// context layer: the data store plus whatever the assembler exposes
// (catalog, site values). Helpers are user functions resolved once at
// setup and set on every render context.
func New(reg *registry.Registry, beautifier beautify.Config, separator string, ambient, helpers map[string]interface{}) *Renderer {
	return &Renderer{
		reg:        reg,
		beautifier: beautifier,
		separator:  separator,
		helpers:    helpers,
		ambient:    ambient,
		inFlight:   map[string]struct{}{},
	}
}

// Render resolves a partial by name and renders it with the explicit
// argument hash layered over the ambient context. The returned markup
// is trimmed and pretty-printed.
func (r *Renderer) Render(name string, explicit map[string]interface{}) (string, error) {
	r.lastErr = nil
	return r.render(name, nil, explicit)
}

// RenderPage compiles and executes a page body (already split from its
// front matter) with the front matter merged into the ambient context.
// The raw result is returned untrimmed; layout wrapping and
// pretty-printing happen in RenderLayout.
func (r *Renderer) RenderPage(body, path string, front map[string]interface{}) (string, error) {
	r.lastErr = nil
	tpl, err := plush.Parse(body)
	if err != nil {
		return "", apperr.Wrap(apperr.TemplateCompileError, err, "cannot compile page").WithPath(path)
	}
	out, err := tpl.Exec(r.contextFor(front, nil))
	if err != nil {
		return "", r.renderError(err, path)
	}
	return out, nil
}

// RenderLayout wraps rendered page content in the named layout partial,
// exposing the content as "yield", and pretty-prints the whole page.
func (r *Renderer) RenderLayout(layoutID string, front map[string]interface{}, content string) (string, error) {
	r.lastErr = nil
	id := r.normalize(layoutID)
	tpl, err := r.reg.Template(id)
	if err != nil {
		return "", err
	}
	ctx := r.contextFor(front, nil)
	ctx.Set("yield", template.HTML(content))
	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", r.renderError(err, layoutID)
	}
	return beautify.Format(strings.TrimLeft(out, " \t\r\n"), r.beautifier)
}

func (r *Renderer) render(name string, front, explicit map[string]interface{}) (string, error) {
	id := r.normalize(name)

	if _, busy := r.inFlight[id]; busy {
		return "", apperr.New(apperr.CyclicIncludeError,
			"partial "+id+" includes itself (via "+strings.Join(r.stack, " > ")+")")
	}
	if len(r.stack) >= maxIncludeDepth {
		return "", apperr.New(apperr.CyclicIncludeError,
			"material inclusion deeper than "+strings.Join(r.stack, " > "))
	}

	tpl, err := r.reg.Template(id)
	if err != nil {
		return "", err
	}

	r.stack = append(r.stack, id)
	r.inFlight[id] = struct{}{}
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.inFlight, id)
	}()

	out, err := tpl.Exec(r.contextFor(front, explicit))
	if err != nil {
		return "", r.renderError(err, name)
	}

	return beautify.Format(strings.TrimLeft(out, " \t\r\n"), r.beautifier)
}

// normalize strips ordering prefixes from a partial reference the same
// way the catalog builder does at registration, applied twice so a
// doubled prefix form like "02.01-button" also resolves.
func (r *Renderer) normalize(name string) string {
	id := naming.ResolveWith(name, r.separator, false).ID
	return naming.ResolveWith(id, r.separator, false).ID
}

// contextFor builds a fresh merged context per render call: ambient
// data lowest, the enclosing page's front matter over it, the explicit
// argument hash highest. Nothing in the merged map is mutated after.
func (r *Renderer) contextFor(front, explicit map[string]interface{}) *plush.Context {
	merged := make(map[string]interface{}, len(r.ambient)+len(front)+len(explicit))
	for k, v := range r.ambient {
		merged[k] = v
	}
	for k, v := range front {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}

	ctx := plush.NewContextWith(merged)
	for name, fn := range r.helpers {
		ctx.Set(name, fn)
	}
	ctx.Set("material", func(name string, opts ...map[string]interface{}) (template.HTML, error) {
		var args map[string]interface{}
		if len(opts) > 0 {
			args = opts[0]
		}
		out, err := r.render(name, front, args)
		if err != nil {
			var ae *apperr.Error
			if errors.As(err, &ae) {
				r.lastErr = ae
			}
			return "", err
		}
		return template.HTML(out), nil
	})
	return ctx
}

func (r *Renderer) renderError(err error, path string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	if r.lastErr != nil {
		ae, r.lastErr = r.lastErr, nil
		return ae
	}
	return apperr.Wrap(apperr.TemplateRenderError, err, "cannot render template").WithPath(path)
}
