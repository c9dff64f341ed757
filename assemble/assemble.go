// Package assemble drives a full build: it wires the registry, data
// store, catalog, and renderer together, renders every view and doc
// page, and writes the finished site to the configured dest directory.
package assemble

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pkg/errors"

	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/catalog"
	"github.com/patternforge/patternforge/config"
	"github.com/patternforge/patternforge/data"
	"github.com/patternforge/patternforge/naming"
	"github.com/patternforge/patternforge/registry"
	"github.com/patternforge/patternforge/render"
	"github.com/patternforge/patternforge/utils"
)

// Result is what a build leaves behind in memory, alongside the files
// written to dest. Tests and embedding callers consume it.
type Result struct {
	Catalog  map[string]*catalog.Collection
	Data     map[string]interface{}
	Registry *registry.Registry
	Renderer *render.Renderer

	// Pages holds the site-relative paths of every written page.
	Pages []string
}

// Run executes one build against a resolved configuration. Per-file
// failures are funneled to the error handler and the build continues
// best-effort; only setup-level failures return an error directly.
func Run(cfg *config.Config) (*Result, error) {
	handler := &apperr.Handler{OnError: cfg.OnError, LogErrors: cfg.LogErrors}

	reg := registry.New()
	if err := reg.AddFromFiles(append(append([]string{}, cfg.Layouts...), cfg.LayoutIncludes...), cfg.Separator); err != nil {
		return nil, err
	}

	store := data.Load(cfg.Data, cfg.Separator, handler)

	builder := catalog.NewBuilder(reg, handler, cfg.Separator, cfg.TemplateExt)
	cat := builder.Build(cfg.Materials)

	ambient := make(map[string]interface{}, len(store)+1)
	for k, v := range store {
		ambient[k] = v
	}
	ambient[cfg.Keys.Materials] = cat

	r := render.New(reg, cfg.Beautifier, cfg.Separator, ambient, cfg.Helpers)

	res := &Result{Catalog: cat, Data: store, Registry: reg, Renderer: r}

	if err := os.MkdirAll(cfg.Dest, os.ModePerm); err != nil {
		return nil, apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot create dest directory").WithPath(cfg.Dest)
	}

	assembleViews(cfg, r, handler, res)
	assembleDocs(cfg, r, handler, res)
	buildAssets(cfg, handler)

	if cfg.BaseURL != "" {
		if err := utils.WriteSitemap(cfg.Dest, cfg.BaseURL, res.Pages); err != nil {
			handler.Handle(err)
		}
	}

	return res, nil
}

// assembleViews renders every page template matched by the views
// patterns: front matter split, body executed, result wrapped in the
// layout (front matter "layout" key overriding the configured default)
// and written under dest mirroring the source tree.
func assembleViews(cfg *config.Config, r *render.Renderer, h *apperr.Handler, res *Result) {
	forEachMatch(cfg.Views, h, func(base, path string) {
		raw, err := os.ReadFile(path)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot read view").WithPath(path))
			return
		}

		var fm map[string]interface{}
		body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.ContentParseError, err, "malformed front matter").WithPath(path))
			return
		}
		front, _ := data.Normalize(fm).(map[string]interface{})

		content, err := r.RenderPage(string(body), path, front)
		if err != nil {
			h.Handle(err)
			return
		}
		writePage(cfg, r, h, res, base, path, front, content)
	})
}

// assembleDocs converts markdown documentation pages to HTML and wraps
// them in the layout like any other view.
func assembleDocs(cfg *config.Config, r *render.Renderer, h *apperr.Handler, res *Result) {
	forEachMatch(cfg.Docs, h, func(base, path string) {
		raw, err := os.ReadFile(path)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot read doc").WithPath(path))
			return
		}

		var fm map[string]interface{}
		body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.ContentParseError, err, "malformed front matter").WithPath(path))
			return
		}
		front, _ := data.Normalize(fm).(map[string]interface{})
		if front == nil {
			front = map[string]interface{}{}
		}
		if _, ok := front["title"]; !ok {
			front["title"] = naming.ResolveWith(path, cfg.Separator, false).DisplayTitle
		}

		// Parsers are single-use, one per document.
		p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
		content := string(markdown.ToHTML(body, p, nil))

		writePage(cfg, r, h, res, base, path, front, content)
	})
}

// writePage wraps rendered content in its layout and writes the page to
// dest, recording the site-relative route on the Result.
func writePage(cfg *config.Config, r *render.Renderer, h *apperr.Handler, res *Result, base, path string, front map[string]interface{}, content string) {
	layoutID := cfg.Layout
	if v, ok := front["layout"].(string); ok && v != "" {
		layoutID = v
	}

	page, err := r.RenderLayout(layoutID, front, content)
	if err != nil {
		h.Handle(err)
		return
	}

	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"

	outPath := filepath.Join(cfg.Dest, rel)
	if err := os.MkdirAll(filepath.Dir(outPath), os.ModePerm); err != nil {
		h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot create output directory").WithPath(outPath))
		return
	}
	if err := os.WriteFile(outPath, []byte(page), 0644); err != nil {
		h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot write page").WithPath(outPath))
		return
	}

	res.Pages = append(res.Pages, "/"+filepath.ToSlash(rel))
	fmt.Printf("Generated %s\n", outPath)
}

// forEachMatch expands each glob pattern and invokes fn with the
// pattern's static base dir and each matched regular file.
func forEachMatch(patterns []string, h *apperr.Handler, fn func(base, path string)) {
	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.ConfigurationError, err, "bad glob pattern").WithPath(pattern))
			continue
		}
		for _, path := range matches {
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				continue
			}
			fn(filepath.FromSlash(base), path)
		}
	}
}
