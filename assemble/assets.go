package assemble

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"

	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/config"
)

// buildAssets bundles configured JS entry points with esbuild into
// dest/assets/js and copies CSS files verbatim into dest/assets/css.
// Both categories are optional; empty patterns are a no-op.
func buildAssets(cfg *config.Config, h *apperr.Handler) {
	bundleScripts(cfg, h)
	copyStyles(cfg, h)
}

func bundleScripts(cfg *config.Config, h *apperr.Handler) {
	entries := expand(cfg.JS, h)
	if len(entries) == 0 {
		return
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:       entries,
		Bundle:            true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Write:             true,
		Outdir:            filepath.Join(cfg.Dest, "assets", "js"),
	})
	for _, msg := range result.Errors {
		e := apperr.New(apperr.ContentParseError, msg.Text)
		if msg.Location != nil {
			e = e.WithPath(msg.Location.File)
		}
		h.Handle(e)
	}
}

func copyStyles(cfg *config.Config, h *apperr.Handler) {
	outDir := filepath.Join(cfg.Dest, "assets", "css")
	for _, path := range expand(cfg.CSS, h) {
		src, err := os.ReadFile(path)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot read stylesheet").WithPath(path))
			continue
		}
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot create asset directory").WithPath(outDir))
			return
		}
		dst := filepath.Join(outDir, filepath.Base(path))
		if err := os.WriteFile(dst, src, 0644); err != nil {
			h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot write stylesheet").WithPath(dst))
		}
	}
}

func expand(patterns []string, h *apperr.Handler) []string {
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.ConfigurationError, err, "bad asset glob pattern").WithPath(pattern))
			continue
		}
		for _, path := range matches {
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				out = append(out, path)
			}
		}
	}
	return out
}
