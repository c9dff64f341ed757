// Package config resolves user-supplied assembler options over defaults
// into the immutable configuration every other component reads.
package config

import (
	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/beautify"
	"github.com/patternforge/patternforge/naming"
)

// Keys names the top-level context keys the catalog, views, and docs are
// exposed under during rendering.
type Keys struct {
	Materials string `yaml:"materials"`
	Views     string `yaml:"views"`
	Docs      string `yaml:"docs"`
}

// Options is the user-facing configuration surface. Zero-valued fields
// fall back to defaults; non-nil slices replace the default patterns
// wholesale rather than appending to them.
type Options struct {
	Layout         string   `yaml:"layout"`
	Layouts        []string `yaml:"layouts"`
	LayoutIncludes []string `yaml:"layout_includes"`
	Views          []string `yaml:"views"`
	Materials      []string `yaml:"materials"`
	CSS            []string `yaml:"css"`
	JS             []string `yaml:"js"`
	Data           []string `yaml:"data"`
	Docs           []string `yaml:"docs"`
	Keys           Keys     `yaml:"keys"`
	Dest           string   `yaml:"dest"`
	BaseURL        string   `yaml:"base_url"`
	Separator      string   `yaml:"separator"`
	TemplateExt    string   `yaml:"template_ext"`

	Beautifier beautify.Config `yaml:"beautifier"`

	// Runtime-only options, never read from a manifest file.
	OnError   func(*apperr.Error)    `yaml:"-"`
	LogErrors bool                   `yaml:"log_errors"`
	Helpers   map[string]interface{} `yaml:"-"`
}

// Config is the resolved, read-only form of Options. It is created once
// per run and never mutated afterward.
type Config struct {
	Layout         string
	Layouts        []string
	LayoutIncludes []string
	Views          []string
	Materials      []string
	CSS            []string
	JS             []string
	Data           []string
	Docs           []string
	Keys           Keys
	Dest           string
	BaseURL        string
	Separator      string
	TemplateExt    string
	Beautifier     beautify.Config
	OnError        func(*apperr.Error)
	LogErrors      bool
	Helpers        map[string]interface{}
}

// Defaults returns the conventional directory layout the assembler
// expects when the user configures nothing.
func Defaults() Options {
	return Options{
		Layout:         "default",
		Layouts:        []string{"src/layouts/*.html"},
		LayoutIncludes: []string{"src/layouts/includes/**/*.html"},
		Views:          []string{"src/views/**/*.html"},
		Materials:      []string{"src/materials/components/**/*", "src/materials/structures/**/*"},
		Data:           []string{"src/data/**/*.{yml,yaml,json}"},
		Docs:           []string{"src/docs/**/*.md"},
		Keys:           Keys{Materials: "materials", Views: "views", Docs: "docs"},
		Dest:           "dist",
		Separator:      naming.DefaultSeparator,
		TemplateExt:    ".html",
		Beautifier:     beautify.Default(),
	}
}

// Resolve merges user options over Defaults and freezes the result.
// Scalars win when non-zero; pattern slices replace the default set at
// the same key when non-nil.
func Resolve(user Options) (*Config, error) {
	opts := Defaults()

	if user.Layout != "" {
		opts.Layout = user.Layout
	}
	if user.Dest != "" {
		opts.Dest = user.Dest
	}
	if user.BaseURL != "" {
		opts.BaseURL = user.BaseURL
	}
	if user.Separator != "" {
		opts.Separator = user.Separator
	}
	if user.TemplateExt != "" {
		opts.TemplateExt = user.TemplateExt
	}
	if user.Keys.Materials != "" {
		opts.Keys.Materials = user.Keys.Materials
	}
	if user.Keys.Views != "" {
		opts.Keys.Views = user.Keys.Views
	}
	if user.Keys.Docs != "" {
		opts.Keys.Docs = user.Keys.Docs
	}
	if user.Beautifier.IndentSize != 0 || user.Beautifier.UseTabs {
		opts.Beautifier = user.Beautifier
	}
	for dst, src := range map[*[]string][]string{
		&opts.Layouts:        user.Layouts,
		&opts.LayoutIncludes: user.LayoutIncludes,
		&opts.Views:          user.Views,
		&opts.Materials:      user.Materials,
		&opts.CSS:            user.CSS,
		&opts.JS:             user.JS,
		&opts.Data:           user.Data,
		&opts.Docs:           user.Docs,
	} {
		if src != nil {
			*dst = src
		}
	}
	opts.OnError = user.OnError
	opts.LogErrors = user.LogErrors
	opts.Helpers = user.Helpers

	if opts.Dest == "" {
		return nil, apperr.New(apperr.ConfigurationError, "dest directory must not be empty")
	}
	if opts.TemplateExt == "" || opts.TemplateExt[0] != '.' {
		return nil, apperr.New(apperr.ConfigurationError, "template_ext must start with a dot")
	}

	return &Config{
		Layout:         opts.Layout,
		Layouts:        opts.Layouts,
		LayoutIncludes: opts.LayoutIncludes,
		Views:          opts.Views,
		Materials:      opts.Materials,
		CSS:            opts.CSS,
		JS:             opts.JS,
		Data:           opts.Data,
		Docs:           opts.Docs,
		Keys:           opts.Keys,
		Dest:           opts.Dest,
		BaseURL:        opts.BaseURL,
		Separator:      opts.Separator,
		TemplateExt:    opts.TemplateExt,
		Beautifier:     opts.Beautifier,
		OnError:        opts.OnError,
		LogErrors:      opts.LogErrors,
		Helpers:        opts.Helpers,
	}, nil
}
