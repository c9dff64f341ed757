// Package data loads structured data files into the flat lookup table
// exposed to templates during rendering.
package data

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/patternforge/patternforge/apperr"
	"github.com/patternforge/patternforge/naming"
)

// Load parses every file matched by the patterns and keys the parsed
// value by the file's canonical id. YAML in both block and flow style is
// accepted, which covers JSON documents as well. A file that cannot be
// read or parsed is reported through the handler and skipped; the rest
// of the store still loads. The store is rebuilt wholesale on each run.
func Load(patterns []string, separator string, h *apperr.Handler) map[string]interface{} {
	store := map[string]interface{}{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			h.Handle(apperr.Wrap(apperr.ConfigurationError, err, "bad data glob pattern").WithPath(pattern))
			continue
		}
		for _, path := range matches {
			raw, err := os.ReadFile(path)
			if err != nil {
				h.Handle(apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot read data file").WithPath(path))
				continue
			}

			var value interface{}
			if err := yaml.Unmarshal(raw, &value); err != nil {
				h.Handle(apperr.Wrap(apperr.ContentParseError, err, "malformed data file").WithPath(path))
				continue
			}

			id := naming.ResolveWith(path, separator, false).ID
			if _, taken := store[id]; taken {
				h.Handle(apperr.New(apperr.ContentParseError,
					"data id "+id+" already loaded from another file").WithPath(path))
				continue
			}
			store[id] = Normalize(value)
		}
	}
	return store
}

// Normalize rewrites the map types the YAML parser produces into
// map[string]interface{} all the way down, so template field access
// works on nested values.
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				m[ks] = Normalize(val)
			}
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = Normalize(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = Normalize(val)
		}
		return s
	default:
		return v
	}
}
