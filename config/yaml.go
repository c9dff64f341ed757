package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/patternforge/patternforge/apperr"
)

// LoadFile reads Options from a YAML manifest. Missing file is not an
// error when optional is set, so the CLI can fall back to pure defaults.
func LoadFile(path string, optional bool) (Options, error) {
	var opts Options

	raw, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return opts, nil
		}
		return opts, apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot read config manifest").WithPath(path)
	}

	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, apperr.Wrap(apperr.ContentParseError, err, "malformed config manifest").WithPath(path)
	}
	return opts, nil
}
