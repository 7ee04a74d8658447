// Package userconfig loads an optional user-level defaults file for gomk's
// run-options surface, grounded on aretext's app/config.go: an XDG config
// path resolved with github.com/adrg/xdg, a YAML document read with
// gopkg.in/yaml.v3, missing-file and parse errors handled the same way
// (missing is not an error; a malformed file is).
package userconfig

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults holds the subset of the run-options surface a user may pin in
// their config file. Zero values mean "unset"; explicit CLI flags always
// take precedence over whatever is loaded here.
type Defaults struct {
	Makefile     string `yaml:"makefile,omitempty"`
	KeepGoing    bool   `yaml:"keepGoing,omitempty"`
	Silent       bool   `yaml:"silent,omitempty"`
	DryRun       bool   `yaml:"dryRun,omitempty"`
	AlwaysMake   bool   `yaml:"alwaysMake,omitempty"`
	IgnoreErrors bool   `yaml:"ignoreErrors,omitempty"`
}

// ConfigPath returns the XDG-resolved path to gomk's config file.
func ConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("gomk", "config.yaml"))
	if err != nil {
		return "", errors.Wrap(err, "resolve XDG config path")
	}
	return path, nil
}

// Load reads the user config file if present. A missing file is not an
// error — it yields the zero Defaults, matching "no overrides configured".
func Load() (Defaults, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults{}, err
	}
	return loadFrom(path)
}

// loadFrom parses the config file at path, isolated from ConfigPath/XDG
// resolution so it can be exercised directly against a temp file.
func loadFrom(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			glog.V(1).Infof("no user config at %q, using built-in defaults", path)
			return Defaults{}, nil
		}
		return Defaults{}, errors.Wrapf(err, "read config %q", path)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, errors.Wrapf(err, "parse config %q", path)
	}
	glog.V(1).Infof("loaded user config from %q: %+v", path, d)
	return d, nil
}
