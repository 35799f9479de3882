// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// OptionsPathEnv overrides the location of the dedicated options file.
	OptionsPathEnv = "COMBINED_MODELS_CONFIG"

	// HostConfigKey is the section of the host YAML config holding options.
	HostConfigKey = "combined-models"

	optionsFileName = "combined-models.json"
)

// DefaultOptionsPath returns the dedicated options file location:
// $COMBINED_MODELS_CONFIG when set, otherwise ~/.config/opencode/combined-models.json.
// It returns "" when neither the env var nor a home directory is available.
func DefaultOptionsPath() string {
	if p := strings.TrimSpace(os.Getenv(OptionsPathEnv)); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "opencode", optionsFileName)
}

// Loader resolves Options from its sources. Precedence, lowest first:
// defaults, the host config section, the dedicated options file. Each source
// overrides only the keys it sets.
type Loader struct {
	// HostConfigPath is a YAML host config; options live under HostConfigKey.
	HostConfigPath string
	// OptionsPath is the dedicated JSON options file.
	OptionsPath string
}

// NewLoader returns a loader reading the default options file and the given host config.
func NewLoader(hostConfigPath string) *Loader {
	return &Loader{HostConfigPath: hostConfigPath, OptionsPath: DefaultOptionsPath()}
}

// Load resolves options. It never fails; problems with a source are logged and
// that source is ignored.
func (l *Loader) Load() Options {
	opts := DefaultOptions()
	if l == nil {
		return opts
	}
	if l.HostConfigPath != "" {
		if err := applyHostConfig(&opts, l.HostConfigPath); err != nil {
			logLoadError(err)
		}
	}
	if l.OptionsPath != "" {
		if err := applyOptionsFile(&opts, l.OptionsPath); err != nil {
			logLoadError(err)
		}
	}
	opts.Sanitize()
	return opts
}

// Paths lists the files the loader reads, for watching.
func (l *Loader) Paths() []string {
	if l == nil {
		return nil
	}
	var out []string
	for _, p := range []string{l.HostConfigPath, l.OptionsPath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func logLoadError(err error) {
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("%v", err)
		return
	}
	log.Warnf("%v; ignoring this source", err)
}

// applyOptionsFile overlays the JSON options file onto opts. On any error opts is left untouched.
func applyOptionsFile(opts *Options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read options file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	next := opts.clone()
	if err := json.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("config: parse options file %s: %w", path, err)
	}
	*opts = next
	return nil
}

// applyHostConfig overlays the HostConfigKey section of a YAML host config onto opts.
// On any error opts is left untouched.
func applyHostConfig(opts *Options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read host config: %w", err)
	}
	var root struct {
		Combined yaml.Node `yaml:"combined-models"`
	}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("config: parse host config %s: %w", path, err)
	}
	if root.Combined.IsZero() {
		return nil
	}
	next := opts.clone()
	if err := root.Combined.Decode(&next); err != nil {
		return fmt.Errorf("config: decode %s section of %s: %w", HostConfigKey, path, err)
	}
	*opts = next
	return nil
}
