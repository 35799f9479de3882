// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, opts.ProviderPriority)
	assert.Equal(t, 2, opts.MinProviders)
	assert.Equal(t, StrategyOnError, opts.Strategy)
	assert.Equal(t, 3, opts.MaxAttempts)
	assert.False(t, opts.CombineLatest)
}

func TestSanitize(t *testing.T) {
	opts := Options{
		ProviderPriority: []string{" b ", "", "a", "b"},
		MinProviders:     0,
		Strategy:         " ON_RATE_LIMIT ",
		MaxAttempts:      -1,
	}
	opts.Sanitize()

	assert.Equal(t, []string{"b", "a"}, opts.ProviderPriority)
	assert.Equal(t, DefaultMinProviders, opts.MinProviders)
	assert.Equal(t, StrategyOnRateLimit, opts.Strategy)
	assert.Equal(t, DefaultMaxAttempts, opts.MaxAttempts)
}

func TestSanitize_UnknownStrategy(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = "on_timeout"
	opts.Sanitize()
	assert.Equal(t, StrategyOnError, opts.Strategy)
}

func TestStrategy_Valid(t *testing.T) {
	for _, s := range []Strategy{StrategyOnError, StrategyOnRateLimit, StrategyOnOverload} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Strategy("").Valid())
	assert.False(t, Strategy("always").Valid())
}

func TestLoader_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	l := &Loader{
		HostConfigPath: filepath.Join(dir, "config.yaml"),
		OptionsPath:    filepath.Join(dir, "combined-models.json"),
	}
	assert.Equal(t, DefaultOptions(), l.Load())
}

func TestLoader_NilLoader(t *testing.T) {
	var l *Loader
	assert.Equal(t, DefaultOptions(), l.Load())
	assert.Nil(t, l.Paths())
}

func TestLoader_OptionsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "combined-models.json", `{
		"provider_priority": ["anthropic", "amazon-bedrock"],
		"min_providers": 3,
		"strategy": "on_overload",
		"max_attempts": 5,
		"combine_latest": true,
		"unknown_field": "ignored"
	}`)

	opts := (&Loader{OptionsPath: path}).Load()

	assert.Equal(t, []string{"anthropic", "amazon-bedrock"}, opts.ProviderPriority)
	assert.Equal(t, 3, opts.MinProviders)
	assert.Equal(t, StrategyOnOverload, opts.Strategy)
	assert.Equal(t, 5, opts.MaxAttempts)
	assert.True(t, opts.CombineLatest)
}

func TestLoader_PartialOptionsKeepDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "combined-models.json", `{"max_attempts": 4}`)

	opts := (&Loader{OptionsPath: path}).Load()

	assert.Equal(t, 4, opts.MaxAttempts)
	assert.Equal(t, DefaultMinProviders, opts.MinProviders)
	assert.Equal(t, DefaultStrategy, opts.Strategy)
}

func TestLoader_MalformedOptionsFile(t *testing.T) {
	for name, content := range map[string]string{
		"invalid json": `{"min_providers": 3,`,
		"wrong type":   `{"min_providers": "three"}`,
		"not object":   `[1, 2, 3]`,
		"empty":        ``,
	} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "combined-models.json", content)
			assert.Equal(t, DefaultOptions(), (&Loader{OptionsPath: path}).Load())
		})
	}
}

func TestLoader_UnreadableOptionsPath(t *testing.T) {
	// A directory cannot be read as a file.
	assert.Equal(t, DefaultOptions(), (&Loader{OptionsPath: t.TempDir()}).Load())
}

func TestLoader_HostConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
port: 8080
combined-models:
  provider_priority: [vertex, anthropic]
  min_providers: 3
  strategy: on_rate_limit
`)

	opts := (&Loader{HostConfigPath: path}).Load()

	assert.Equal(t, []string{"vertex", "anthropic"}, opts.ProviderPriority)
	assert.Equal(t, 3, opts.MinProviders)
	assert.Equal(t, StrategyOnRateLimit, opts.Strategy)
	assert.Equal(t, DefaultMaxAttempts, opts.MaxAttempts)
}

func TestLoader_HostConfigWithoutSection(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "port: 8080\n")
	assert.Equal(t, DefaultOptions(), (&Loader{HostConfigPath: path}).Load())
}

func TestLoader_MalformedHostConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "combined-models: [unclosed\n")
	assert.Equal(t, DefaultOptions(), (&Loader{HostConfigPath: path}).Load())
}

func TestLoader_OptionsFileOverridesHostConfig(t *testing.T) {
	dir := t.TempDir()
	host := writeFile(t, dir, "config.yaml", `
combined-models:
  provider_priority: [vertex]
  min_providers: 3
  max_attempts: 7
`)
	file := writeFile(t, dir, "combined-models.json", `{"provider_priority": ["anthropic"], "max_attempts": 2}`)

	opts := (&Loader{HostConfigPath: host, OptionsPath: file}).Load()

	assert.Equal(t, []string{"anthropic"}, opts.ProviderPriority)
	assert.Equal(t, 2, opts.MaxAttempts)
	// Not set by the file: the host value stands.
	assert.Equal(t, 3, opts.MinProviders)
}

func TestLoader_MalformedFileKeepsHostConfig(t *testing.T) {
	dir := t.TempDir()
	host := writeFile(t, dir, "config.yaml", "combined-models:\n  min_providers: 4\n")
	file := writeFile(t, dir, "combined-models.json", `{"min_providers": 9`)

	opts := (&Loader{HostConfigPath: host, OptionsPath: file}).Load()
	assert.Equal(t, 4, opts.MinProviders)
}

func TestLoader_Paths(t *testing.T) {
	l := &Loader{HostConfigPath: "host.yaml", OptionsPath: "opts.json"}
	assert.Equal(t, []string{"host.yaml", "opts.json"}, l.Paths())
	assert.Equal(t, []string{"opts.json"}, (&Loader{OptionsPath: "opts.json"}).Paths())
}

func TestDefaultOptionsPath(t *testing.T) {
	t.Setenv(OptionsPathEnv, "/tmp/custom.json")
	assert.Equal(t, "/tmp/custom.json", DefaultOptionsPath())

	t.Setenv(OptionsPathEnv, "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".config", "opencode", "combined-models.json"), DefaultOptionsPath())
}

func TestNewLoader(t *testing.T) {
	t.Setenv(OptionsPathEnv, "/tmp/custom.json")
	l := NewLoader("host.yaml")
	assert.Equal(t, "host.yaml", l.HostConfigPath)
	assert.Equal(t, "/tmp/custom.json", l.OptionsPath)
}
