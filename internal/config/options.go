// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config provides the options that drive model combination and the
// loaders that read them from the host configuration and the dedicated
// combined-models file. Loading never fails: any source that is missing,
// unreadable or malformed simply contributes nothing, leaving the defaults
// (or a lower-precedence source) in effect.
package config

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Strategy names the failure condition on which a downstream executor should
// move to the next provider of a combined model.
type Strategy string

const (
	// StrategyOnError falls back on any provider error.
	StrategyOnError Strategy = "on_error"
	// StrategyOnRateLimit falls back only when the provider rate-limits the request.
	StrategyOnRateLimit Strategy = "on_rate_limit"
	// StrategyOnOverload falls back only when the provider reports overload.
	StrategyOnOverload Strategy = "on_overload"
)

const (
	DefaultMinProviders = 2
	DefaultStrategy     = StrategyOnError
	DefaultMaxAttempts  = 3
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyOnError, StrategyOnRateLimit, StrategyOnOverload:
		return true
	}
	return false
}

// Options controls how provider listings are combined.
type Options struct {
	// ProviderPriority lists provider IDs in order of preference. Providers not
	// listed sort after listed ones.
	ProviderPriority []string `yaml:"provider_priority" json:"provider_priority"`

	// MinProviders is the minimum number of entries a group needs to produce a combined model.
	MinProviders int `yaml:"min_providers" json:"min_providers"`

	// Strategy is recorded on every combined model for the fallback executor.
	Strategy Strategy `yaml:"strategy" json:"strategy"`

	// MaxAttempts is recorded on every combined model for the fallback executor.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`

	// CombineLatest folds "-latest" and ":latest" aliases into their base model.
	CombineLatest bool `yaml:"combine_latest" json:"combine_latest"`
}

// DefaultOptions returns the options used when no source sets a value.
func DefaultOptions() Options {
	return Options{
		ProviderPriority: []string{},
		MinProviders:     DefaultMinProviders,
		Strategy:         DefaultStrategy,
		MaxAttempts:      DefaultMaxAttempts,
		CombineLatest:    false,
	}
}

func (o Options) clone() Options {
	o.ProviderPriority = append([]string(nil), o.ProviderPriority...)
	return o
}

// Sanitize replaces out-of-range values with defaults and cleans the priority list.
func (o *Options) Sanitize() {
	if o == nil {
		return
	}
	o.ProviderPriority = NormalizeProviderPriority(o.ProviderPriority)

	if o.MinProviders < 1 {
		log.Warnf("config: min_providers %d is invalid, using %d", o.MinProviders, DefaultMinProviders)
		o.MinProviders = DefaultMinProviders
	}
	if o.MaxAttempts < 1 {
		log.Warnf("config: max_attempts %d is invalid, using %d", o.MaxAttempts, DefaultMaxAttempts)
		o.MaxAttempts = DefaultMaxAttempts
	}

	o.Strategy = Strategy(strings.ToLower(strings.TrimSpace(string(o.Strategy))))
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if !o.Strategy.Valid() {
		log.Warnf("config: unknown strategy %q, using %s", o.Strategy, DefaultStrategy)
		o.Strategy = DefaultStrategy
	}
}

// NormalizeProviderPriority trims entries and drops empty and duplicate IDs,
// preserving the order of first occurrences. Case is kept: provider IDs are
// matched exactly.
func NormalizeProviderPriority(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
