// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package combined

import (
	log "github.com/sirupsen/logrus"
	"github.com/traylinx/combined-models/internal/config"
	"github.com/traylinx/combined-models/internal/registry"
)

// Combine returns reg with a "combined" provider holding one model per group of
// at least opts.MinProviders same-model entries. When no group qualifies, reg
// itself is returned and no combined provider is added. reg is never modified.
// Out-of-range options are replaced with their defaults.
func Combine(reg *registry.Registry, opts config.Options) *registry.Registry {
	if reg == nil {
		reg = &registry.Registry{}
	}
	opts.Sanitize()
	groups := Group(reg, opts.CombineLatest)
	models := Synthesize(groups, opts)
	if len(models) == 0 {
		log.Debugf("combined: no model offered by %d or more providers (%d groups)", opts.MinProviders, groups.Len())
		return reg
	}
	log.Debugf("combined: %d combined models from %d groups", len(models), groups.Len())
	return reg.With(NewProvider(models))
}

// OptionsSource supplies options for a provider-listing pass.
type OptionsSource interface {
	Load() config.Options
}

// Plugin is the provider-listing hook. Options are read from its source once
// per listing, before the registry is combined.
type Plugin struct {
	source OptionsSource
}

// NewPlugin creates a plugin reading options from source. A nil source uses the defaults.
func NewPlugin(source OptionsSource) *Plugin {
	return &Plugin{source: source}
}

// Options loads the options for one pass.
func (p *Plugin) Options() config.Options {
	if p == nil || p.source == nil {
		return config.DefaultOptions()
	}
	return p.source.Load()
}

// ProviderList handles a provider-listing event and returns the registry the
// host should install.
func (p *Plugin) ProviderList(reg *registry.Registry) *registry.Registry {
	return Combine(reg, p.Options())
}
