// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry models a snapshot of the host's provider listing: an ordered
// set of providers, each exposing an ordered set of models with opaque metadata.
// Order is part of the data. Iteration over providers and models always follows
// the order in which the host presented them, so every transformation built on
// a Registry is deterministic for a fixed input.
package registry

import (
	"strings"

	"github.com/tidwall/gjson"
)

// CombinedProviderID is the provider ID reserved for synthesized entries.
const CombinedProviderID = "combined"

// Model is a single model offered by a provider.
type Model struct {
	// ID is the provider-specific model identifier (the key in the provider's model map).
	ID string
	// Metadata is the provider's JSON object for this model, kept verbatim.
	Metadata []byte
}

// Get returns the metadata value at the given gjson path.
func (m *Model) Get(path string) gjson.Result {
	if m == nil || len(m.Metadata) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(m.Metadata, path)
}

// Name returns the display name from metadata, or the model ID when none is set.
func (m *Model) Name() string {
	if m == nil {
		return ""
	}
	if name := strings.TrimSpace(m.Get("name").String()); name != "" {
		return name
	}
	return m.ID
}

// Provider is one backend and the models it lists.
type Provider struct {
	// ID is the provider's key in the registry.
	ID     string
	Name   string
	Source string
	Env    []string
	// Options is the provider's raw options object. Empty means {}.
	Options []byte
	// Models keeps registry iteration order.
	Models []*Model
	// Raw is the provider object as read. When set it is written back
	// verbatim except for "models", which always reflects Models.
	Raw []byte
}

// Registry is an ordered provider listing.
type Registry struct {
	Providers []*Provider
}

// New creates a registry holding the given providers in order.
func New(providers ...*Provider) *Registry {
	return &Registry{Providers: append([]*Provider(nil), providers...)}
}

// Len returns the number of providers. A nil registry has none.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Providers)
}

// ModelCount returns the number of models across all providers.
func (r *Registry) ModelCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Providers {
		if p != nil {
			n += len(p.Models)
		}
	}
	return n
}

// Provider returns the provider with the given ID, or nil.
func (r *Registry) Provider(id string) *Provider {
	if r == nil {
		return nil
	}
	for _, p := range r.Providers {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// Has reports whether a provider with the given ID is present.
func (r *Registry) Has(id string) bool {
	return r.Provider(id) != nil
}

// ProviderIDs lists provider IDs in order.
func (r *Registry) ProviderIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Providers))
	for _, p := range r.Providers {
		if p != nil {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Clone returns a registry with its own provider slice. Providers and models
// are shared; they are treated as immutable.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return &Registry{}
	}
	return New(r.Providers...)
}

// With returns a copy of the registry with p installed. An existing provider
// with the same ID is replaced in place; otherwise p is appended.
func (r *Registry) With(p *Provider) *Registry {
	out := r.Clone()
	if p == nil {
		return out
	}
	for i, existing := range out.Providers {
		if existing != nil && existing.ID == p.ID {
			out.Providers[i] = p
			return out
		}
	}
	out.Providers = append(out.Providers, p)
	return out
}
