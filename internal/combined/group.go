// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package combined

import (
	"github.com/traylinx/combined-models/internal/registry"
)

// Entry is one provider's offering of a model.
type Entry struct {
	ProviderID string
	Model      *registry.Model
}

// Ref returns the "provider/model" reference recorded in combined metadata.
func (e Entry) Ref() string {
	return e.ProviderID + "/" + e.Model.ID
}

// Groups buckets entries by canonical key. Keys keep first-seen order and each
// bucket keeps registry order.
type Groups struct {
	keys    []string
	buckets map[string][]Entry
}

// Keys returns canonical keys in first-seen order.
func (g *Groups) Keys() []string {
	if g == nil {
		return nil
	}
	return g.keys
}

// Bucket returns the entries grouped under key.
func (g *Groups) Bucket(key string) []Entry {
	if g == nil {
		return nil
	}
	return g.buckets[key]
}

// Len returns the number of distinct keys.
func (g *Groups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.keys)
}

func (g *Groups) add(key string, e Entry) {
	if _, ok := g.buckets[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.buckets[key] = append(g.buckets[key], e)
}

// Group buckets every model of every provider by its normalized ID; thresholds
// are applied by Synthesize. The one exception is the reserved combined
// provider: its models are the output of an earlier pass, so they are left out
// rather than grouped. This lets a listing be combined again with the same
// result instead of nesting combined models inside combined models.
func Group(reg *registry.Registry, combineLatest bool) *Groups {
	g := &Groups{buckets: make(map[string][]Entry)}
	if reg == nil {
		return g
	}
	for _, p := range reg.Providers {
		if p == nil || p.ID == registry.CombinedProviderID {
			continue
		}
		for _, m := range p.Models {
			if m == nil {
				continue
			}
			g.add(Normalize(m.ID, combineLatest), Entry{ProviderID: p.ID, Model: m})
		}
	}
	return g
}
