// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package combined

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/traylinx/combined-models/internal/config"
	"github.com/traylinx/combined-models/internal/registry"
)

const (
	// ProviderName is the display name of the synthetic provider.
	ProviderName = "Combined Models"
	// ProviderSource marks the synthetic provider as configuration-defined.
	ProviderSource = "config"
	// MetadataPath is where the fallback block is stored in combined model metadata.
	MetadataPath = "options.combined"
)

// Fallback is the block a downstream executor reads from a combined model.
type Fallback struct {
	// Models lists "provider/model" references in attempt order.
	Models      []string        `json:"models"`
	Strategy    config.Strategy `json:"strategy"`
	MaxAttempts int             `json:"max_attempts"`
}

// FallbackOf reads the fallback block of a combined model. ok is false when
// the model carries none.
func FallbackOf(m *registry.Model) (fb Fallback, ok bool) {
	raw := m.Get(MetadataPath)
	if !raw.IsObject() {
		return Fallback{}, false
	}
	if err := json.Unmarshal([]byte(raw.Raw), &fb); err != nil {
		return Fallback{}, false
	}
	return fb, true
}

// Synthesize builds one combined model for every group with at least
// opts.MinProviders entries, in first-seen key order. Smaller groups are skipped.
func Synthesize(groups *Groups, opts config.Options) []*registry.Model {
	order := NewProviderOrder(opts.ProviderPriority)
	var out []*registry.Model
	for _, key := range groups.Keys() {
		bucket := groups.Bucket(key)
		if len(bucket) < opts.MinProviders {
			continue
		}
		model, err := synthesizeModel(key, order.Sort(bucket), opts)
		if err != nil {
			log.Warnf("combined: skipping %s: %v", key, err)
			continue
		}
		log.Debugf("combined: %s backed by %d entries", key, len(bucket))
		out = append(out, model)
	}
	return out
}

func synthesizeModel(key string, sorted []Entry, opts config.Options) (*registry.Model, error) {
	base := sorted[0].Model

	refs := make([]string, len(sorted))
	for i, e := range sorted {
		refs[i] = e.Ref()
	}
	block, err := json.Marshal(Fallback{
		Models:      refs,
		Strategy:    opts.Strategy,
		MaxAttempts: opts.MaxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("encode fallback: %w", err)
	}

	meta := []byte("{}")
	if len(bytes.TrimSpace(base.Metadata)) > 0 {
		meta = append([]byte(nil), base.Metadata...)
	}
	if opt := gjson.GetBytes(meta, "options"); opt.Exists() && !opt.IsObject() {
		if meta, err = sjson.SetRawBytes(meta, "options", []byte("{}")); err != nil {
			return nil, err
		}
	}

	name := fmt.Sprintf("%s (%d providers)", base.Name(), len(sorted))
	for _, set := range []struct {
		path  string
		value string
	}{
		{"id", key},
		{"providerID", registry.CombinedProviderID},
		{"name", name},
	} {
		if meta, err = sjson.SetBytes(meta, set.path, set.value); err != nil {
			return nil, fmt.Errorf("set %s: %w", set.path, err)
		}
	}
	if meta, err = sjson.SetRawBytes(meta, MetadataPath, block); err != nil {
		return nil, fmt.Errorf("set %s: %w", MetadataPath, err)
	}
	return &registry.Model{ID: key, Metadata: meta}, nil
}

// NewProvider returns the synthetic provider holding models.
func NewProvider(models []*registry.Model) *registry.Provider {
	return &registry.Provider{
		ID:      registry.CombinedProviderID,
		Name:    ProviderName,
		Source:  ProviderSource,
		Env:     []string{},
		Options: []byte("{}"),
		Models:  models,
	}
}
