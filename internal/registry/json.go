// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidRegistry is returned when registry input is not a JSON provider listing.
var ErrInvalidRegistry = errors.New("registry: invalid provider listing")

// Parse reads a provider listing. Two shapes are accepted:
//
//	{"<providerID>": {...provider...}, ...}
//	{"providers": [{...provider...}, ...]}
//
// In the object form a provider's ID is its key; in the array form it is the
// "id" field. Providers and models keep document order, and each provider's
// object is kept verbatim in Raw. Empty input yields an empty registry.
func Parse(data []byte) (*Registry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Registry{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidRegistry)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidRegistry)
	}

	reg := &Registry{}
	if list := root.Get("providers"); list.IsArray() {
		for i, item := range list.Array() {
			p, err := parseProvider(item.Get("id").String(), item)
			if err != nil {
				return nil, fmt.Errorf("registry: providers[%d]: %w", i, err)
			}
			reg.Providers = append(reg.Providers, p)
		}
		return reg, nil
	}

	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		p, err := parseProvider(key.String(), value)
		if err != nil {
			parseErr = fmt.Errorf("registry: provider %q: %w", key.String(), err)
			return false
		}
		reg.Providers = append(reg.Providers, p)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return reg, nil
}

func parseProvider(id string, value gjson.Result) (*Provider, error) {
	if !value.IsObject() {
		return nil, fmt.Errorf("%w: provider must be an object", ErrInvalidRegistry)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: provider without id", ErrInvalidRegistry)
	}

	p := &Provider{
		ID:     id,
		Name:   value.Get("name").String(),
		Source: value.Get("source").String(),
		Raw:    []byte(value.Raw),
	}
	for _, env := range value.Get("env").Array() {
		p.Env = append(p.Env, env.String())
	}
	if opts := value.Get("options"); opts.IsObject() {
		p.Options = []byte(opts.Raw)
	}

	models := value.Get("models")
	switch {
	case models.IsObject():
		models.ForEach(func(k, v gjson.Result) bool {
			p.Models = appendModel(p.Models, id, k.String(), v)
			return true
		})
	case models.IsArray():
		for _, v := range models.Array() {
			p.Models = appendModel(p.Models, id, v.Get("id").String(), v)
		}
	}
	return p, nil
}

func appendModel(models []*Model, providerID, modelID string, value gjson.Result) []*Model {
	if modelID == "" {
		log.Debugf("registry: skipping model without id in provider %s", providerID)
		return models
	}
	if !value.IsObject() {
		log.Debugf("registry: skipping model %s/%s: metadata is not an object", providerID, modelID)
		return models
	}
	return append(models, &Model{ID: modelID, Metadata: []byte(value.Raw)})
}

// MarshalJSON writes the registry in object form, preserving provider and model order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r != nil {
		first := true
		for _, p := range r.Providers {
			if p == nil {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeString(&buf, p.ID); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := p.writeJSON(&buf); err != nil {
				return nil, fmt.Errorf("registry: provider %q: %w", p.ID, err)
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIndent renders the registry like MarshalJSON with indentation.
func (r *Registry) MarshalIndent(prefix, indent string) ([]byte, error) {
	raw, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, prefix, indent); err != nil {
		return nil, fmt.Errorf("registry: indent: %w", err)
	}
	return out.Bytes(), nil
}

func (p *Provider) writeJSON(buf *bytes.Buffer) error {
	models, err := p.modelsJSON()
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(p.Raw)) > 0 {
		raw, err := sjson.SetRawBytes(append([]byte(nil), p.Raw...), "models", models)
		if err != nil {
			return fmt.Errorf("set models: %w", err)
		}
		return writeObject(buf, raw)
	}

	env := p.Env
	if env == nil {
		env = []string{}
	}
	envJSON, err := json.Marshal(env)
	if err != nil {
		return err
	}

	buf.WriteString(`{"id":`)
	if err := writeString(buf, p.ID); err != nil {
		return err
	}
	buf.WriteString(`,"name":`)
	if err := writeString(buf, p.Name); err != nil {
		return err
	}
	buf.WriteString(`,"source":`)
	if err := writeString(buf, p.Source); err != nil {
		return err
	}
	buf.WriteString(`,"env":`)
	buf.Write(envJSON)
	buf.WriteString(`,"options":`)
	if err := writeObject(buf, p.Options); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	buf.WriteString(`,"models":`)
	buf.Write(models)
	buf.WriteByte('}')
	return nil
}

// modelsJSON renders Models as a compact object keyed by model ID.
func (p *Provider) modelsJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, m := range p.Models {
		if m == nil {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeString(&buf, m.ID); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeObject(&buf, m.Metadata); err != nil {
			return nil, fmt.Errorf("model %q: %w", m.ID, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// writeObject appends raw to buf in compact form; empty raw is written as {}.
// go-json's Compact rewrites its whole destination, so it always gets a fresh one.
func writeObject(buf *bytes.Buffer, raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		buf.WriteString("{}")
		return nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return err
	}
	buf.Write(compact.Bytes())
	return nil
}
