// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_Name(t *testing.T) {
	assert.Equal(t, "Claude", (&Model{ID: "c", Metadata: []byte(`{"name":"Claude"}`)}).Name())
	assert.Equal(t, "c", (&Model{ID: "c", Metadata: []byte(`{"name":"  "}`)}).Name())
	assert.Equal(t, "c", (&Model{ID: "c"}).Name())
	assert.Equal(t, "", (*Model)(nil).Name())
}

func TestRegistry_With(t *testing.T) {
	a := &Provider{ID: "a"}
	b := &Provider{ID: "b"}
	reg := New(a, b)

	added := reg.With(&Provider{ID: "c"})
	assert.Equal(t, []string{"a", "b", "c"}, added.ProviderIDs())
	assert.Equal(t, []string{"a", "b"}, reg.ProviderIDs())

	replacement := &Provider{ID: "a", Name: "new"}
	replaced := added.With(replacement)
	assert.Equal(t, []string{"a", "b", "c"}, replaced.ProviderIDs())
	assert.Same(t, replacement, replaced.Provider("a"))
	assert.Same(t, a, added.Provider("a"))
}

func TestRegistry_NilSafe(t *testing.T) {
	var reg *Registry
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, reg.ModelCount())
	assert.Nil(t, reg.Provider("x"))
	assert.False(t, reg.Has("x"))
	assert.Equal(t, 0, reg.Clone().Len())
	assert.Nil(t, reg.ProviderIDs())
}

func TestRegistry_ModelCount(t *testing.T) {
	reg := New(
		&Provider{ID: "a", Models: []*Model{{ID: "1"}, {ID: "2"}}},
		&Provider{ID: "b", Models: []*Model{{ID: "3"}}},
	)
	assert.Equal(t, 3, reg.ModelCount())
}
