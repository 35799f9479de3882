// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoPaths(t *testing.T) {
	_, err := New([]string{"", ""}, func() {})
	assert.ErrorIs(t, err, ErrNoPaths)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "combined-models.json")

	var calls atomic.Int32
	w, err := New([]string{target}, func() { calls.Add(1) })
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	require.NoError(t, w.Start())
	defer w.Stop()

	// The file does not exist yet; creating it must still trigger a reload.
	require.NoError(t, os.WriteFile(target, []byte(`{"min_providers": 3}`), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "combined-models.json")

	var calls atomic.Int32
	w, err := New([]string{target}, func() { calls.Add(1) })
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte(`{}`), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "x.json")}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
