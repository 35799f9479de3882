// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package buildinfo exposes compile-time metadata of the combined-models binary.
package buildinfo

import "fmt"

// Set from cmd/combined-models, which receives them through ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String formats the build metadata for -version output.
func String() string {
	return fmt.Sprintf("combined-models %s (commit %s, built %s)", Version, Commit, BuildDate)
}
