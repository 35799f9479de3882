// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package combined merges model listings from several providers into synthetic
// "combined" models, so a caller sees one logical model backed by every
// provider that offers it.
//
// # Pipeline
//
// A listing is combined in a single pass:
//
//   - Normalize maps a provider model ID to a canonical key ("us.anthropic.claude-3-5-sonnet-20241022-v2:0" and
//     "anthropic/claude-3.5-sonnet" both become "claude-3-5-sonnet").
//   - Group buckets every (provider, model) pair by canonical key.
//   - Select orders a bucket by provider priority; the first entry donates metadata.
//   - Synthesize emits one combined model per bucket that reaches the provider threshold.
//
// Combine runs the pass on a registry snapshot and returns a new registry with
// a "combined" provider added. It never modifies its input and keeps no state
// between calls.
//
// # Fallback metadata
//
// Each combined model carries its fallback plan under options.combined:
//
//	{
//	  "models": ["bedrock/us.anthropic.claude-sonnet-4-5-20250929-v1:0", "anthropic/claude-sonnet-4-5-20250929"],
//	  "strategy": "on_error",
//	  "max_attempts": 3
//	}
//
// Executing the plan is left to the host.
package combined
