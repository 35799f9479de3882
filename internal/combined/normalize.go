// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package combined

import (
	"regexp"
	"strings"
)

// Rule is one step of model ID normalization: every match of Pattern is
// replaced with Replace (regexp expansion syntax).
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Apply runs the rule on s.
func (r Rule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replace)
}

var (
	// Regional inference-profile prefixes, e.g. "us.anthropic.claude-...".
	regionPrefixRule = Rule{
		Name:    "region-prefix",
		Pattern: regexp.MustCompile(`^(?:us|eu|ap|apac|jp|au|global)[./:]`),
	}
	// Vendor namespaces added by aggregators and cloud catalogs, e.g. "anthropic/claude-...".
	vendorPrefixRule = Rule{
		Name:    "vendor-prefix",
		Pattern: regexp.MustCompile(`^(?:anthropic|openai|google|meta-llama|mistralai)[./:]`),
	}
	// Snapshot date, e.g. "-20250514" or "@20250514". A trailing version tag is
	// kept for the next rule.
	dateStampRule = Rule{
		Name:    "date-stamp",
		Pattern: regexp.MustCompile(`[-_.@]\d{8}((?:-v\d+:\d+)?)$`),
		Replace: "$1",
	}
	// Provider revision tag, e.g. "-v2:0".
	versionTagRule = Rule{
		Name:    "version-tag",
		Pattern: regexp.MustCompile(`-v\d+:\d+$`),
	}
	// Dashed snapshot date, e.g. "@2024-11-20".
	atDateRule = Rule{
		Name:    "at-date",
		Pattern: regexp.MustCompile(`@\d{4}-\d{2}-\d{2}$`),
	}
	previewRule = Rule{
		Name:    "preview",
		Pattern: regexp.MustCompile(`-preview$`),
	}
	latestRule = Rule{
		Name:    "latest",
		Pattern: regexp.MustCompile(`[-:]latest$`),
	}
	separatorRule = Rule{
		Name:    "separators",
		Pattern: regexp.MustCompile(`[^a-z0-9-]`),
		Replace: "-",
	}
	dashRunRule = Rule{
		Name:    "dash-runs",
		Pattern: regexp.MustCompile(`-{2,}`),
		Replace: "-",
	}
	trailingDashRule = Rule{
		Name:    "trailing-dash",
		Pattern: regexp.MustCompile(`-$`),
	}
)

var (
	stripRules = []Rule{
		regionPrefixRule,
		vendorPrefixRule,
		dateStampRule,
		versionTagRule,
		atDateRule,
		previewRule,
	}
	latestStripRules = append(append([]Rule(nil), stripRules...), latestRule)
	canonicalRules   = []Rule{separatorRule, dashRunRule, trailingDashRule}
)

func stripping(combineLatest bool) []Rule {
	if combineLatest {
		return latestStripRules
	}
	return stripRules
}

// rules lists every step of Normalize after lowercasing, in order.
func rules(combineLatest bool) []Rule {
	return append(append([]Rule(nil), stripping(combineLatest)...), canonicalRules...)
}

// Normalize maps a provider-specific model ID to the canonical key shared by
// the same model across providers. It lowercases the ID, strips routing and
// vendor prefixes, snapshot dates, revision tags and preview markers (and
// "latest" aliases when combineLatest is set), then folds every separator to a
// single dash. Unrelated models may collide; that is accepted.
func Normalize(modelID string, combineLatest bool) string {
	s := strings.ToLower(modelID)
	for _, rule := range stripping(combineLatest) {
		s = rule.Apply(s)
	}
	return Canonicalize(s)
}

// Canonicalize folds separators: anything outside [a-z0-9-] becomes a dash,
// dash runs collapse and a trailing dash is dropped. It is idempotent, and a
// key produced by Normalize is a fixed point.
func Canonicalize(s string) string {
	for _, rule := range canonicalRules {
		s = rule.Apply(s)
	}
	return s
}
