// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package combined

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProviderOrder compares provider IDs for fallback order: providers in the
// priority list come first, by list position; the rest follow in
// locale-aware order.
type ProviderOrder struct {
	index    map[string]int
	collator *collate.Collator
}

// NewProviderOrder builds the ordering for a priority list. Duplicate IDs keep
// their first position.
func NewProviderOrder(priority []string) *ProviderOrder {
	index := make(map[string]int, len(priority))
	for i, id := range priority {
		if _, exists := index[id]; !exists {
			index[id] = i
		}
	}
	return &ProviderOrder{
		index:    index,
		collator: collate.New(language.Und),
	}
}

// Compare returns a negative number when a sorts before b, positive when after,
// and zero only for equal IDs.
func (o *ProviderOrder) Compare(a, b string) int {
	ia, aListed := o.index[a]
	ib, bListed := o.index[b]
	switch {
	case aListed && bListed:
		return ia - ib
	case aListed:
		return -1
	case bListed:
		return 1
	}
	if c := o.collator.CompareString(a, b); c != 0 {
		return c
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Select returns the bucket sorted into fallback order. The first entry donates
// the combined model's metadata. Entries of the same provider keep their
// relative order. The input slice is not modified.
func Select(bucket []Entry, priority []string) []Entry {
	return NewProviderOrder(priority).Sort(bucket)
}

// Sort returns a sorted copy of entries.
func (o *ProviderOrder) Sort(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return o.Compare(out[i].ProviderID, out[j].ProviderID) < 0
	})
	return out
}
