// Package manifest stores the ordered list of published documentation
// versions (versions.json). The list is the single source of truth for which
// snapshots exist; its order is creation order and is never rearranged.
package manifest

import (
	"context"
	"slices"
)

// Store persists the version manifest.
//
// Append is idempotent: adding a label that is already present is a no-op
// reporting added=false. This is what makes the manifest step of a cut safe
// to re-run on its own.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Append(ctx context.Context, label string) (added bool, err error)
	Remove(ctx context.Context, label string) (removed bool, err error)
}

// RawLoader is implemented by stores that can return a manifest as written,
// including entries Load would reject as duplicates.
type RawLoader interface {
	LoadRaw(ctx context.Context) ([]string, error)
}

// LoadRaw uses s.LoadRaw when available and s.Load otherwise.
func LoadRaw(ctx context.Context, s Store) ([]string, error) {
	if r, ok := s.(RawLoader); ok {
		return r.LoadRaw(ctx)
	}
	return s.Load(ctx)
}

// Contains reports whether label is present in labels.
func Contains(labels []string, label string) bool {
	return slices.Contains(labels, label)
}

// Duplicates returns every label that appears more than once, in first-seen order.
func Duplicates(labels []string) []string {
	seen := make(map[string]int, len(labels))
	var dups []string
	for _, l := range labels {
		seen[l]++
		if seen[l] == 2 {
			dups = append(dups, l)
		}
	}
	return dups
}
