package storage

import (
	"slices"
	"strings"
)

// Normalize trims, drops empty entries, collapses duplicates and sorts the
// result so saved lists are stable across runs.
func Normalize(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	slices.Sort(out)

	return slices.Compact(out)
}
