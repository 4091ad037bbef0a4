package game

import "strings"

// Stats maps lower-case stat names to their values. The key set is fixed at
// game start; only values change afterwards.
type Stats map[string]int

// NormalizeStats lower-cases every key, merging duplicates in favor of the
// last one seen. Stored snapshots may predate key normalization.
func NormalizeStats(in map[string]int) Stats {
	out := make(Stats, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Clone returns an independent copy.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
