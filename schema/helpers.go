package schema

import (
	"fmt"
	"sort"
	"time"
)

// SortedKeys returns the keys of set in sorted order.
func SortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JoinUsers renders a contributor set as a deterministic display list.
func JoinUsers(set map[string]struct{}) string {
	out := ""
	for i, k := range SortedKeys(set) {
		if i > 0 {
			out += "; "
		}
		out += k
	}
	return out
}

// HourLabel formats an hour bucket as "HH:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// FormatInstant renders a normalized instant for cells and JSON,
// keeping any embedded offset.
func FormatInstant(t time.Time) string {
	return t.Format(time.RFC3339)
}
