// Package dedupe removes duplicate rows by a caller supplied
// composite key, keeping the first occurrence.
package dedupe

// ByKey returns rows with duplicates removed. Order is stable and the
// first occurrence of each key wins. Applying it twice yields the same
// result as applying it once.
func ByKey[T any](rows []T, key func(T) string) []T {
	seen := make(map[string]bool, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, row)
	}
	return out
}
