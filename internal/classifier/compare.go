package classifier

// Three-level element comparison used by the sequence aligners. The values
// double as edit costs.
const (
	CompareSimilar  = 0
	ComparePossible = 1
	CompareDistinct = 2
)

// CompareCounts scores two sizes: 1 when equal, falling linearly with the
// relative difference.
func CompareCounts(a, b int) float64 {
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	if delta == 0 {
		return 1
	}
	return 1 - float64(delta)/float64(max(a, b))
}

// CompareSets is plain set overlap: |A∩B| / |A∪B|, 1 for two empty sets.
func CompareSets[T comparable](a, b map[T]struct{}) float64 {
	matched := 0
	for k := range a {
		if _, ok := b[k]; ok {
			matched++
		}
	}
	total := len(a) - matched + len(b)
	if total == 0 {
		return 1
	}
	return float64(matched) / float64(total)
}
