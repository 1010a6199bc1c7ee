package classifier

import "github.com/standardbeagle/remap/internal/types"

// CompareClassSets is the bag similarity of two class collections
func CompareClassSets(a, b []*types.ClassEntry) float64 {
	return compareMatchableSets(a, b, PotentiallyEqualClasses)
}

// CompareMethodSets is the bag similarity of two method collections
func CompareMethodSets(a, b []*types.MethodEntry) float64 {
	return compareMatchableSets(a, b, PotentiallyEqualMethods)
}

// CompareFieldSets is the bag similarity of two field collections
func CompareFieldSets(a, b []*types.FieldEntry) float64 {
	return compareMatchableSets(a, b, PotentiallyEqualFields)
}

// compareMatchableSets scores two unordered collections.
//
// The identity pass drops elements present on both sides and, for elements
// with a confirmed match, the counterpart on the other side; a match whose
// counterpart is absent counts as unmatched. Each remaining element of a is
// then paired with the first unused potentially-equal element of b, and every
// element left without a partner counts as unmatched. The result is
// (total - unmatched) / total with total taken before any pass. Iteration
// follows input order after deduplication, so the result is deterministic for
// given slices.
func compareMatchableSets[T types.Entity](a, b []T, compatible func(a, b T) bool) float64 {
	setA, setB := dedupe(a), dedupe(b)
	if len(setA) == 0 || len(setB) == 0 {
		if len(setA) == 0 && len(setB) == 0 {
			return 1
		}
		return 0
	}

	total := len(setA) + len(setB)
	unmatched := 0

	inB := make(map[types.EntityKey]int, len(setB))
	for i, e := range setB {
		inB[e.EntityKey()] = i
	}
	removedB := make([]bool, len(setB))
	removeB := func(e types.Entity) bool {
		i, ok := inB[e.EntityKey()]
		if !ok || removedB[i] {
			return false
		}
		removedB[i] = true
		return true
	}

	restA := setA[:0:0]
	for _, ea := range setA {
		switch {
		case removeB(ea):
		case ea.HasMatch():
			if m := ea.MatchEntity(); m == nil || !removeB(m) {
				unmatched++
			}
		default:
			restA = append(restA, ea)
		}
	}

	restB := setB[:0:0]
	for i, eb := range setB {
		if !removedB[i] {
			restB = append(restB, eb)
		}
	}

	// Pair leftovers first-fit; a hit consumes both elements
	usedB := make([]bool, len(restB))
	for _, ea := range restA {
		found := false
		for j, eb := range restB {
			if !usedB[j] && compatible(ea, eb) {
				usedB[j] = true
				found = true
				break
			}
		}
		if !found {
			unmatched++
		}
	}
	for _, used := range usedB {
		if !used {
			unmatched++
		}
	}

	return float64(total-unmatched) / float64(total)
}

// dedupe keeps the first occurrence of each entity, preserving order
func dedupe[T types.Entity](in []T) []T {
	seen := make(map[types.EntityKey]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, e := range in {
		k := e.EntityKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
