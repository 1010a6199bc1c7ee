package classifier

import (
	remaperrors "github.com/standardbeagle/remap/internal/errors"
	"github.com/standardbeagle/remap/internal/types"
)

// ElementComparator compares element i of the first sequence with element j of
// the second and returns CompareSimilar, ComparePossible or CompareDistinct.
// It receives positions rather than values so position-dependent rules (jump
// direction) can be expressed.
type ElementComparator func(i, j int) int

// CompareLists returns 1 - editDistance / (max(n, m) * CompareDistinct) using
// two rolling rows sized by the shorter sequence.
func CompareLists(n, m int, cmp ElementComparator) float64 {
	if n == 0 && m == 0 {
		return 1
	}
	if n == 0 || m == 0 {
		return 0
	}
	if n == m && allSimilar(n, cmp) {
		return 1
	}

	// Edit distance is symmetric, so keep the rows over the shorter side
	rows, cols := n, m
	at := cmp
	if m > n {
		rows, cols = m, n
		at = func(i, j int) int { return cmp(j, i) }
	}

	prev := make([]int, cols+1)
	curr := make([]int, cols+1)
	for j := range prev {
		prev[j] = j * CompareDistinct
	}

	for i := 0; i < rows; i++ {
		curr[0] = (i + 1) * CompareDistinct
		for j := 0; j < cols; j++ {
			cost := checkCost(at(i, j))
			curr[j+1] = min(curr[j]+CompareDistinct, prev[j+1]+CompareDistinct, prev[j]+cost)
		}
		prev, curr = curr, prev
	}

	distance := prev[cols]
	upper := max(n, m) * CompareDistinct
	return 1 - float64(distance)/float64(upper)
}

// MapLists aligns two sequences and returns, for every element of the first,
// the index of its counterpart in the second or -1. Mapped indices strictly
// increase. Ties in the backtrace prefer the diagonal, then deletion, then
// insertion; a diagonal step at full CompareDistinct cost maps to -1.
func MapLists(n, m int, cmp ElementComparator) []int {
	if n == 0 && m == 0 {
		return []int{}
	}
	ret := make([]int, n)
	if n == 0 || m == 0 {
		for i := range ret {
			ret[i] = -1
		}
		return ret
	}
	if n == m && allSimilar(n, cmp) {
		for i := range ret {
			ret[i] = i
		}
		return ret
	}

	width := m + 1
	v := make([]int, (n+1)*width)
	cell := func(i, j int) int { return i*width + j }

	for i := 1; i <= n; i++ {
		v[cell(i, 0)] = i * CompareDistinct
	}
	for j := 1; j <= m; j++ {
		v[cell(0, j)] = j * CompareDistinct
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := checkCost(cmp(i-1, j-1))
			v[cell(i, j)] = min(v[cell(i-1, j)]+CompareDistinct, v[cell(i, j-1)]+CompareDistinct, v[cell(i-1, j-1)]+cost)
		}
	}

	const unreachable = int(^uint(0) >> 1)
	i, j := n, m
	for i > 0 || j > 0 {
		c := v[cell(i, j)]
		del, ins, keep := unreachable, unreachable, unreachable
		if i > 0 {
			del = v[cell(i-1, j)]
		}
		if j > 0 {
			ins = v[cell(i, j-1)]
		}
		if i > 0 && j > 0 {
			keep = v[cell(i-1, j-1)]
		}

		switch {
		case keep <= del && keep <= ins:
			if c-keep >= CompareDistinct {
				ret[i-1] = -1
			} else {
				ret[i-1] = j - 1
			}
			i--
			j--
		case del < ins:
			ret[i-1] = -1
			i--
		default:
			j--
		}
	}
	return ret
}

// CompareClassLists compares ordered class lists using the pre-filter as the
// element comparator.
func CompareClassLists(a, b []*types.ClassEntry) float64 {
	return CompareLists(len(a), len(b), func(i, j int) int {
		return similarIf(PotentiallyEqualClasses(a[i], b[j]))
	})
}

// CompareFieldLists compares ordered field lists the same way
func CompareFieldLists(a, b []*types.FieldEntry) float64 {
	return CompareLists(len(a), len(b), func(i, j int) int {
		return similarIf(PotentiallyEqualFields(a[i], b[j]))
	})
}

// CompareTypeLists compares descriptor lists by shape
func CompareTypeLists(a, b []types.Type) float64 {
	return CompareLists(len(a), len(b), func(i, j int) int {
		return similarIf(MaybeEqualTypes(a[i], b[j]))
	})
}

func allSimilar(n int, cmp ElementComparator) bool {
	for i := 0; i < n; i++ {
		if cmp(i, i) != CompareSimilar {
			return false
		}
	}
	return true
}

func similarIf(ok bool) int {
	if ok {
		return CompareSimilar
	}
	return CompareDistinct
}

func checkCost(c int) int {
	if c < CompareSimilar || c > CompareDistinct {
		panic(remaperrors.Violation("compare", "element comparator returned %d", c))
	}
	return c
}
