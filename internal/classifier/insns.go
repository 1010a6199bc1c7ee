package classifier

import (
	"slices"

	"github.com/standardbeagle/remap/internal/cache"
	"github.com/standardbeagle/remap/internal/debug"
	remaperrors "github.com/standardbeagle/remap/internal/errors"
	"github.com/standardbeagle/remap/internal/types"
)

var (
	insnMapToken     = cache.NewToken[[]int]("insn-map")
	insnCompareToken = cache.NewToken[float64]("insn-compare")
)

// insnComparator compares instructions of two bodies, resolving references of
// each body in its own group.
type insnComparator struct {
	ga, gb *types.Group
	a, b   []types.Insn
}

// CompareInsns scores two method bodies
func CompareInsns(a, b *types.MethodEntry) float64 {
	c := &insnComparator{ga: a.Group(), gb: b.Group(), a: a.Insns, b: b.Insns}
	return CompareLists(len(c.a), len(c.b), c.compare)
}

// CompareInsnSeqs scores two instruction sequences, resolving the first in
// env.A and the second in env.B.
func CompareInsnSeqs(env *types.Env, a, b []types.Insn) float64 {
	c := &insnComparator{ga: env.A, gb: env.B, a: a, b: b}
	return CompareLists(len(a), len(b), c.compare)
}

// MapInsnSeqs aligns two instruction sequences resolved in env.A and env.B
func MapInsnSeqs(env *types.Env, a, b []types.Insn) []int {
	c := &insnComparator{ga: env.A, gb: env.B, a: a, b: b}
	return MapLists(len(a), len(b), c.compare)
}

// MapInsns aligns the bodies of a and b. It returns nil when either body is
// empty. Large pairs are memoized in the session cache, so the returned
// slice is shared and must not be modified.
func MapInsns(env *Env, a, b *types.MethodEntry) []int {
	if len(a.Insns) == 0 || len(b.Insns) == 0 {
		return nil
	}
	if len(a.Insns)*len(b.Insns) < env.InsnCacheThreshold {
		return mapInsns(a, b)
	}
	return cache.Compute(env.Cache, insnMapToken, a, b, mapInsns)
}

func mapInsns(a, b *types.MethodEntry) []int {
	c := &insnComparator{ga: a.Group(), gb: b.Group(), a: a.Insns, b: b.Insns}
	return MapLists(len(c.a), len(c.b), c.compare)
}

// InsnSimilarity is CompareInsns memoized for large bodies
func InsnSimilarity(env *Env, a, b *types.MethodEntry) float64 {
	if len(a.Insns)*len(b.Insns) < env.InsnCacheThreshold {
		return CompareInsns(a, b)
	}
	return cache.Compute(env.Cache, insnCompareToken, a, b, func(a, b *types.MethodEntry) float64 {
		debug.LogCache("insn-compare %s vs %s (%dx%d)\n", a, b, len(a.Insns), len(b.Insns))
		return CompareInsns(a, b)
	})
}

func (c *insnComparator) compare(i, j int) int {
	ia, ib := c.a[i], c.b[j]
	if ia.Opcode() != ib.Opcode() || ia.Kind() != ib.Kind() {
		return CompareDistinct
	}

	switch x := ia.(type) {
	case types.IntInsn:
		y := ib.(types.IntInsn)
		return similarIf(x.Operand == y.Operand)

	case types.TypeInsn:
		y := ib.(types.TypeInsn)
		return similarIf(PotentiallyEqualClassesNullable(c.ga.Class(x.Desc), c.gb.Class(y.Desc)))

	case types.FieldInsn:
		y := ib.(types.FieldInsn)
		ownerA, ownerB := c.ga.Class(x.Owner), c.gb.Class(y.Owner)
		if ownerA == nil || ownerB == nil {
			return similarIf(ownerA == nil && ownerB == nil)
		}
		return similarIf(PotentiallyEqualFieldsNullable(
			ownerA.ResolveField(x.Name, x.Desc),
			ownerB.ResolveField(y.Name, y.Desc)))

	case types.MethodInsn:
		y := ib.(types.MethodInsn)
		ownerA, ownerB := c.ga.Class(x.Owner), c.gb.Class(y.Owner)
		if ownerA == nil || ownerB == nil {
			return similarIf(ownerA == nil && ownerB == nil)
		}
		return similarIf(PotentiallyEqualMethodsNullable(
			ownerA.ResolveMethod(x.Name, x.Desc, x.Itf),
			ownerB.ResolveMethod(y.Name, y.Desc, y.Itf)))

	case types.JumpInsn:
		y := ib.(types.JumpInsn)
		return similarIf(jumpDirection(c.a, i, x.Target) == jumpDirection(c.b, j, y.Target))

	case types.LdcInsn:
		y := ib.(types.LdcInsn)
		return c.compareConstants(x.Value, y.Value)

	case types.IincInsn:
		y := ib.(types.IincInsn)
		return similarIf(x.Incr == y.Incr)

	case types.TableSwitchInsn:
		y := ib.(types.TableSwitchInsn)
		return similarIf(x.Min == y.Min && x.Max == y.Max)

	case types.LookupSwitchInsn:
		y := ib.(types.LookupSwitchInsn)
		return similarIf(sameKeySet(x.Keys, y.Keys))

	case types.MultiANewArrayInsn:
		y := ib.(types.MultiANewArrayInsn)
		if x.Dims != y.Dims {
			return CompareDistinct
		}
		return similarIf(PotentiallyEqualClassesNullable(c.ga.Class(x.Desc), c.gb.Class(y.Desc)))
	}

	// Operand-free and local-variable instructions carry nothing to compare
	return CompareSimilar
}

// sameKeySet compares switch keys as sets; case order carries no meaning
func sameKeySet(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	return slices.Equal(slices.Sorted(slices.Values(a)), slices.Sorted(slices.Values(b)))
}

func (c *insnComparator) compareConstants(a, b types.Constant) int {
	if a.Kind != b.Kind {
		return CompareDistinct
	}
	if a.Kind != types.ConstType {
		return similarIf(a.Equal(b))
	}
	if a.Type.Sort() != b.Type.Sort() {
		return CompareDistinct
	}
	switch a.Type.Sort() {
	case types.SortArray, types.SortObject:
		return similarIf(PotentiallyEqualClassesNullable(
			c.ga.Class(a.Type.Descriptor()),
			c.gb.Class(b.Type.Descriptor())))
	}
	// Method type constants are not compared
	return CompareSimilar
}

func jumpDirection(seq []types.Insn, pos, target int) int {
	if target < 0 || target >= len(seq) {
		panic(remaperrors.Violation("compare-insns", "jump at %d targets %d outside sequence of %d", pos, target, len(seq)))
	}
	switch {
	case target > pos:
		return 1
	case target < pos:
		return -1
	}
	return 0
}
