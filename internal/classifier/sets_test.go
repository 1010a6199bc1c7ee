package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/remap/internal/types"
)

func TestCompareCounts(t *testing.T) {
	assert.Equal(t, 1.0, CompareCounts(0, 0))
	assert.Equal(t, 1.0, CompareCounts(7, 7))
	assert.InDelta(t, 0.5, CompareCounts(2, 4), 1e-12)
	assert.InDelta(t, 0.5, CompareCounts(4, 2), 1e-12)
	assert.Equal(t, 0.0, CompareCounts(0, 3))
}

func TestCompareSets(t *testing.T) {
	set := func(items ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(items))
		for _, s := range items {
			m[s] = struct{}{}
		}
		return m
	}

	assert.Equal(t, 1.0, CompareSets(set(), set()))
	assert.Equal(t, 0.0, CompareSets(set("a"), set()))
	assert.Equal(t, 1.0, CompareSets(set("a", "b"), set("b", "a")))
	assert.InDelta(t, 1.0/3.0, CompareSets(set("a", "b"), set("a", "c")), 1e-12)
}

func interfaceSets(_ *testing.T, b *types.GroupBuilder) {
	b.AddClass("p/A", "")
	b.AddClass("p/B", "", "p/I1")
}

func TestCompareClassSetsScenario(t *testing.T) {
	env := pairOf(t, interfaceSets, func(t *testing.T, b *types.GroupBuilder) {
		b.AddClass("q/A", "")
		b.AddClass("q/C", "", "q/I1", "q/I2")
	})
	aA, aB := env.A.Class("p/A"), env.A.Class("p/B")
	bA, bC := env.B.Class("q/A"), env.B.Class("q/C")
	require.NoError(t, types.SetMatch(aA, bA))

	// A pairs through its match, B and C find no compatible partner: (4-2)/4
	assert.Equal(t, 0.5, CompareClassSets([]*types.ClassEntry{aA, aB}, []*types.ClassEntry{bA, bC}))

	// A matched element whose counterpart is absent counts as unmatched
	assert.Equal(t, 0.0, CompareClassSets([]*types.ClassEntry{aA}, []*types.ClassEntry{bC}))
}

func TestCompareClassSetsEdgeCases(t *testing.T) {
	env := pairOf(t, interfaceSets, interfaceSets)
	aA, aB := env.A.Class("p/A"), env.A.Class("p/B")
	bA, bB := env.B.Class("p/A"), env.B.Class("p/B")

	assert.Equal(t, 1.0, CompareClassSets(nil, nil))
	assert.Equal(t, 0.0, CompareClassSets([]*types.ClassEntry{aA}, nil))
	assert.Equal(t, 0.0, CompareClassSets(nil, []*types.ClassEntry{bA}))

	// Every element finds a compatible partner without any match set
	assert.Equal(t, 1.0, CompareClassSets([]*types.ClassEntry{aA, aB}, []*types.ClassEntry{bB, bA}))

	// Duplicates collapse to a set
	assert.Equal(t, 1.0, CompareClassSets([]*types.ClassEntry{aA, aA}, []*types.ClassEntry{bA}))

	// One-sided extra element: total 3, one unmatched
	assert.InDelta(t, 2.0/3.0, CompareClassSets([]*types.ClassEntry{aA, aB}, []*types.ClassEntry{bA}), 1e-12)
}

func TestCompareClassSetsPairsOnce(t *testing.T) {
	env := pairOf(t, func(t *testing.T, b *types.GroupBuilder) {
		b.AddClass("p/A1", "")
		b.AddClass("p/A2", "")
	}, func(t *testing.T, b *types.GroupBuilder) {
		b.AddClass("q/B1", "")
	})
	a1, a2, b1 := env.A.Class("p/A1"), env.A.Class("p/A2"), env.B.Class("q/B1")
	require.True(t, PotentiallyEqualClasses(a1, b1))
	require.True(t, PotentiallyEqualClasses(a2, b1))

	// B1 pairs with A1 only, A2 is left over: (3-1)/3
	assert.InDelta(t, 2.0/3.0, CompareClassSets([]*types.ClassEntry{a1, a2}, []*types.ClassEntry{b1}), 1e-12)
	assert.InDelta(t, 2.0/3.0, CompareClassSets([]*types.ClassEntry{b1}, []*types.ClassEntry{a1, a2}), 1e-12)
}

func TestCompareClassSetsDeterministic(t *testing.T) {
	env := pairOf(t, interfaceSets, interfaceSets)
	as := []*types.ClassEntry{env.A.Class("p/A"), env.A.Class("p/B"), env.A.Class("p/I1")}
	bs := []*types.ClassEntry{env.B.Class("p/I1"), env.B.Class("p/B")}

	first := CompareClassSets(as, bs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CompareClassSets(as, bs))
	}
}

func TestCompareMethodAndFieldSets(t *testing.T) {
	def := func(t *testing.T, b *types.GroupBuilder) {
		c := b.AddClass("p/C", "")
		method(t, b, c, "a", "()V", false)
		method(t, b, c, "b", "(I)I", false)
		field(t, b, c, "x", "I", false)
		field(t, b, c, "y", "J", false)
	}
	env := pairOf(t, def, def)
	ca, cb := env.A.Class("p/C"), env.B.Class("p/C")

	assert.Equal(t, 1.0, CompareMethodSets(ca.Methods, cb.Methods))
	assert.Equal(t, 0.0, CompareMethodSets(ca.Methods[:1], cb.Methods[1:]), "shapes never line up")
	assert.Equal(t, 1.0, CompareFieldSets(ca.Fields, cb.Fields))
	assert.Equal(t, 0.0, CompareFieldSets(ca.Fields[:1], cb.Fields[1:]))
}
