package classifier

import (
	"math"

	"github.com/standardbeagle/remap/internal/types"
)

// Numbers holds the numeric literals of a body partitioned by kind. Floating
// point values are keyed by their IEEE bits so NaN and signed zeros behave
// like boxed JVM values.
type Numbers struct {
	Ints    map[int32]struct{}
	Longs   map[int64]struct{}
	Floats  map[uint32]struct{}
	Doubles map[uint64]struct{}
}

// NewNumbers returns empty sets
func NewNumbers() *Numbers {
	return &Numbers{
		Ints:    make(map[int32]struct{}),
		Longs:   make(map[int64]struct{}),
		Floats:  make(map[uint32]struct{}),
		Doubles: make(map[uint64]struct{}),
	}
}

// Empty reports whether no literal was collected
func (n *Numbers) Empty() bool {
	return len(n.Ints) == 0 && len(n.Longs) == 0 && len(n.Floats) == 0 && len(n.Doubles) == 0
}

// ExtractStrings adds every string constant loaded by insns to out
func ExtractStrings(insns []types.Insn, out map[string]struct{}) {
	for _, insn := range insns {
		if ldc, ok := insn.(types.LdcInsn); ok && ldc.Value.Kind == types.ConstString {
			out[ldc.Value.Str] = struct{}{}
		}
	}
}

// ExtractNumbers adds numeric constants and integer immediates to out
func ExtractNumbers(insns []types.Insn, out *Numbers) {
	for _, insn := range insns {
		switch in := insn.(type) {
		case types.LdcInsn:
			addNumber(in.Value, out)
		case types.IntInsn:
			out.Ints[in.Operand] = struct{}{}
		}
	}
}

func addNumber(c types.Constant, out *Numbers) {
	switch c.Kind {
	case types.ConstInt:
		out.Ints[int32(c.Int)] = struct{}{}
	case types.ConstLong:
		out.Longs[c.Int] = struct{}{}
	case types.ConstFloat:
		out.Floats[math.Float32bits(float32(c.Float))] = struct{}{}
	case types.ConstDouble:
		out.Doubles[math.Float64bits(c.Float)] = struct{}{}
	}
}

// CompareNumbers averages the set similarity of the kinds present on either
// side. Two bodies without numeric literals compare equal.
func CompareNumbers(a, b *Numbers) float64 {
	sum, kinds := 0.0, 0
	add := func(present bool, score float64) {
		if present {
			sum += score
			kinds++
		}
	}
	add(len(a.Ints)+len(b.Ints) > 0, CompareSets(a.Ints, b.Ints))
	add(len(a.Longs)+len(b.Longs) > 0, CompareSets(a.Longs, b.Longs))
	add(len(a.Floats)+len(b.Floats) > 0, CompareSets(a.Floats, b.Floats))
	add(len(a.Doubles)+len(b.Doubles) > 0, CompareSets(a.Doubles, b.Doubles))
	if kinds == 0 {
		return 1
	}
	return sum / float64(kinds)
}
