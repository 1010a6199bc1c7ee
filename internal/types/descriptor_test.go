package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	remaperrors "github.com/standardbeagle/remap/internal/errors"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		desc      string
		sort      Sort
		dims      int
		elem      string
		internal  string
		primitive bool
	}{
		{"I", SortInt, 0, "I", "", true},
		{"V", SortVoid, 0, "V", "", true},
		{"J", SortLong, 0, "J", "", true},
		{"Ljava/lang/String;", SortObject, 0, "Ljava/lang/String;", "java/lang/String", false},
		{"[[J", SortArray, 2, "J", "[[J", false},
		{"[La/b;", SortArray, 1, "La/b;", "[La/b;", false},
		{"(IJ)V", SortMethod, 0, "(IJ)V", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			typ, err := ParseType(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.sort, typ.Sort())
			assert.Equal(t, tt.dims, typ.Dimensions())
			assert.Equal(t, tt.elem, typ.ElementType().Descriptor())
			assert.Equal(t, tt.internal, typ.InternalName())
			assert.Equal(t, tt.primitive, typ.IsPrimitive())
		})
	}
}

func TestParseTypeRejectsMalformed(t *testing.T) {
	for _, desc := range []string{"", "[", "Q", "La/b", "L;", "II", "[V", "(I"} {
		t.Run(desc, func(t *testing.T) {
			_, err := ParseType(desc)
			require.Error(t, err)
			var de *remaperrors.DescriptorError
			assert.True(t, errors.As(err, &de), "expected DescriptorError, got %T", err)
		})
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("(I[Ljava/lang/String;J)Z")
	require.NoError(t, err)
	require.Len(t, sig.Params, 3)
	assert.Equal(t, "I", sig.Params[0].Descriptor())
	assert.Equal(t, "[Ljava/lang/String;", sig.Params[1].Descriptor())
	assert.Equal(t, "J", sig.Params[2].Descriptor())
	assert.Equal(t, SortBoolean, sig.Return.Sort())
	assert.Equal(t, "(I[Ljava/lang/String;J)Z", sig.Descriptor())

	empty, err := ParseSignature("()V")
	require.NoError(t, err)
	assert.Empty(t, empty.Params)

	for _, bad := range []string{"I", "(V)V", "()", "(I)VV", "(La/b)V"} {
		_, err := ParseSignature(bad)
		assert.Error(t, err, bad)
	}
}

func TestObjectType(t *testing.T) {
	assert.Equal(t, "La/B;", ObjectType("a/B").Descriptor())
	assert.Equal(t, "[I", ObjectType("[I").Descriptor())
}

func TestConstantEqual(t *testing.T) {
	assert.True(t, IntConst(5).Equal(IntConst(5)))
	assert.False(t, IntConst(5).Equal(LongConst(5)))
	assert.True(t, StringConst("x").Equal(StringConst("x")))
	assert.False(t, DoubleConst(0.0).Equal(DoubleConst(negZero())))
	assert.True(t, FloatConst(1.5).Equal(FloatConst(1.5)))
	assert.True(t, TypeConst(MustParseType("La/b;")).Equal(TypeConst(MustParseType("La/b;"))))
}

func negZero() float64 {
	z := 0.0
	return -z
}

func TestOpcodeNames(t *testing.T) {
	assert.Equal(t, "invokevirtual", OpInvokevirtual.String())
	assert.Equal(t, "op250", Opcode(250).String())

	op, ok := LookupOpcode("GETFIELD")
	require.True(t, ok)
	assert.Equal(t, OpGetfield, op)
	assert.True(t, op.IsFieldRead())
	assert.False(t, op.IsFieldWrite())

	_, ok = LookupOpcode("bogus")
	assert.False(t, ok)
}

func TestOpcodeInsnKind(t *testing.T) {
	tests := []struct {
		name string
		want InsnKind
	}{
		{"iadd", InsnSimple},
		{"return", InsnSimple},
		{"invokedynamic", InsnSimple},
		{"bipush", InsnInt},
		{"newarray", InsnInt},
		{"aload", InsnVar},
		{"istore", InsnVar},
		{"ret", InsnVar},
		{"checkcast", InsnType},
		{"putstatic", InsnField},
		{"invokeinterface", InsnMethod},
		{"goto", InsnJump},
		{"if_acmpne", InsnJump},
		{"ifnonnull", InsnJump},
		{"ldc", InsnLdc},
		{"iinc", InsnIinc},
		{"tableswitch", InsnTableSwitch},
		{"lookupswitch", InsnLookupSwitch},
		{"multianewarray", InsnMultiANewArray},
	}
	for _, tt := range tests {
		op, ok := LookupOpcode(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, op.InsnKind(), tt.name)
	}
}
