package types

import "math"

// InsnKind tags the instruction variants. Comparison dispatches on it.
type InsnKind uint8

const (
	InsnSimple InsnKind = iota
	InsnInt
	InsnVar
	InsnType
	InsnField
	InsnMethod
	InsnJump
	InsnLdc
	InsnIinc
	InsnTableSwitch
	InsnLookupSwitch
	InsnMultiANewArray
)

var insnKindNames = [...]string{"simple", "int", "var", "type", "field", "method", "jump", "ldc", "iinc", "tableswitch", "lookupswitch", "multianewarray"}

func (k InsnKind) String() string {
	if int(k) < len(insnKindNames) {
		return insnKindNames[k]
	}
	return "unknown"
}

// Insn is one instruction of a method body. The set of implementations is closed;
// the unexported marker keeps other packages from adding variants.
type Insn interface {
	Opcode() Opcode
	Kind() InsnKind
	sealedInsn()
}

// SimpleInsn has no operands (arithmetic, returns, stack ops)
type SimpleInsn struct {
	Op Opcode
}

// IntInsn pushes an immediate (bipush, sipush, newarray)
type IntInsn struct {
	Op      Opcode
	Operand int32
}

// VarInsn loads or stores a local variable slot
type VarInsn struct {
	Op  Opcode
	Var int
}

// TypeInsn references a class (new, anewarray, checkcast, instanceof).
// Desc is an internal name or an array descriptor.
type TypeInsn struct {
	Op   Opcode
	Desc string
}

// FieldInsn reads or writes a field
type FieldInsn struct {
	Op    Opcode
	Owner string
	Name  string
	Desc  string
}

// MethodInsn invokes a method. Itf marks interface dispatch.
type MethodInsn struct {
	Op    Opcode
	Owner string
	Name  string
	Desc  string
	Itf   bool
}

// JumpInsn branches to Target, an index into the owning instruction sequence
type JumpInsn struct {
	Op     Opcode
	Target int
}

// LdcInsn loads a constant from the pool
type LdcInsn struct {
	Value Constant
}

// IincInsn increments a local
type IincInsn struct {
	Var  int
	Incr int32
}

// TableSwitchInsn is a dense switch over [Min, Max]
type TableSwitchInsn struct {
	Min int32
	Max int32
}

// LookupSwitchInsn is a sparse switch over sorted keys
type LookupSwitchInsn struct {
	Keys []int32
}

// MultiANewArrayInsn allocates a multi-dimensional array
type MultiANewArrayInsn struct {
	Desc string
	Dims int
}

func (i SimpleInsn) Opcode() Opcode { return i.Op }
func (i IntInsn) Opcode() Opcode { return i.Op }
func (i VarInsn) Opcode() Opcode { return i.Op }
func (i TypeInsn) Opcode() Opcode { return i.Op }
func (i FieldInsn) Opcode() Opcode { return i.Op }
func (i MethodInsn) Opcode() Opcode { return i.Op }
func (i JumpInsn) Opcode() Opcode { return i.Op }
func (LdcInsn) Opcode() Opcode { return OpLdc }
func (IincInsn) Opcode() Opcode { return OpIinc }
func (TableSwitchInsn) Opcode() Opcode { return OpTableswitch }
func (LookupSwitchInsn) Opcode() Opcode { return OpLookupswitch }
func (MultiANewArrayInsn) Opcode() Opcode { return OpMultianewarray }

func (SimpleInsn) Kind() InsnKind { return InsnSimple }
func (IntInsn) Kind() InsnKind { return InsnInt }
func (VarInsn) Kind() InsnKind { return InsnVar }
func (TypeInsn) Kind() InsnKind { return InsnType }
func (FieldInsn) Kind() InsnKind { return InsnField }
func (MethodInsn) Kind() InsnKind { return InsnMethod }
func (JumpInsn) Kind() InsnKind { return InsnJump }
func (LdcInsn) Kind() InsnKind { return InsnLdc }
func (IincInsn) Kind() InsnKind { return InsnIinc }
func (TableSwitchInsn) Kind() InsnKind { return InsnTableSwitch }
func (LookupSwitchInsn) Kind() InsnKind { return InsnLookupSwitch }
func (MultiANewArrayInsn) Kind() InsnKind { return InsnMultiANewArray }

func (SimpleInsn) sealedInsn() {}
func (IntInsn) sealedInsn() {}
func (VarInsn) sealedInsn() {}
func (TypeInsn) sealedInsn() {}
func (FieldInsn) sealedInsn() {}
func (MethodInsn) sealedInsn() {}
func (JumpInsn) sealedInsn() {}
func (LdcInsn) sealedInsn() {}
func (IincInsn) sealedInsn() {}
func (TableSwitchInsn) sealedInsn() {}
func (LookupSwitchInsn) sealedInsn() {}
func (MultiANewArrayInsn) sealedInsn() {}

// ConstKind tags the runtime type of a pool constant
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
	ConstType
)

var constKindNames = [...]string{"int", "long", "float", "double", "string", "type"}

func (k ConstKind) String() string {
	if int(k) < len(constKindNames) {
		return constKindNames[k]
	}
	return "unknown"
}

// Constant is an ldc operand. Only the field matching Kind is meaningful.
type Constant struct {
	Kind  ConstKind
	Int   int64   // ConstInt, ConstLong
	Float float64 // ConstFloat (float32 precision), ConstDouble
	Str   string  // ConstString
	Type  Type    // ConstType
}

// IntConst builds an int constant
func IntConst(v int32) Constant { return Constant{Kind: ConstInt, Int: int64(v)} }

// LongConst builds a long constant
func LongConst(v int64) Constant { return Constant{Kind: ConstLong, Int: v} }

// FloatConst builds a float constant
func FloatConst(v float32) Constant { return Constant{Kind: ConstFloat, Float: float64(v)} }

// DoubleConst builds a double constant
func DoubleConst(v float64) Constant { return Constant{Kind: ConstDouble, Float: v} }

// StringConst builds a string constant
func StringConst(v string) Constant { return Constant{Kind: ConstString, Str: v} }

// TypeConst builds a class literal or method type constant
func TypeConst(t Type) Constant { return Constant{Kind: ConstType, Type: t} }

// Equal compares two constants the way boxed JVM values compare: floating
// point values by bit pattern, so NaN equals NaN and 0.0 differs from -0.0.
func (c Constant) Equal(o Constant) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ConstInt, ConstLong:
		return c.Int == o.Int
	case ConstFloat:
		return math.Float32bits(float32(c.Float)) == math.Float32bits(float32(o.Float))
	case ConstDouble:
		return math.Float64bits(c.Float) == math.Float64bits(o.Float)
	case ConstString:
		return c.Str == o.Str
	case ConstType:
		return c.Type == o.Type
	}
	return false
}
