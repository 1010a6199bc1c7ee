package snapshot

import (
	"fmt"
	"slices"

	"github.com/standardbeagle/remap/internal/types"
)

// InsnRecord is the flat on-disk form of an instruction. Op is the mnemonic;
// the operand fields used depend on the opcode's kind.
type InsnRecord struct {
	Op      string       `json:"op" yaml:"op"`
	Operand int32        `json:"operand,omitempty" yaml:"operand,omitempty"` // bipush, sipush, newarray
	Var     int          `json:"var,omitempty" yaml:"var,omitempty"`         // loads, stores, iinc
	Incr    int32        `json:"incr,omitempty" yaml:"incr,omitempty"`
	Type    string       `json:"type,omitempty" yaml:"type,omitempty"` // new, checkcast, ...
	Owner   string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	Name    string       `json:"name,omitempty" yaml:"name,omitempty"`
	Desc    string       `json:"desc,omitempty" yaml:"desc,omitempty"`
	Itf     bool         `json:"itf,omitempty" yaml:"itf,omitempty"`
	Target  int          `json:"target,omitempty" yaml:"target,omitempty"` // index into the body
	Const   *ConstRecord `json:"const,omitempty" yaml:"const,omitempty"`
	Min     int32        `json:"min,omitempty" yaml:"min,omitempty"`
	Max     int32        `json:"max,omitempty" yaml:"max,omitempty"`
	Keys    []int32      `json:"keys,omitempty" yaml:"keys,omitempty"`
	Dims    int          `json:"dims,omitempty" yaml:"dims,omitempty"`
}

// ConstRecord holds an ldc operand; exactly one field is set.
// Type takes a field or method descriptor.
type ConstRecord struct {
	Int    *int32   `json:"int,omitempty" yaml:"int,omitempty"`
	Long   *int64   `json:"long,omitempty" yaml:"long,omitempty"`
	Float  *float32 `json:"float,omitempty" yaml:"float,omitempty"`
	Double *float64 `json:"double,omitempty" yaml:"double,omitempty"`
	String *string  `json:"string,omitempty" yaml:"string,omitempty"`
	Type   *string  `json:"type,omitempty" yaml:"type,omitempty"`
}

func convertInsns(recs []InsnRecord) ([]types.Insn, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	out := make([]types.Insn, len(recs))
	for i, rec := range recs {
		insn, err := convertInsn(rec)
		if err != nil {
			return nil, fmt.Errorf("insn %d: %w", i, err)
		}
		out[i] = insn
	}
	return out, nil
}

func convertInsn(rec InsnRecord) (types.Insn, error) {
	op, ok := types.LookupOpcode(rec.Op)
	if !ok {
		return nil, fmt.Errorf("unknown opcode %q", rec.Op)
	}

	switch op.InsnKind() {
	case types.InsnInt:
		return types.IntInsn{Op: op, Operand: rec.Operand}, nil
	case types.InsnVar:
		return types.VarInsn{Op: op, Var: rec.Var}, nil
	case types.InsnType:
		if rec.Type == "" {
			return nil, fmt.Errorf("%s needs a type", op)
		}
		return types.TypeInsn{Op: op, Desc: rec.Type}, nil
	case types.InsnField:
		if rec.Owner == "" || rec.Name == "" || rec.Desc == "" {
			return nil, fmt.Errorf("%s needs owner, name and desc", op)
		}
		return types.FieldInsn{Op: op, Owner: rec.Owner, Name: rec.Name, Desc: rec.Desc}, nil
	case types.InsnMethod:
		if rec.Owner == "" || rec.Name == "" || rec.Desc == "" {
			return nil, fmt.Errorf("%s needs owner, name and desc", op)
		}
		return types.MethodInsn{Op: op, Owner: rec.Owner, Name: rec.Name, Desc: rec.Desc, Itf: rec.Itf}, nil
	case types.InsnJump:
		return types.JumpInsn{Op: op, Target: rec.Target}, nil
	case types.InsnLdc:
		c, err := convertConst(rec.Const)
		if err != nil {
			return nil, err
		}
		return types.LdcInsn{Value: c}, nil
	case types.InsnIinc:
		return types.IincInsn{Var: rec.Var, Incr: rec.Incr}, nil
	case types.InsnTableSwitch:
		if rec.Max < rec.Min {
			return nil, fmt.Errorf("tableswitch range [%d, %d] is empty", rec.Min, rec.Max)
		}
		return types.TableSwitchInsn{Min: rec.Min, Max: rec.Max}, nil
	case types.InsnLookupSwitch:
		keys := slices.Sorted(slices.Values(rec.Keys))
		for i := 1; i < len(keys); i++ {
			if keys[i] == keys[i-1] {
				return nil, fmt.Errorf("lookupswitch key %d repeated", keys[i])
			}
		}
		return types.LookupSwitchInsn{Keys: keys}, nil
	case types.InsnMultiANewArray:
		if rec.Desc == "" || rec.Dims <= 0 {
			return nil, fmt.Errorf("multianewarray needs desc and positive dims")
		}
		return types.MultiANewArrayInsn{Desc: rec.Desc, Dims: rec.Dims}, nil
	}
	return types.SimpleInsn{Op: op}, nil
}

func convertConst(rec *ConstRecord) (types.Constant, error) {
	if rec == nil {
		return types.Constant{}, fmt.Errorf("ldc needs a const")
	}

	var (
		c   types.Constant
		set int
	)
	if rec.Int != nil {
		c, set = types.IntConst(*rec.Int), set+1
	}
	if rec.Long != nil {
		c, set = types.LongConst(*rec.Long), set+1
	}
	if rec.Float != nil {
		c, set = types.FloatConst(*rec.Float), set+1
	}
	if rec.Double != nil {
		c, set = types.DoubleConst(*rec.Double), set+1
	}
	if rec.String != nil {
		c, set = types.StringConst(*rec.String), set+1
	}
	if rec.Type != nil {
		t, err := types.ParseType(*rec.Type)
		if err != nil {
			return types.Constant{}, err
		}
		c, set = types.TypeConst(t), set+1
	}
	if set != 1 {
		return types.Constant{}, fmt.Errorf("ldc const must set exactly one value, got %d", set)
	}
	return c, nil
}
