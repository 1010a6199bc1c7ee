package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/remap/internal/config"
	"github.com/standardbeagle/remap/internal/types"
)

// names maps the identifiers of the reference program to one obfuscation run
type names map[string]string

func (n names) of(s string) string {
	if v, ok := n[s]; ok {
		return v
	}
	return s
}

var (
	original = names{}
	renamed  = names{
		"a/A": "q/X", "a/B": "q/Y",
		"run": "m1", "compute": "m2", "describe": "m3",
		"x": "f1", "s": "f2", "flag": "f3",
	}
)

// counterProgram is a small two-class hierarchy whose members reference each
// other; n renames every class, method and field.
func counterProgram(n names) func(t *testing.T, b *types.GroupBuilder) {
	return func(t *testing.T, b *types.GroupBuilder) {
		a := b.AddClass(n.of("a/A"), "java/lang/Object")
		sub := b.AddClass(n.of("a/B"), n.of("a/A"))

		addField(t, b, a, n.of("x"), "I")
		addField(t, b, a, n.of("s"), "Ljava/lang/String;")
		addField(t, b, sub, n.of("flag"), "Z")

		addMethod(t, b, a, "<init>", "()V",
			types.VarInsn{Op: 25, Var: 0},
			types.MethodInsn{Op: types.OpInvokespecial, Owner: "java/lang/Object", Name: "<init>", Desc: "()V"},
			types.SimpleInsn{Op: 177},
		)
		addMethod(t, b, a, n.of("run"), "()V",
			types.VarInsn{Op: 25, Var: 0},
			types.LdcInsn{Value: types.StringConst("alpha")},
			types.SimpleInsn{Op: 87},
			types.VarInsn{Op: 25, Var: 0},
			types.VarInsn{Op: 25, Var: 0},
			types.IntInsn{Op: types.OpBipush, Operand: 7},
			types.MethodInsn{Op: types.OpInvokevirtual, Owner: n.of("a/A"), Name: n.of("compute"), Desc: "(I)I"},
			types.FieldInsn{Op: types.OpPutfield, Owner: n.of("a/A"), Name: n.of("x"), Desc: "I"},
			types.SimpleInsn{Op: 177},
		)
		addMethod(t, b, a, n.of("compute"), "(I)I",
			types.VarInsn{Op: types.OpIload, Var: 1},
			types.VarInsn{Op: 25, Var: 0},
			types.FieldInsn{Op: types.OpGetfield, Owner: n.of("a/A"), Name: n.of("x"), Desc: "I"},
			types.SimpleInsn{Op: 96},
			types.SimpleInsn{Op: 172},
		)
		addMethod(t, b, sub, n.of("describe"), "()Ljava/lang/String;",
			types.VarInsn{Op: 25, Var: 0},
			types.FieldInsn{Op: types.OpGetfield, Owner: n.of("a/B"), Name: n.of("s"), Desc: "Ljava/lang/String;"},
			types.JumpInsn{Op: types.OpIfnonnull, Target: 4},
			types.LdcInsn{Value: types.StringConst("beta")},
			types.SimpleInsn{Op: 176},
		)
	}
}

func addField(t *testing.T, b *types.GroupBuilder, owner *types.ClassEntry, name, desc string) {
	t.Helper()
	_, err := b.AddField(owner, name, desc, false)
	require.NoError(t, err)
}

func addMethod(t *testing.T, b *types.GroupBuilder, owner *types.ClassEntry, name, desc string, insns ...types.Insn) {
	t.Helper()
	_, err := b.AddMethod(owner, name, desc, false, insns)
	require.NoError(t, err)
}

func pair(t *testing.T, defA, defB func(t *testing.T, b *types.GroupBuilder)) *types.Env {
	t.Helper()

	ba := types.NewGroupBuilder(types.SideA, "old")
	defA(t, ba)
	ga, err := ba.Build()
	require.NoError(t, err)

	bb := types.NewGroupBuilder(types.SideB, "new")
	defB(t, bb)
	gb, err := bb.Build()
	require.NoError(t, err)

	env, err := types.NewEnv(ga, gb)
	require.NoError(t, err)
	return env
}

func newMatcher(t *testing.T, env *types.Env, mutate func(*config.Config)) *Matcher {
	t.Helper()
	cfg := config.Default()
	cfg.Matching.Workers = 4
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, config.ValidateConfig(cfg))

	m, err := New(env, cfg)
	require.NoError(t, err)
	return m
}
