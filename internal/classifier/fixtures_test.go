package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/remap/internal/cache"
	"github.com/standardbeagle/remap/internal/types"
)

// pairOf builds an old and a new group with the given definitions and pairs
// them in a classifier environment with a fresh cache.
func pairOf(t *testing.T, defA, defB func(t *testing.T, b *types.GroupBuilder)) *Env {
	t.Helper()

	ba := types.NewGroupBuilder(types.SideA, "old")
	defA(t, ba)
	ga, err := ba.Build()
	require.NoError(t, err)

	bb := types.NewGroupBuilder(types.SideB, "new")
	defB(t, bb)
	gb, err := bb.Build()
	require.NoError(t, err)

	groups, err := types.NewEnv(ga, gb)
	require.NoError(t, err)
	return NewEnv(groups, cache.New())
}

func method(t *testing.T, b *types.GroupBuilder, owner *types.ClassEntry, name, desc string, static bool, insns ...types.Insn) *types.MethodEntry {
	t.Helper()
	m, err := b.AddMethod(owner, name, desc, static, insns)
	require.NoError(t, err)
	return m
}

func field(t *testing.T, b *types.GroupBuilder, owner *types.ClassEntry, name, desc string, static bool) *types.FieldEntry {
	t.Helper()
	f, err := b.AddField(owner, name, desc, static)
	require.NoError(t, err)
	return f
}

// methodIn finds a method by owner and name in a built group
func methodIn(t *testing.T, g *types.Group, owner, name, desc string) *types.MethodEntry {
	t.Helper()
	c := g.Class(owner)
	require.NotNil(t, c, "class %s", owner)
	m := c.Method(name, desc)
	require.NotNil(t, m, "method %s.%s%s", owner, name, desc)
	return m
}
