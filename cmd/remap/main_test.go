package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/remap/internal/matcher"
	"github.com/standardbeagle/remap/internal/snapshot"
	"github.com/standardbeagle/remap/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const oldSnapshot = `{
  "name": "old",
  "classes": [
    {
      "name": "a/A",
      "super": "java/lang/Object",
      "fields": [{"name": "x", "desc": "I"}],
      "methods": [
        {"name": "run", "desc": "(I)V", "insns": [
          {"op": "aload", "var": 0},
          {"op": "iload", "var": 1},
          {"op": "putfield", "owner": "a/A", "name": "x", "desc": "I"},
          {"op": "return"}
        ]}
      ]
    }
  ]
}`

const newSnapshot = `{
  "name": "new",
  "classes": [
    {
      "name": "q/X",
      "super": "java/lang/Object",
      "fields": [{"name": "f1", "desc": "I"}],
      "methods": [
        {"name": "m1", "desc": "(I)V", "insns": [
          {"op": "aload", "var": 0},
          {"op": "iload", "var": 1},
          {"op": "putfield", "owner": "q/X", "name": "f1", "desc": "I"},
          {"op": "return"}
        ]}
      ]
    }
  ]
}`

func session(t *testing.T) *matcher.Matcher {
	t.Helper()
	a, err := snapshot.Decode(strings.NewReader(oldSnapshot), snapshot.FormatJSON)
	require.NoError(t, err)
	b, err := snapshot.Decode(strings.NewReader(newSnapshot), snapshot.FormatJSON)
	require.NoError(t, err)

	ga, err := a.Build(types.SideA)
	require.NoError(t, err)
	gb, err := b.Build(types.SideB)
	require.NoError(t, err)
	env, err := types.NewEnv(ga, gb)
	require.NoError(t, err)

	m, err := matcher.New(env, nil)
	require.NoError(t, err)
	return m
}

func TestSplitMember(t *testing.T) {
	tests := []struct {
		in, sep    string
		keep       bool
		name, desc string
		ok         bool
	}{
		{"run(I)V", "(", true, "run", "(I)V", true},
		{"x:I", ":", false, "x", "I", true},
		{"(I)V", "(", true, "", "", false},
		{"x:", ":", false, "", "", false},
		{"run", "(", true, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, desc, ok := splitMember(tt.in, tt.sep, tt.keep)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.desc, desc)
		})
	}
}

func TestRankOne(t *testing.T) {
	m := session(t)

	r, err := rankOne(m, "a/A", "", "")
	require.NoError(t, err)
	assert.Equal(t, "a/A", r.Source)
	require.NotEmpty(t, r.Rows)
	assert.Equal(t, "q/X", r.Rows[0].Subject)

	r, err = rankOne(m, "a/A", "run(I)V", "")
	require.NoError(t, err)
	require.NotEmpty(t, r.Rows)
	assert.Equal(t, "q/X.m1(I)V", r.Rows[0].Subject)

	r, err = rankOne(m, "a/A", "", "x:I")
	require.NoError(t, err)
	require.NotEmpty(t, r.Rows)
	assert.Equal(t, "q/X.f1:I", r.Rows[0].Subject)
}

func TestRankOneErrors(t *testing.T) {
	m := session(t)

	tests := []struct {
		name                 string
		class, method, field string
		want                 string
	}{
		{"missing class", "a/Nope", "", "", "class a/Nope not found"},
		{"both members", "a/A", "run(I)V", "x:I", "mutually exclusive"},
		{"bad method", "a/A", "run", "", "must be name followed by a descriptor"},
		{"missing method", "a/A", "walk()V", "", "not found"},
		{"bad field", "a/A", "", "x", "must be name:descriptor"},
		{"missing field", "a/A", "", "y:J", "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rankOne(m, tt.class, tt.method, tt.field)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSnapshotWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.json")
	other := filepath.Join(dir, "unrelated.txt")
	require.NoError(t, os.WriteFile(path, []byte(oldSnapshot), 0o644))

	sw, err := newSnapshotWatcher([]string{path}, 50*time.Millisecond)
	require.NoError(t, err)
	sw.Start(context.Background())
	defer func() { require.NoError(t, sw.Stop()) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(oldSnapshot), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("noise"), 0o644))

	select {
	case <-sw.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case <-sw.Changes():
		t.Fatal("burst of writes should coalesce into one notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSnapshotWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.json")
	require.NoError(t, os.WriteFile(path, []byte(newSnapshot), 0o644))

	sw, err := newSnapshotWatcher([]string{path}, 20*time.Millisecond)
	require.NoError(t, err)
	sw.Start(context.Background())
	defer func() { require.NoError(t, sw.Stop()) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	select {
	case <-sw.Changes():
		t.Fatal("unwatched file triggered a notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSnapshotWatcherMissingDirectory(t *testing.T) {
	_, err := newSnapshotWatcher([]string{filepath.Join(t.TempDir(), "nope", "a.json")}, time.Millisecond)
	require.Error(t, err)
}
