package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetState restores the package state when the test ends
func resetState(t *testing.T) {
	t.Helper()
	origDebug := EnableDebug
	state.mu.Lock()
	origOut, origFile := state.out, state.file
	origQuiet, origComponents := state.quiet, state.components
	state.mu.Unlock()

	t.Setenv("REMAP_DEBUG", "")
	t.Cleanup(func() {
		EnableDebug = origDebug
		state.mu.Lock()
		defer state.mu.Unlock()
		state.out, state.file = origOut, origFile
		state.quiet, state.components = origQuiet, origComponents
	})
}

func TestIsDebugEnabled(t *testing.T) {
	resetState(t)

	EnableDebug = "false"
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	// Quiet mode wins over the build flag
	SetQuietMode(true)
	assert.False(t, IsDebugEnabled())
	SetQuietMode(false)

	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())
}

func TestIsDebugEnabledFromEnv(t *testing.T) {
	resetState(t)
	EnableDebug = "false"

	for _, v := range []string{"1", "true", "ALL", "rank,match"} {
		t.Setenv("REMAP_DEBUG", v)
		assert.True(t, IsDebugEnabled(), v)
	}
	for _, v := range []string{"", "0", "false"} {
		t.Setenv("REMAP_DEBUG", v)
		assert.False(t, IsDebugEnabled(), v)
	}
}

func TestLog(t *testing.T) {
	resetState(t)

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	Log("TEST", "Hello %s\n", "World")

	assert.Equal(t, "[DEBUG:TEST] Hello World\n", buf.String())
}

func TestLogQuietMode(t *testing.T) {
	resetState(t)

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	SetQuietMode(true)
	Log("TEST", "Should not appear")

	assert.Empty(t, buf.String())
}

func TestLogNoWriter(t *testing.T) {
	resetState(t)
	EnableDebug = "true"
	SetDebugOutput(nil)

	assert.NotPanics(t, func() { Log("TEST", "dropped") })
}

func TestLogComponentFilter(t *testing.T) {
	resetState(t)
	EnableDebug = "true"

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	SetComponents("rank", " Cache ")
	LogRank("kept\n")
	LogCache("kept\n")
	LogMatch("dropped\n")
	assert.Equal(t, "[DEBUG:RANK] kept\n[DEBUG:CACHE] kept\n", buf.String())

	buf.Reset()
	SetComponents()
	LogMatch("back\n")
	assert.Equal(t, "[DEBUG:MATCH] back\n", buf.String())
}

func TestLogEnvComponentFilter(t *testing.T) {
	resetState(t)
	EnableDebug = "false"
	t.Setenv("REMAP_DEBUG", "load")

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	LogLoad("a.json\n")
	LogRank("dropped\n")
	assert.Equal(t, "[DEBUG:LOAD] a.json\n", buf.String())
}

func TestFatal(t *testing.T) {
	resetState(t)

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	err := Fatal("test error: %s", "details")
	assert.EqualError(t, err, "fatal error: test error: details")
	assert.Contains(t, buf.String(), "[FATAL]")

	buf.Reset()
	SetQuietMode(true)
	err = Fatal("another error")
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestLogHelpers(t *testing.T) {
	resetState(t)
	EnableDebug = "true"

	tests := []struct {
		name    string
		logFunc func(string, ...interface{})
		prefix  string
	}{
		{"LogRank", LogRank, "[DEBUG:RANK]"},
		{"LogMatch", LogMatch, "[DEBUG:MATCH]"},
		{"LogCache", LogCache, "[DEBUG:CACHE]"},
		{"LogLoad", LogLoad, "[DEBUG:LOAD]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetDebugOutput(&buf)
			tt.logFunc("value %d", 7)
			assert.Contains(t, buf.String(), tt.prefix)
			assert.Contains(t, buf.String(), "value 7")
		})
	}
}

func TestDebugLogFile(t *testing.T) {
	resetState(t)
	t.Setenv("TMPDIR", t.TempDir())
	EnableDebug = "true"

	path, err := InitDebugLogFile()
	require.NoError(t, err)
	LogMatch("to file\n")
	require.NoError(t, CloseDebugLog())
	require.NoError(t, CloseDebugLog(), "second close is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[DEBUG:MATCH] to file\n", string(data))
}
