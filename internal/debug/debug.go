package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EnableDebug turns on every component at build time:
// go build -ldflags "-X github.com/standardbeagle/remap/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// Component tags used across remap
const (
	ComponentRank   = "RANK"
	ComponentMatch  = "MATCH"
	ComponentCache  = "CACHE"
	ComponentLoad   = "LOAD"
	ComponentConfig = "CONFIG"
	ComponentWatch  = "WATCH"
)

// state is the process-wide logging setup. quiet overrides everything else.
var state struct {
	mu         sync.Mutex
	out        io.Writer
	file       *os.File
	quiet      bool
	components map[string]bool // nil means all components
}

// SetQuietMode silences debug and fatal output regardless of flags, config or
// environment.
func SetQuietMode(enabled bool) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.quiet = enabled
}

// SetDebugOutput sets the writer for debug output; nil disables it
func SetDebugOutput(w io.Writer) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.out = w
}

// SetComponents restricts logging to the named components (case-insensitive).
// An empty list re-enables all of them.
func SetComponents(names ...string) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.components = componentSet(names)
}

func componentSet(names []string) map[string]bool {
	var set map[string]bool
	for _, n := range names {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if set == nil {
			set = make(map[string]bool)
		}
		set[n] = true
	}
	return set
}

// InitDebugLogFile opens a timestamped log file under the temp directory and
// routes debug output to it. Call CloseDebugLog when done.
func InitDebugLogFile() (string, error) {
	logDir := filepath.Join(os.TempDir(), "remap-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}
	logPath := filepath.Join(logDir, "debug-"+time.Now().Format("2006-01-02T150405")+".log")

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.file = file
	state.out = file
	return logPath, nil
}

// CloseDebugLog closes the log file opened by InitDebugLogFile, if any
func CloseDebugLog() error {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.file == nil {
		return nil
	}
	err := state.file.Close()
	state.file = nil
	state.out = nil
	return err
}

// IsDebugEnabled reports whether any debug output can be produced.
// REMAP_DEBUG accepts 1, true or all, or a comma-separated list of components
// such as "rank,match".
func IsDebugEnabled() bool {
	state.mu.Lock()
	quiet := state.quiet
	state.mu.Unlock()
	if quiet {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	_, on := envComponents()
	return on
}

// envComponents parses REMAP_DEBUG into a component filter
func envComponents() (map[string]bool, bool) {
	v := strings.TrimSpace(os.Getenv("REMAP_DEBUG"))
	switch strings.ToLower(v) {
	case "", "0", "false":
		return nil, false
	case "1", "true", "all":
		return nil, true
	}
	return componentSet(strings.Split(v, ",")), true
}

// writerFor returns the output for component, or nil when it is filtered out
func writerFor(component string) io.Writer {
	if !IsDebugEnabled() {
		return nil
	}
	state.mu.Lock()
	out, filter := state.out, state.components
	state.mu.Unlock()
	if out == nil {
		return nil
	}
	if filter == nil && EnableDebug != "true" {
		filter, _ = envComponents()
	}
	if filter != nil && !filter[component] {
		return nil
	}
	return out
}

// Log writes a component-tagged line; callers end format with "\n"
func Log(component, format string, args ...interface{}) {
	w := writerFor(component)
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogRank logs ranking engine activity
func LogRank(format string, args ...interface{}) { Log(ComponentRank, format, args...) }

// LogMatch logs driver decisions
func LogMatch(format string, args ...interface{}) { Log(ComponentMatch, format, args...) }

// LogCache logs comparison cache lifecycle events
func LogCache(format string, args ...interface{}) { Log(ComponentCache, format, args...) }

// LogLoad logs snapshot loading
func LogLoad(format string, args ...interface{}) { Log(ComponentLoad, format, args...) }

// Fatal records msg in the debug log (unless quiet) and returns it as an error.
// Callers decide whether to exit.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	state.mu.Lock()
	out, quiet := state.out, state.quiet
	state.mu.Unlock()
	if !quiet && out != nil {
		fmt.Fprintf(out, "[FATAL] %s", msg)
	}
	return fmt.Errorf("fatal error: %s", msg)
}
