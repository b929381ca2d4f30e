// Package logger provides diagnostic logging for runar-sqlite. Debug,
// lifecycle and SQL tracing lines are suppressed unless verbose mode is
// enabled (the CLI --verbose flag, or SetVerbose from an embedding
// application); warnings always print.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	prefixDebug = "[DEBUG] "
	prefixInfo  = "[INFO] "
	prefixWarn  = "[WARN] "
	prefixSQL   = "[SQL] "
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr. Useful for
// testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && prefix != prefixWarn {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a debug message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(prefixDebug, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(prefixInfo, format, args...)
}

// Warn prints a warning message. Warnings print regardless of the
// verbose setting.
func Warn(format string, args ...any) {
	logf(prefixWarn, format, args...)
}

// SQL traces a statement about to be executed, if verbose mode is
// enabled.
func SQL(format string, args ...any) {
	logf(prefixSQL, format, args...)
}

// Section prints a section header if verbose mode is enabled, marking a
// lifecycle transition such as service start.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
