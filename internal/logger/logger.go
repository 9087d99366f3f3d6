// Package logger writes podtopic's diagnostic output. Debug and Info lines
// only appear with --verbose; warnings always do.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
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

// IsVerbose reports whether verbose mode is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Output returns the current log writer.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

func emit(always bool, prefix, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message in verbose mode.
func Debug(format string, args ...any) { emit(false, "[DEBUG] ", format, args) }

// Info prints a message in verbose mode.
func Info(format string, args ...any) { emit(false, "[INFO] ", format, args) }

// Warn prints a message regardless of verbosity.
func Warn(format string, args ...any) { emit(true, "[WARN] ", format, args) }

// Section prints a stage header in verbose mode.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
