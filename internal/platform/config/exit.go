package config

import (
	"fmt"
	"os"
)

const (
	// ExitCodeDataError reports malformed input data (sysexits EX_DATAERR).
	ExitCodeDataError = 65
	// ExitCodeInterrupted is the conventional exit status after SIGINT.
	ExitCodeInterrupted = 130
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	ExitCodef(1, format, args...)
}

// ExitCodef writes a formatted error message to stderr and exits with code.
func ExitCodef(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
