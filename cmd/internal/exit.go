// Package internal carries the small helpers shared by the sealdrop commands.
package internal

import (
	"fmt"
	"os"
	"strings"
)

// Fatal will Echo the message and exit the command with status 1.
func Fatal(msg string, args ...any) {
	Echo(msg, args...)
	os.Exit(1)
}

// Echo writes a printf-style message to stderr, terminated with exactly one
// newline, without any logging formatting. Stdout stays free for real output.
func Echo(msg string, args ...any) {
	msg = strings.TrimRight(msg, "\n") + "\n"
	_, _ = fmt.Fprintf(os.Stderr, msg, args...)
}
