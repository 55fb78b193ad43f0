package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptSecret reads one line from the terminal without echoing it, for values
// that should not land in shell history or scrollback. The label goes to
// stderr so stdout stays clean for piped output. Fails when stdin is not a
// terminal, since there is no way to suppress echo on a pipe.
func PromptSecret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available for interactive prompt")
	}
	_, _ = fmt.Fprintf(os.Stderr, "%s: ", label)
	line, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	value := strings.TrimSpace(string(line))
	if len(value) == 0 {
		return "", errors.New("no value given")
	}
	return value, nil
}
