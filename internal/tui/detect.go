package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode says whether the table choice may use the arrow-key selector.
type Mode int

const (
	ModeNonInteractive Mode = iota
	ModeInteractive
)

// nonInteractiveEnv lists variables that force plain line prompts when set.
// PGLOAD_NON_INTERACTIVE only counts when it is exactly "1".
var nonInteractiveEnv = []string{"PGLOAD_NON_INTERACTIVE", "CI", "NO_COLOR"}

// DetectMode picks ModeInteractive only when no override variable is set and
// both stdin and stdout are terminals. Piped input gets the plain prompts.
func DetectMode() Mode {
	for _, name := range nonInteractiveEnv {
		v := os.Getenv(name)
		if name == "PGLOAD_NON_INTERACTIVE" && v != "1" {
			continue
		}
		if v != "" {
			return ModeNonInteractive
		}
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
