package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Decision is the outcome of the confirmation gate
type Decision int

const (
	Confirmed Decision = iota
	Cancelled
)

// Key bytes recognized in raw mode.
const (
	keyEnterCR = 13
	keyEnterLF = 10
	keyEsc     = 27
	keyCtrlC   = 3
)

// Confirm puts the terminal into raw mode and blocks until the operator
// presses Enter (run) or Esc (cancel). Every other key is ignored. The
// terminal state is restored on every exit path, including read errors;
// anything less leaves the user's shell unusable.
func Confirm() (Decision, error) {
	fmt.Print("[Enter] to run, [Esc] to cancel: ")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return Cancelled, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	decision, err := readDecision(os.Stdin)

	if restoreErr := term.Restore(fd, oldState); restoreErr != nil && err == nil {
		err = fmt.Errorf("failed to restore terminal: %w", restoreErr)
	}
	fmt.Println()

	return decision, err
}

// readDecision is the confirmation state machine: it consumes key bytes
// until a decisive one arrives.
func readDecision(r io.Reader) (Decision, error) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return Cancelled, fmt.Errorf("failed to read key: %w", err)
		}
		if n == 0 {
			continue
		}

		switch buf[0] {
		case keyEnterCR, keyEnterLF:
			return Confirmed, nil
		case keyEsc, keyCtrlC:
			return Cancelled, nil
		}
	}
}
