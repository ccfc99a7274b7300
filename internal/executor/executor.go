package executor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Run executes the command through the user's shell and returns its exit code
func Run(command string) (int, error) {
	return RunWithDebug(command, false)
}

// RunWithDebug executes the command with optional debug logging. The command
// string is handed to the shell untokenized so pipes, globs and redirects
// keep their shell semantics. The child inherits stdin/stdout/stderr, so
// interactive programs it spawns work unmodified. A nonzero child exit code
// is not an error here; it is returned for the caller to propagate.
func RunWithDebug(command string, debug bool) (int, error) {
	var shell string
	var shellArgs []string

	if runtime.GOOS == "windows" {
		shell = "cmd"
		shellArgs = []string{"/C", command}
	} else {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		shellArgs = []string{"-c", command}
	}

	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] Executor: running %q via %s\n", command, shell)
	}

	cmd := exec.Command(shell, shellArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Terminated by signal, no exit code to mirror.
			code = 1
		}
		if debug {
			fmt.Fprintf(os.Stderr, "[DEBUG] Executor: command exited with code %d\n", code)
		}
		return code, nil
	}

	return 1, fmt.Errorf("failed to run command: %w", err)
}
