package gmp

import (
	"fmt"
	"strings"
)

// transientAuthMarker is the error string gvmd produces when a session races
// its own authentication setup shortly after startup. The failure clears on
// its own, so commands hitting it are treated as if the daemon returned
// nothing at all rather than as failures.
const transientAuthMarker = "Failed to authenticate."

// IsTransientAuth reports whether a command's output indicates the known
// transient authentication race in daemon session setup.
func IsTransientAuth(output string) bool {
	return strings.Contains(output, transientAuthMarker)
}

// CommandError is a non-transient bridge command failure. Any CommandError is
// fatal to the run: the orchestrator stops and the process exits nonzero.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("gmp command failed: %v", e.Err)
	}
	return fmt.Sprintf("gmp command failed: %s", out)
}

func (e *CommandError) Unwrap() error { return e.Err }
