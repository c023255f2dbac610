package scanrun

import (
	"errors"

	"github.com/gvmrun/gvmrun/pkg/gmp"
	"github.com/gvmrun/gvmrun/pkg/gvm"
	"github.com/gvmrun/gvmrun/pkg/storage"
)

// ErrorCode maps an error to a stable machine-readable code for CLI
// summaries.
func ErrorCode(err error) string {
	var cmdErr *gmp.CommandError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cmdErr):
		return "BRIDGE_COMMAND_FAILED"
	case errors.Is(err, gvm.ErrNoReport):
		return "NO_REPORT"
	case errors.Is(err, gvm.ErrPollTimeout):
		return "POLL_TIMEOUT"
	case errors.Is(err, storage.ErrLocked):
		return "RUN_IN_PROGRESS"
	default:
		return "INTERNAL_ERROR"
	}
}
