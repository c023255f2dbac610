package gvm

import "errors"

// ErrNoReport signals that the daemon produced no usable report for a
// completed task. Retrieval failures of this kind are non-fatal: the run
// finishes without a saved file and cleanup still happens.
var ErrNoReport = errors.New("no report produced")

// ErrPollTimeout signals that the configured poll budget elapsed before the
// daemon reported the task Done.
var ErrPollTimeout = errors.New("timed out waiting for task completion")
