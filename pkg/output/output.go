package output

import "time"

// EventType categorizes an output event.
type EventType string

const (
	// EventInfo is a general step or status message (always visible)
	EventInfo EventType = "info"

	// EventError is an error message
	EventError EventType = "error"

	// EventWarning is a warning message
	EventWarning EventType = "warning"

	// EventTable is tabular data (the run summary)
	EventTable EventType = "table"

	// EventProgress is a task progress update from polling
	EventProgress EventType = "progress"

	// EventDiag is diagnostic detail (only visible with -v/-vv)
	EventDiag EventType = "diag"
)

// Level is the verbosity level of a diagnostic event.
type Level int

const (
	// LevelNormal is always shown
	LevelNormal Level = 0

	// LevelVerbose is shown with -v
	LevelVerbose Level = 1

	// LevelDebug is shown with -vv
	LevelDebug Level = 2
)

// Event is a single output event emitted by the scan lifecycle.
type Event struct {
	// Type identifies the event category
	Type EventType

	// Level is the verbosity level (EventDiag only)
	Level Level

	// Message is the primary text content
	Message string

	// Data carries structured payloads (table headers/rows, progress values)
	Data any

	// Metadata holds key-value pairs for diagnostic events
	Metadata map[string]any

	// Timestamp records when the event was created
	Timestamp time.Time
}

// Output is the interface the scan lifecycle uses to report to the user
// without knowing the rendering format (human terminal, JSON lines).
type Output interface {
	// Info emits a step or status message.
	// Example: out.Info("Created target with id 7a0f...")
	Info(message string)

	// Error emits an error message.
	Error(err error)

	// Warning emits a warning message.
	// Example: out.Warning("Generated report is empty")
	Warning(message string)

	// Table emits tabular data, used for the run summary.
	Table(headers []string, rows [][]string)

	// Progress emits a task progress update (0-100).
	Progress(current, total int, message string)

	// Diag emits diagnostic detail, visible only at raised verbosity.
	Diag(level Level, message string, metadata map[string]any)
}
