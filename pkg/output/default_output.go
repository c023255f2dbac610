package output

import "time"

// DefaultOutput is the standard Output implementation. It converts method
// calls into Event values and emits them on the stream.
type DefaultOutput struct {
	stream *EventStream
}

// NewDefaultOutput creates a DefaultOutput emitting to the given stream.
func NewDefaultOutput(stream *EventStream) *DefaultOutput {
	return &DefaultOutput{stream: stream}
}

// Info emits a step or status message.
func (o *DefaultOutput) Info(message string) {
	o.stream.Emit(Event{
		Type:      EventInfo,
		Level:     LevelNormal,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Error emits an error message.
func (o *DefaultOutput) Error(err error) {
	o.stream.Emit(Event{
		Type:      EventError,
		Level:     LevelNormal,
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}

// Warning emits a warning message.
func (o *DefaultOutput) Warning(message string) {
	o.stream.Emit(Event{
		Type:      EventWarning,
		Level:     LevelNormal,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Table emits tabular data.
func (o *DefaultOutput) Table(headers []string, rows [][]string) {
	o.stream.Emit(Event{
		Type:  EventTable,
		Level: LevelNormal,
		Data: map[string]any{
			"headers": headers,
			"rows":    rows,
		},
		Timestamp: time.Now(),
	})
}

// Progress emits a task progress update.
func (o *DefaultOutput) Progress(current, total int, message string) {
	o.stream.Emit(Event{
		Type:    EventProgress,
		Level:   LevelNormal,
		Message: message,
		Data: map[string]any{
			"current": current,
			"total":   total,
		},
		Timestamp: time.Now(),
	})
}

// Diag emits diagnostic detail.
func (o *DefaultOutput) Diag(level Level, message string, metadata map[string]any) {
	o.stream.Emit(Event{
		Type:      EventDiag,
		Level:     level,
		Message:   message,
		Metadata:  metadata,
		Timestamp: time.Now(),
	})
}
