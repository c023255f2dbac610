package subscribers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gvmrun/gvmrun/pkg/output"
)

// JSONFormatter renders scan lifecycle events as JSON Lines, one object per
// event, for machine consumption.
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a JSONFormatter subscriber.
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	return &JSONFormatter{encoder: json.NewEncoder(writer)}
}

// Name returns the subscriber identifier.
func (s *JSONFormatter) Name() string {
	return "json-formatter"
}

// ShouldHandle reports interest in everything except diagnostic events.
func (s *JSONFormatter) ShouldHandle(event output.Event) bool {
	return event.Type != output.EventDiag
}

// Handle renders one event as a JSON line.
func (s *JSONFormatter) Handle(event output.Event) {
	jsonEvent := map[string]any{
		"type":      event.Type,
		"timestamp": event.Timestamp.Format(time.RFC3339),
	}
	if event.Message != "" {
		jsonEvent["message"] = event.Message
	}
	if event.Data != nil {
		jsonEvent["data"] = event.Data
	}
	if len(event.Metadata) > 0 {
		jsonEvent["metadata"] = event.Metadata
	}

	// Rendering failures (broken pipe) are dropped; subscribers cannot
	// propagate errors.
	_ = s.encoder.Encode(jsonEvent)
}
