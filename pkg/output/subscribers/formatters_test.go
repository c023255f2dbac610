package subscribers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvmrun/gvmrun/pkg/output"
)

func TestHumanFormatter_SkipsDiagEvents(t *testing.T) {
	f := NewHumanFormatter(&bytes.Buffer{}, &bytes.Buffer{}, false)
	assert.False(t, f.ShouldHandle(output.Event{Type: output.EventDiag}))
	assert.True(t, f.ShouldHandle(output.Event{Type: output.EventInfo}))
	assert.True(t, f.ShouldHandle(output.Event{Type: output.EventProgress}))
}

func TestHumanFormatter_InfoGoesToStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	f := NewHumanFormatter(&stdout, &stderr, false)

	f.Handle(output.Event{Type: output.EventInfo, Message: "Target created."})

	assert.Equal(t, "Target created.\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestHumanFormatter_ErrorGoesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	f := NewHumanFormatter(&stdout, &stderr, false)

	f.Handle(output.Event{Type: output.EventError, Message: "no id in create_target response"})

	assert.Empty(t, stdout.String())
	assert.Equal(t, "Error: no id in create_target response\n", stderr.String())
}

func TestHumanFormatter_WarningPrefix(t *testing.T) {
	var stdout bytes.Buffer
	f := NewHumanFormatter(&stdout, &bytes.Buffer{}, false)

	f.Handle(output.Event{Type: output.EventWarning, Message: "Generated report is empty"})

	assert.Equal(t, "Warning: Generated report is empty\n", stdout.String())
}

func TestHumanFormatter_ProgressWithPercentage(t *testing.T) {
	var stdout bytes.Buffer
	f := NewHumanFormatter(&stdout, &bytes.Buffer{}, false)

	f.Handle(output.Event{
		Type:    output.EventProgress,
		Message: "Task status: Running",
		Data:    map[string]any{"current": 55, "total": 100},
	})

	assert.Equal(t, "Task status: Running 55%\n", stdout.String())
}

func TestHumanFormatter_TerminalProgressOmitsPercentage(t *testing.T) {
	var stdout bytes.Buffer
	f := NewHumanFormatter(&stdout, &bytes.Buffer{}, false)

	f.Handle(output.Event{
		Type:    output.EventProgress,
		Message: "Task status: Complete",
		Data:    map[string]any{"current": 0, "total": 100},
	})

	assert.Equal(t, "Task status: Complete\n", stdout.String())
}

func TestHumanFormatter_TableRendersHeadersAndRows(t *testing.T) {
	var stdout bytes.Buffer
	f := NewHumanFormatter(&stdout, &bytes.Buffer{}, false)

	f.Handle(output.Event{
		Type: output.EventTable,
		Data: map[string]any{
			"headers": []string{"Field", "Value"},
			"rows": [][]string{
				{"Status", "completed"},
				{"Report", "openvas.report"},
			},
		},
	})

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Field")
	assert.Contains(t, lines[1], "completed")
	assert.Contains(t, lines[2], "openvas.report")
}

func TestJSONFormatter_EmitsOneObjectPerEvent(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)

	f.Handle(output.Event{
		Type:      output.EventInfo,
		Message:   "Task created.",
		Timestamp: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	})
	f.Handle(output.Event{
		Type:    output.EventProgress,
		Message: "Task status: Running",
		Data:    map[string]any{"current": 10, "total": 100},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "info", first["type"])
	assert.Equal(t, "Task created.", first["message"])
	assert.Equal(t, "2026-08-23T12:00:00Z", first["timestamp"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	data, ok := second["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), data["current"])
}

func TestJSONFormatter_OmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)

	f.Handle(output.Event{Type: output.EventInfo, Message: "done"})

	var obj map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.NotContains(t, obj, "data")
	assert.NotContains(t, obj, "metadata")
}

func TestJSONFormatter_SkipsDiagEvents(t *testing.T) {
	f := NewJSONFormatter(&bytes.Buffer{})
	assert.False(t, f.ShouldHandle(output.Event{Type: output.EventDiag}))
}

func TestJSONFormatter_RenderFailureIsSwallowed(t *testing.T) {
	f := NewJSONFormatter(failingWriter{})
	assert.NotPanics(t, func() {
		f.Handle(output.Event{Type: output.EventInfo, Message: "dropped"})
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
