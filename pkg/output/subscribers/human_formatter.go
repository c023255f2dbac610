package subscribers

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/gvmrun/gvmrun/pkg/output"
)

var (
	// Step messages (cleanup, target/task creation, report saved)
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")). // Red
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")). // Yellow
			Bold(true)

	// Task status lines during polling
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")) // Light gray

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")). // Blue
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				Padding(0, 1)

	tableLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// HumanFormatter renders scan lifecycle events for a terminal: step
// completion lines, task progress, and the final run summary table.
type HumanFormatter struct {
	stdout       io.Writer
	stderr       io.Writer
	colorEnabled bool
}

// NewHumanFormatter creates a HumanFormatter subscriber.
func NewHumanFormatter(stdout, stderr io.Writer, colorEnabled bool) *HumanFormatter {
	return &HumanFormatter{
		stdout:       stdout,
		stderr:       stderr,
		colorEnabled: colorEnabled,
	}
}

// Name returns the subscriber identifier.
func (s *HumanFormatter) Name() string {
	return "human-formatter"
}

// ShouldHandle reports interest in everything except diagnostic events,
// which go to the structured log instead.
func (s *HumanFormatter) ShouldHandle(event output.Event) bool {
	return event.Type != output.EventDiag
}

// Handle renders one event.
func (s *HumanFormatter) Handle(event output.Event) {
	switch event.Type {
	case output.EventInfo:
		s.printInfo(event.Message)

	case output.EventError:
		s.printError(event.Message)

	case output.EventWarning:
		s.printWarning(event.Message)

	case output.EventTable:
		if data, ok := event.Data.(map[string]any); ok {
			headers, _ := data["headers"].([]string)
			rows, _ := data["rows"].([][]string)
			s.printTable(headers, rows)
		}

	case output.EventProgress:
		if data, ok := event.Data.(map[string]any); ok {
			current, _ := data["current"].(int)
			total, _ := data["total"].(int)
			s.printProgress(current, total, event.Message)
		}
	}
}

func (s *HumanFormatter) printInfo(message string) {
	if !s.colorEnabled {
		_, _ = fmt.Fprintln(s.stdout, message)
		return
	}
	_, _ = fmt.Fprintln(s.stdout, stepStyle.Render(message))
}

func (s *HumanFormatter) printError(message string) {
	if !s.colorEnabled {
		_, _ = fmt.Fprintf(s.stderr, "Error: %s\n", message)
		return
	}
	_, _ = fmt.Fprintln(s.stderr, errorStyle.Render("Error: "+message))
}

func (s *HumanFormatter) printWarning(message string) {
	if !s.colorEnabled {
		_, _ = fmt.Fprintf(s.stdout, "Warning: %s\n", message)
		return
	}
	_, _ = fmt.Fprintln(s.stdout, warningStyle.Render("Warning: "+message))
}

func (s *HumanFormatter) printTable(headers []string, rows [][]string) {
	if !s.colorEnabled {
		w := tabwriter.NewWriter(s.stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
		for _, row := range rows {
			_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		_ = w.Flush()
		return
	}

	w := tabwriter.NewWriter(s.stdout, 0, 0, 3, ' ', 0)

	headerLine := make([]string, len(headers))
	for i, h := range headers {
		headerLine[i] = tableHeaderStyle.Render(strings.ToUpper(h))
	}
	_, _ = fmt.Fprintln(w, strings.Join(headerLine, "\t"))

	for _, row := range rows {
		styledRow := make([]string, len(row))
		for i, cell := range row {
			if i == 0 {
				styledRow[i] = tableLabelStyle.Render(cell)
			} else {
				styledRow[i] = cell
			}
		}
		_, _ = fmt.Fprintln(w, strings.Join(styledRow, "\t"))
	}

	_ = w.Flush()
}

// printProgress renders a task status line. The daemon reports zero progress
// in terminal states, so those render without a percentage.
func (s *HumanFormatter) printProgress(current, total int, message string) {
	line := message
	if current > 0 && total > 0 {
		line = fmt.Sprintf("%s %d%%", message, current*100/total)
	}
	if s.colorEnabled {
		line = progressStyle.Render(line)
	}
	_, _ = fmt.Fprintln(s.stdout, line)
}
