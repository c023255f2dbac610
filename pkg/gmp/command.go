package gmp

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Command builders for the GMP command set this tool consumes. Commands are
// plain XML strings; the daemon rejects anything it does not understand, so
// no client-side validation happens here beyond escaping.

// reportFilter is the fixed result filter applied to every report request:
// overrides applied, notes included, all severity levels, full detail, no
// pagination.
const reportFilter = "apply_overrides=1 overrides=1 notes=1 levels=hmlg"

// TargetSpec describes a target registration: which hosts to scan, which to
// skip, which ports to probe, and how to decide a host is alive.
type TargetSpec struct {
	Name         string
	Hosts        string
	ExcludeHosts string
	PortListID   string
	AliveTests   string
}

// GetTasks lists every task known to the daemon.
func GetTasks() string { return "<get_tasks/>" }

// GetTask fetches a single task, including its status, progress, and the
// report reference once one exists.
func GetTask(taskID string) string {
	return fmt.Sprintf("<get_tasks task_id=%q/>", taskID)
}

// DeleteTask removes a task permanently, bypassing the trashcan.
func DeleteTask(taskID string) string {
	return fmt.Sprintf("<delete_task task_id=%q ultimate=\"true\"/>", taskID)
}

// GetTargets lists every target known to the daemon.
func GetTargets() string { return "<get_targets/>" }

// DeleteTarget removes a target permanently, bypassing the trashcan.
func DeleteTarget(targetID string) string {
	return fmt.Sprintf("<delete_target target_id=%q ultimate=\"true\"/>", targetID)
}

// CreateTarget registers a new scan target.
func CreateTarget(spec TargetSpec) string {
	var b strings.Builder
	b.WriteString("<create_target>")
	b.WriteString("<name>" + escape(spec.Name) + "</name>")
	b.WriteString("<hosts>" + escape(spec.Hosts) + "</hosts>")
	b.WriteString(fmt.Sprintf("<port_list id=%q></port_list>", spec.PortListID))
	b.WriteString("<exclude_hosts>" + escape(spec.ExcludeHosts) + "</exclude_hosts>")
	b.WriteString("<live_tests>" + escape(spec.AliveTests) + "</live_tests>")
	b.WriteString("</create_target>")
	return b.String()
}

// CreateTask registers a scan task binding one target to one scan profile.
func CreateTask(name, profileID, targetID string) string {
	var b strings.Builder
	b.WriteString("<create_task>")
	b.WriteString("<name>" + escape(name) + "</name>")
	b.WriteString(fmt.Sprintf("<target id=%q></target>", targetID))
	b.WriteString(fmt.Sprintf("<config id=%q></config>", profileID))
	b.WriteString("</create_task>")
	return b.String()
}

// StartTask starts a previously created task.
func StartTask(taskID string) string {
	return fmt.Sprintf("<start_task task_id=%q/>", taskID)
}

// GetReports requests the report for a finished task in the given format,
// with the fixed filter and full detail flags.
func GetReports(reportID, formatID string) string {
	return fmt.Sprintf(
		"<get_reports report_id=%q format_id=%q filter=%q details=\"1\" notes_details=\"1\" result_tags=\"1\" ignore_pagination=\"1\"/>",
		reportID, formatID, reportFilter,
	)
}

// escape makes a value safe for embedding as XML character data. Alive-test
// names carry a literal '&'.
func escape(s string) string {
	var b strings.Builder
	// EscapeText only fails on writer errors; strings.Builder never errors.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
