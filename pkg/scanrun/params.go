package scanrun

// Params defines the input required to run one scan lifecycle. Identifiers
// are daemon UUIDs, already resolved from human-readable names.
type Params struct {
	// Target is the host spec to scan; ExcludeHosts are carved out of it.
	Target       string
	ExcludeHosts string

	ProfileID  string
	PortListID string
	// AliveTests is the alive-test policy, passed to the daemon by name.
	AliveTests string

	FormatID   string
	OutputPath string
}

// Result describes one completed (or aborted) scan lifecycle.
type Result struct {
	RunID      string
	TargetID   string
	TaskID     string
	ReportID   string
	ReportPath string
	// ReportSaved is false when the daemon produced no usable report;
	// the run still counts as completed.
	ReportSaved bool
	Status      string
	StartTime   string
	EndTime     string
}
