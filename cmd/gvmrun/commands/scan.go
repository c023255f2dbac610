package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gvmrun/gvmrun/pkg/config"
	"github.com/gvmrun/gvmrun/pkg/daemon"
	"github.com/gvmrun/gvmrun/pkg/gmp"
	"github.com/gvmrun/gvmrun/pkg/gvm"
	"github.com/gvmrun/gvmrun/pkg/output"
	"github.com/gvmrun/gvmrun/pkg/output/subscribers"
	"github.com/gvmrun/gvmrun/pkg/scanrun"
	"github.com/gvmrun/gvmrun/pkg/storage"
)

type scanFlags struct {
	outputFile   string
	format       string
	profile      string
	ports        string
	tests        string
	exclude      string
	maxHosts     int
	maxChecks    int
	update       bool
	outputFormat string
}

// NewScanCommand defines the 'scan' command: the full automated lifecycle
// against one target.
func NewScanCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan <target>",
		Short: "Run a vulnerability scan against a target and save the report",
		Long: `Runs the full scan lifecycle: cleans the daemon's task/target namespace,
registers the target and a scan task, starts it, waits for completion, and
saves the generated report. The daemon is reached through gvm-cli over its
unix socket.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScanCommand(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outputFile, "output-file", "o", "openvas.report", "Report output path")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "XML",
		"Report format: "+strings.Join(gmp.ReportFormatNames(), ", "))
	cmd.Flags().StringVarP(&flags.profile, "profile", "p", "Full and fast",
		"Scan profile: "+strings.Join(gmp.ScanProfileNames(), ", "))
	cmd.Flags().StringVarP(&flags.ports, "ports", "P", "All TCP and Nmap top 100 UDP",
		"Port selection: "+strings.Join(gmp.PortListNames(), ", "))
	cmd.Flags().StringVarP(&flags.tests, "tests", "t", "ICMP, TCP-ACK Service & ARP Ping",
		"Alive test policy")
	cmd.Flags().StringVarP(&flags.exclude, "exclude", "e", "", "Hosts excluded from the scan target")
	cmd.Flags().IntVarP(&flags.maxHosts, "max-hosts", "m", 10, "Maximum number of simultaneously tested hosts")
	cmd.Flags().IntVarP(&flags.maxChecks, "max-checks", "c", 3, "Maximum number of simultaneous checks per host")
	cmd.Flags().BoolVar(&flags.update, "update", false, "Synchronize feeds before scanning")
	cmd.Flags().StringVar(&flags.outputFormat, "output", "text", "Run summary format: text, json, yaml")

	return cmd
}

func runScanCommand(cmd *cobra.Command, target string, flags *scanFlags) error {
	logger := log.With().Str("command", "scan").Logger()
	out := setupOutput(cmd, flags.outputFormat)

	params, err := resolveParams(target, flags)
	if err != nil {
		out.Error(err)
		return err
	}
	if flags.maxHosts <= 0 {
		err := fmt.Errorf("max-hosts must be positive, got %d", flags.maxHosts)
		out.Error(err)
		return err
	}
	if flags.maxChecks <= 0 {
		err := fmt.Errorf("max-checks must be positive, got %d", flags.maxChecks)
		out.Error(err)
		return err
	}

	mgr := config.ManagerFromContext(cmd.Context())
	if mgr == nil {
		return fmt.Errorf("configuration missing from context")
	}
	cfg := mgr.Get()

	ctrl := daemon.NewController(daemon.Config{
		ConfPath:      cfg.Daemon.ConfPath,
		StartCommand:  cfg.Daemon.StartCommand,
		UpdateCommand: cfg.Daemon.UpdateCommand,
		Managed:       cfg.Daemon.Manage,
	})
	if err := ctrl.ApplyPerformance(flags.maxHosts, flags.maxChecks); err != nil {
		out.Error(err)
		return err
	}
	if err := ctrl.Start(cmd.Context(), flags.update); err != nil {
		out.Error(err)
		return err
	}

	printSettings(out, target, flags)

	bridge := gmp.NewExecBridge(gmp.BridgeConfig{
		SocketPath: cfg.Daemon.Socket,
		Username:   cfg.Daemon.Username,
		Password:   cfg.Daemon.Password,
		SuUser:     cfg.Daemon.SuUser,
	})

	client := gvm.NewClient(bridge).
		WithPollInterval(parseDurationOr(cfg.Poll.Interval, gvm.DefaultPollInterval)).
		WithPollTimeout(parseDurationOr(cfg.Poll.Timeout, 0)).
		WithProgressFunc(func(status gvm.TaskStatus, progress int) {
			if progress > 0 {
				out.Progress(progress, 100, fmt.Sprintf("Task status: %s", status))
			} else {
				out.Progress(0, 100, "Task status: Complete")
			}
		})

	lock, err := storage.NewRunLock(cfg.Workspace.Dir)
	if err != nil {
		out.Error(err)
		return err
	}

	svc := scanrun.NewService(client).
		WithRunLock(lock).
		WithProgressSink(&stepLogger{out: out})

	res, runErr := svc.Run(cmd.Context(), params)
	if runErr != nil {
		logger.Error().Err(runErr).Str("code", scanrun.ErrorCode(runErr)).Msg("scan run failed")
		out.Error(runErr)
		return runErr
	}

	return renderSummary(out, flags.outputFormat, res)
}

// resolveParams validates the human-readable names against the catalog and
// resolves them to daemon identifiers.
func resolveParams(target string, flags *scanFlags) (scanrun.Params, error) {
	profileID, err := gmp.ScanProfileID(flags.profile)
	if err != nil {
		return scanrun.Params{}, err
	}
	formatID, err := gmp.ReportFormatID(flags.format)
	if err != nil {
		return scanrun.Params{}, err
	}
	portListID, err := gmp.PortListID(flags.ports)
	if err != nil {
		return scanrun.Params{}, err
	}
	if err := gmp.ValidateAliveTest(flags.tests); err != nil {
		return scanrun.Params{}, err
	}

	return scanrun.Params{
		Target:       target,
		ExcludeHosts: flags.exclude,
		ProfileID:    profileID,
		PortListID:   portListID,
		AliveTests:   flags.tests,
		FormatID:     formatID,
		OutputPath:   flags.outputFile,
	}, nil
}

func setupOutput(cmd *cobra.Command, outputFormat string) output.Output {
	stream := output.NewEventStream()
	if strings.EqualFold(outputFormat, "json") {
		stream.Subscribe(subscribers.NewJSONFormatter(os.Stdout))
	} else {
		colorEnabled := termSupportsColor()
		stream.Subscribe(subscribers.NewHumanFormatter(os.Stdout, os.Stderr, colorEnabled))
	}
	return output.NewDefaultOutput(stream)
}

func termSupportsColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func printSettings(out output.Output, target string, flags *scanFlags) {
	out.Info("Starting scan with settings:")
	out.Info("* Target: " + target)
	out.Info("* Excluded hosts: " + flags.exclude)
	out.Info("* Scan profile: " + flags.profile)
	out.Info("* Scan ports: " + flags.ports)
	out.Info("* Alive tests: " + flags.tests)
	out.Info("* Max hosts: " + strconv.Itoa(flags.maxHosts))
	out.Info("* Max checks: " + strconv.Itoa(flags.maxChecks))
	out.Info("* Report format: " + flags.format)
	out.Info("* Output file: " + flags.outputFile)
}

func renderSummary(out output.Output, format string, res *scanrun.Result) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal run summary: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("marshal run summary: %w", err)
		}
		fmt.Println(string(data))
	default:
		saved := "no"
		if res.ReportSaved {
			saved = res.ReportPath
		}
		out.Table(
			[]string{"Field", "Value"},
			[][]string{
				{"Run ID", res.RunID},
				{"Status", res.Status},
				{"Task", res.TaskID},
				{"Report", res.ReportID},
				{"Saved", saved},
				{"Duration", runDuration(res)},
			},
		)
		out.Info("Done!")
	}
	return nil
}

// parseDurationOr parses a config duration string, falling back to def on
// empty or invalid values.
func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn().Str("value", s).Msg("invalid duration in config, using default")
		return def
	}
	return d
}

func runDuration(res *scanrun.Result) string {
	start, errStart := time.Parse(time.RFC3339, res.StartTime)
	end, errEnd := time.Parse(time.RFC3339, res.EndTime)
	if errStart != nil || errEnd != nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0fs", end.Sub(start).Seconds())
}

// stepLogger forwards lifecycle step events to the user-facing output.
type stepLogger struct {
	out output.Output
}

func (s *stepLogger) OnEvent(ev scanrun.ProgressEvent) {
	switch ev.Status {
	case "completed":
		if ev.Message != "" {
			s.out.Info(upperFirst(ev.Message) + ".")
		}
	case "empty":
		s.out.Warning(upperFirst(ev.Message))
	case "start":
		if ev.Step == "poll" {
			s.out.Info("Waiting for task to finish...")
		}
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
