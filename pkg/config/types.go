package config

// Config is the full application configuration.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Daemon    DaemonConfig    `koanf:"daemon"`
	Poll      PollConfig      `koanf:"poll"`
	Workspace WorkspaceConfig `koanf:"workspace"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DaemonConfig describes how to reach and manage the scanner daemon.
type DaemonConfig struct {
	// Socket is the gvmd unix socket path used by the command bridge.
	Socket   string `koanf:"socket"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	// SuUser, when set, wraps bridge commands in `su - <user> -c` so they
	// run as the account owning the socket.
	SuUser string `koanf:"su_user"`
	// ConfPath is the scanner configuration file for performance tuning.
	ConfPath string `koanf:"conf_path"`
	// Manage enables daemon tuning and startup before a run. Off by
	// default; most deployments provision the daemon externally.
	Manage        bool   `koanf:"manage"`
	StartCommand  string `koanf:"start_command"`
	UpdateCommand string `koanf:"update_command"`
}

// PollConfig controls task status polling. Durations are Go duration
// strings; a zero timeout means wait forever.
type PollConfig struct {
	Interval string `koanf:"interval"`
	Timeout  string `koanf:"timeout"`
}

// WorkspaceConfig locates run-local state (the run lock).
type WorkspaceConfig struct {
	Dir string `koanf:"dir"`
}

// DefaultConfig returns the baseline configuration, matching a stock
// Greenbone 20.08 source install.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Daemon: DaemonConfig{
			Socket:        "/usr/local/var/run/gvmd.sock",
			Username:      "admin",
			Password:      "admin",
			SuUser:        "service",
			ConfPath:      "/usr/local/etc/openvas/openvas.conf",
			Manage:        false,
			StartCommand:  "start-scanner",
			UpdateCommand: "update-scanner",
		},
		Poll: PollConfig{
			Interval: "10s",
			Timeout:  "0s",
		},
		Workspace: WorkspaceConfig{
			Dir: "/tmp/gvmrun",
		},
	}
}

// DefaultConfigAsMap flattens DefaultConfig for koanf's confmap provider so
// every key exists before higher-priority sources merge over it.
func DefaultConfigAsMap() map[string]any {
	def := DefaultConfig()
	return map[string]any{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,

		"daemon.socket":         def.Daemon.Socket,
		"daemon.username":       def.Daemon.Username,
		"daemon.password":       def.Daemon.Password,
		"daemon.su_user":        def.Daemon.SuUser,
		"daemon.conf_path":      def.Daemon.ConfPath,
		"daemon.manage":         def.Daemon.Manage,
		"daemon.start_command":  def.Daemon.StartCommand,
		"daemon.update_command": def.Daemon.UpdateCommand,

		"poll.interval": def.Poll.Interval,
		"poll.timeout":  def.Poll.Timeout,

		"workspace.dir": def.Workspace.Dir,
	}
}
