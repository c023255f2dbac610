// Package daemon prepares the scanner daemon for a run: performance tuning of
// the scanner configuration file and daemon startup, with an optional feed
// synchronization. The daemon itself is an external collaborator; this
// package only drives its installation scripts.
package daemon

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Controller tunes and starts the scanner daemon.
type Controller struct {
	confPath  string
	startCmd  string
	updateCmd string
	managed   bool
	logger    zerolog.Logger
	run       func(ctx context.Context, name string, args ...string) error
}

// Config holds the daemon management settings.
type Config struct {
	// ConfPath is the scanner configuration file holding max_hosts and
	// max_checks.
	ConfPath string
	// StartCommand starts the daemon; UpdateCommand starts it after
	// synchronizing feeds.
	StartCommand  string
	UpdateCommand string
	// Managed disables the whole package when false, for environments
	// where the daemon is provisioned externally.
	Managed bool
}

// NewController builds a Controller from config.
func NewController(cfg Config) *Controller {
	return &Controller{
		confPath:  cfg.ConfPath,
		startCmd:  cfg.StartCommand,
		updateCmd: cfg.UpdateCommand,
		managed:   cfg.Managed,
		logger:    log.With().Str("component", "daemon").Logger(),
		run: func(ctx context.Context, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Stdout = nil
			return cmd.Run()
		},
	}
}

// WithRunFunc overrides external command execution, for tests.
func (c *Controller) WithRunFunc(run func(ctx context.Context, name string, args ...string) error) *Controller {
	c.run = run
	return c
}

// ApplyPerformance rewrites the max_hosts and max_checks settings of the
// scanner configuration file in place, leaving every other line untouched.
func (c *Controller) ApplyPerformance(maxHosts, maxChecks int) error {
	if !c.managed {
		c.logger.Debug().Msg("daemon not managed, skipping performance tuning")
		return nil
	}

	info, err := os.Stat(c.confPath)
	if err != nil {
		return fmt.Errorf("scanner config %s: %w", c.confPath, err)
	}
	data, err := os.ReadFile(c.confPath)
	if err != nil {
		return fmt.Errorf("read scanner config: %w", err)
	}

	var out strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "max_hosts"):
			line = fmt.Sprintf("max_hosts = %d", maxHosts)
		case strings.HasPrefix(trimmed, "max_checks"):
			line = fmt.Sprintf("max_checks = %d", maxChecks)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read scanner config: %w", err)
	}

	if err := os.WriteFile(c.confPath, []byte(out.String()), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write scanner config: %w", err)
	}
	c.logger.Info().
		Int("max_hosts", maxHosts).
		Int("max_checks", maxChecks).
		Msg("applied scanner performance settings")
	return nil
}

// Start launches the daemon, synchronizing feeds first when update is set.
func (c *Controller) Start(ctx context.Context, update bool) error {
	if !c.managed {
		c.logger.Debug().Msg("daemon not managed, skipping startup")
		return nil
	}

	command := c.startCmd
	if update {
		command = c.updateCmd
	}
	c.logger.Info().Str("command", command).Bool("update", update).Msg("starting scanner daemon")
	if err := c.run(ctx, command); err != nil {
		return fmt.Errorf("start scanner daemon (%s): %w", command, err)
	}
	return nil
}
