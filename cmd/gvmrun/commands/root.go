package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gvmrun/gvmrun/pkg/config"
)

const cliExecutable = "gvmrun"

// NewCommand constructs the top-level gvmrun CLI command, wiring global
// flags, configuration loading, and log level selection.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		configManager  *config.Manager
		verbosityCount int
		debug          bool
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "gvmrun automates vulnerability scans against a GVM daemon",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

			configManager = config.NewManager()
			if err := configManager.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			// Global log level from verbosity flags: 0 => Error,
			// 1 => Info, 2+ => Debug. --debug forces Debug and also
			// turns on bridge command/response logging.
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				switch {
				case verbosityCount <= 0:
					zerolog.SetGlobalLevel(zerolog.ErrorLevel)
				case verbosityCount == 1:
					zerolog.SetGlobalLevel(zerolog.InfoLevel)
				default:
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
			}

			cmd.SetContext(config.WithManager(cmd.Context(), configManager))
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "C", "", "Configuration file path")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging, including bridge commands and responses")

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
