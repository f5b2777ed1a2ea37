package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/tddkit/internal/config"
	"github.com/harrison/tddkit/internal/logger"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for tddkit
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tddkit",
		Short: "Scaffolding for a behavior-driven TDD workflow",
		Long: `tddkit maintains the artifacts of a strict red/green/refactor workflow:
a behavior backlog table, one record file per behavior, and notes for
slow tests found in test-runner output.

Artifacts live in <project>/agent/ by default and are configured by
tdd.config.json.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error once
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error); overrides log_level in config")

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewCreateBehaviorCommand())
	cmd.AddCommand(NewDetectSlowTestsCommand())
	cmd.AddCommand(NewValidateBacklogCommand())
	cmd.AddCommand(NewRuntimeHistoryCommand())

	return cmd
}

// loadConfig resolves and validates the configuration for root
func loadConfig(root string) (*config.Config, string, error) {
	cfg, source, err := config.Discover(root)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration in %s: %w", source, err)
	}
	return cfg, source, nil
}

// newLogger builds the diagnostic logger for a command. The --log-level flag
// wins over log_level from the config.
func newLogger(cmd *cobra.Command, cfg *config.Config, errOut io.Writer) logger.Logger {
	level := cfg.LogLevel
	if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
		level = flag.Value.String()
	}
	return logger.NewConsoleLogger(errOut, level)
}
