package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/tddkit/internal/display"
	"github.com/harrison/tddkit/internal/history"
)

type runtimeHistoryOptions struct {
	projectRoot string
	testName    string
	limit       int
}

// NewRuntimeHistoryCommand creates the runtime-history subcommand
func NewRuntimeHistoryCommand() *cobra.Command {
	opts := &runtimeHistoryOptions{}

	cmd := &cobra.Command{
		Use:   "runtime-history",
		Short: "List slow-test detections recorded with detect-slow-tests --record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runtimeHistoryWithOutput(cmd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.projectRoot, "project-root", ".", "Project root directory")
	cmd.Flags().StringVar(&opts.testName, "test", "", "Only show runs of this test")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of rows (0 for all)")

	return cmd
}

// runtimeHistoryWithOutput lists recorded runs with custom writers (for testing)
func runtimeHistoryWithOutput(cmd *cobra.Command, opts *runtimeHistoryOptions, out, errOut io.Writer) error {
	cfg, source, err := loadConfig(opts.projectRoot)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg, errOut)
	log.LogConfig(source, cfg)

	p := display.NewPrinter(out)
	dbPath := cfg.HistoryPath(opts.projectRoot)
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		log.LogDebug("no history database at " + dbPath)
		p.HistoryTable(nil)
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := store.ListRuns(ctx, history.Query{TestName: opts.testName, Limit: opts.limit})
	if err != nil {
		return err
	}

	p.HistoryTable(runs)
	return nil
}
