package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/tddkit/internal/display"
	"github.com/harrison/tddkit/internal/history"
	"github.com/harrison/tddkit/internal/models"
	"github.com/harrison/tddkit/internal/slowtest"
)

type detectSlowTestsOptions struct {
	projectRoot string
	input       string
	threshold   int
	framework   string
	record      bool
}

// NewDetectSlowTestsCommand creates the detect-slow-tests subcommand
func NewDetectSlowTestsCommand() *cobra.Command {
	opts := &detectSlowTestsOptions{}

	cmd := &cobra.Command{
		Use:   "detect-slow-tests",
		Short: "Find slow tests in test-runner output and log them",
		Long: `Read test-runner output from --input or stdin, report every test whose
runtime is strictly above the threshold, and write one note per slow test
to <artifacts>/test-runtime/.

Recognized output: vitest, jest, pytest (--durations), JUnit/Maven and
go test -v. With --framework auto (or an unknown framework) all
recognizers run.`,
		Example: `  npm run test 2>&1 | tddkit detect-slow-tests
  go test -v ./... | tddkit detect-slow-tests --framework go --record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var threshold *int
			if cmd.Flags().Changed("threshold") {
				threshold = &opts.threshold
			}
			var framework *string
			if cmd.Flags().Changed("framework") {
				framework = &opts.framework
			}
			return detectSlowTestsWithOutput(cmd, opts, threshold, framework, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.projectRoot, "project-root", ".", "Project root directory")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "File containing test output (default: stdin)")
	cmd.Flags().IntVar(&opts.threshold, "threshold", 0, "Slow test threshold in milliseconds (default: slow_test_threshold_ms from config)")
	cmd.Flags().StringVar(&opts.framework, "framework", "", fmt.Sprintf("Test framework (%s), or 'auto' for every recognizer (default: test_framework from config)",
		strings.Join(slowtest.DefaultRegistry().Tags(), ", ")))
	cmd.Flags().BoolVar(&opts.record, "record", false, "Also append detections to the runtime history database")

	return cmd
}

// detectSlowTestsWithOutput analyzes test output with custom streams (for testing).
// Nil threshold or framework fall back to the configuration.
func detectSlowTestsWithOutput(cmd *cobra.Command, opts *detectSlowTestsOptions, threshold *int, framework *string, in io.Reader, out, errOut io.Writer) error {
	cfg, source, err := loadConfig(opts.projectRoot)
	if err != nil {
		return err
	}
	cfg.MergeWithFlags(nil, threshold, framework, nil)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := newLogger(cmd, cfg, errOut)
	log.LogConfig(source, cfg)

	output, err := readTestOutput(opts.input, in)
	if err != nil {
		return err
	}

	registry := slowtest.DefaultRegistry()
	if fw := strings.TrimSpace(cfg.TestFramework); fw != "" && !strings.EqualFold(fw, slowtest.FrameworkAuto) {
		if _, ok := registry.Lookup(fw); !ok {
			log.LogDebug(fmt.Sprintf("unknown framework %q, running every recognizer (known: %s)",
				fw, strings.Join(registry.Tags(), ", ")))
		}
	}

	p := display.NewPrinter(out)
	entries, err := registry.Detect(output, cfg.SlowTestThresholdMS, cfg.TestFramework)
	if err != nil {
		return err
	}

	p.Line("🔍 Analyzing test output (threshold: %dms)", cfg.SlowTestThresholdMS)
	p.SlowTests(cfg.SlowTestThresholdMS, entries)
	if len(entries) == 0 {
		return nil
	}

	now := time.Now()
	p.Blank()
	paths, err := slowtest.WriteNotes(cfg.RuntimePath(opts.projectRoot), entries, now)
	for _, path := range paths {
		p.NoteWritten(path)
	}
	if err != nil {
		return err
	}

	if opts.record {
		if err := recordHistory(cmd.Context(), cfg.HistoryPath(opts.projectRoot), entries, cfg.TestFramework, cfg.SlowTestThresholdMS, now, p); err != nil {
			return err
		}
	}

	p.Blank()
	p.Tip("Review %s/ to investigate slow tests", cfg.RuntimeDirDisplay())
	return nil
}

func readTestOutput(inputPath string, stdin io.Reader) (string, error) {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("read test output: %w", err)
		}
		return string(data), nil
	}
	if stdin == nil {
		return "", slowtest.ErrNoTestOutput
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read test output from stdin: %w", err)
	}
	return string(data), nil
}

func recordHistory(ctx context.Context, dbPath string, entries []models.SlowTest, framework string, thresholdMS int, now time.Time, p *display.Printer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.RecordRun(ctx, entries, framework, thresholdMS, now)
	if err != nil {
		return err
	}
	p.Line("🗄️  Recorded run %s in %s", runID, store.Path())
	return nil
}
