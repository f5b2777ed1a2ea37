package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/tddkit/internal/config"
	"github.com/harrison/tddkit/internal/display"
	"github.com/harrison/tddkit/internal/workspace"
)

type initOptions struct {
	path         string
	artifactsDir string
	framework    string
	testCommand  string
	threshold    int
}

// NewInitCommand creates the init subcommand
func NewInitCommand() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the TDD artifacts directory for a project",
		Long: `Create <path>/<artifacts-dir> with behaviors/ and test-runtime/
subdirectories, tdd.config.json, BEHAVIOR_BACKLOG.md, LESSONS.md and
TEST_RUNTIME.md.

Existing files are overwritten; existing behavior records are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var testCommand *string
			if cmd.Flags().Changed("test-command") {
				testCommand = &opts.testCommand
			}
			return runInitWithOutput(cmd, opts, testCommand, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().StringVar(&opts.path, "path", ".", "Project root directory")
	cmd.Flags().StringVar(&opts.artifactsDir, "artifacts-dir", defaults.ArtifactsDir, "Artifacts directory, relative to the project root")
	cmd.Flags().StringVar(&opts.framework, "framework", defaults.TestFramework, "Test framework (vitest, jest, pytest, junit, go, rspec)")
	cmd.Flags().StringVar(&opts.testCommand, "test-command", "", "Test command (defaults to the framework's conventional command)")
	cmd.Flags().IntVar(&opts.threshold, "threshold", defaults.SlowTestThresholdMS, "Slow test threshold in milliseconds")

	return cmd
}

// runInitWithOutput initializes the workspace with custom writers (for testing)
func runInitWithOutput(cmd *cobra.Command, opts *initOptions, testCommand *string, out, errOut io.Writer) error {
	cfg := config.DefaultConfig()
	cfg.TestCommand = config.DefaultTestCommand(opts.framework)
	cfg.MergeWithFlags(&opts.artifactsDir, &opts.threshold, &opts.framework, testCommand)

	log := newLogger(cmd, cfg, errOut)
	p := display.NewPrinter(out)

	root, err := filepath.Abs(opts.path)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	p.Start("Initializing TDD workflow at: "+root,
		"Artifacts directory: "+cfg.ArtifactsDir,
		"Test framework: "+cfg.TestFramework,
		"Test command: "+cfg.TestCommand,
	)
	p.Blank()

	res, err := workspace.Init(root, cfg)
	if err != nil {
		return err
	}

	for _, dir := range res.Dirs {
		log.LogDebug("ensured directory " + dir)
	}
	for _, file := range res.Files {
		p.Created(describeArtifact(file), file)
	}

	if !res.ConfigDiscoverable {
		p.Blank()
		display.Warning{
			Title:      "Config will not be auto-discovered",
			Message:    "Commands look for " + config.FileName + " in agent/ and the project root only.",
			Files:      []string{filepath.Join(res.ArtifactsPath, config.FileName)},
			Suggestion: "Copy it to " + filepath.Join(root, config.FileName) + " so other commands use artifacts_dir " + cfg.ArtifactsDir,
		}.Display(p)
	}

	p.Blank()
	p.Success("TDD workflow initialized successfully!")
	p.Blank()
	p.Steps("Next steps:",
		"Review "+filepath.ToSlash(filepath.Join(cfg.ArtifactsDir, config.FileName)),
		"Start adding behaviors to "+filepath.ToSlash(filepath.Join(cfg.ArtifactsDir, config.BacklogFileName)),
		"Run tests with: "+cfg.TestCommand,
	)
	return nil
}

func describeArtifact(path string) string {
	switch filepath.Base(path) {
	case config.FileName:
		return "config"
	case config.BacklogFileName:
		return "backlog"
	case config.LessonsFileName:
		return "lessons"
	case config.TestRuntimeFileName:
		return "test runtime log"
	default:
		return "file"
	}
}
