package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/tddkit/internal/behavior"
	"github.com/harrison/tddkit/internal/display"
)

type createBehaviorOptions struct {
	projectRoot string
	slug        string
	testFile    string
	testName    string
}

// NewCreateBehaviorCommand creates the create-behavior subcommand
func NewCreateBehaviorCommand() *cobra.Command {
	opts := &createBehaviorOptions{}

	cmd := &cobra.Command{
		Use:   "create-behavior <description>",
		Short: "Create a behavior record and add it to the backlog",
		Long: `Create behaviors/<id>.md and insert a row at the top of the
Behaviors table in BEHAVIOR_BACKLOG.md.

The identifier comes from behavior_id_format in tdd.config.json
(default B-{timestamp}-{slug}). A missing backlog or table only produces
a warning; the record file is always written.`,
		Example: `  tddkit create-behavior "User can reset the timer" --test-file src/timer.test.ts`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return createBehaviorWithOutput(cmd, opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.projectRoot, "project-root", ".", "Project root directory")
	cmd.Flags().StringVar(&opts.slug, "slug", "", "Slug for the identifier (derived from the description when empty)")
	cmd.Flags().StringVar(&opts.testFile, "test-file", "", "Test file that will hold the test")
	cmd.Flags().StringVar(&opts.testName, "test-name", "", "Name of the test")

	return cmd
}

// createBehaviorWithOutput creates one behavior with custom writers (for testing)
func createBehaviorWithOutput(cmd *cobra.Command, opts *createBehaviorOptions, description string, out, errOut io.Writer) error {
	if strings.TrimSpace(description) == "" {
		return behavior.ErrEmptyDescription
	}

	cfg, source, err := loadConfig(opts.projectRoot)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg, errOut)
	log.LogConfig(source, cfg)

	res, err := behavior.NewCreator(opts.projectRoot, cfg).Create(behavior.Options{
		Description: description,
		Slug:        opts.slug,
		TestFile:    opts.testFile,
		TestName:    opts.testName,
	})
	if err != nil {
		return err
	}

	b := res.Behavior
	p := display.NewPrinter(out)
	p.Start("Creating behavior: "+b.ID, "Description: "+b.Description)
	p.Blank()
	p.Created("behavior file", res.RecordPath)

	if res.BacklogUpdated {
		p.Success("Updated backlog: %s", res.BacklogPath)
	} else {
		log.LogBacklogSkipped(res.BacklogWarning)
		display.Warning{
			Title:      "Backlog not updated",
			Message:    res.BacklogWarning,
			Files:      []string{res.BacklogPath},
			Suggestion: "Run 'tddkit init' or add the row by hand",
		}.Display(p)
	}

	testFile := opts.testFile
	if testFile == "" {
		testFile = "<test file>"
	}
	p.Blank()
	p.Steps("Next steps:",
		"Write the test in "+testFile,
		"Implement the minimal code to pass the test",
		"Update "+filepath.ToSlash(res.RecordPath)+" with test details",
		fmt.Sprintf("Commit: git commit -m '%s: %s'", b.ID, b.Description),
	)
	return nil
}
