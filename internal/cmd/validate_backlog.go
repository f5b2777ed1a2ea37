package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/tddkit/internal/display"
	"github.com/harrison/tddkit/internal/validator"
)

type validateBacklogOptions struct {
	projectRoot string
	strict      bool
}

// NewValidateBacklogCommand creates the validate-backlog subcommand
func NewValidateBacklogCommand() *cobra.Command {
	opts := &validateBacklogOptions{}

	cmd := &cobra.Command{
		Use:   "validate-backlog",
		Short: "Check the backlog table against the behavior records",
		Long: `Check that every behavior record has the required sections and a
standard status, that the backlog table is well formed, and that backlog
rows and record files refer to the same identifiers.

Exit code: 0 if clean or warnings only, 1 on errors
(or on warnings with --strict)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateBacklogWithOutput(cmd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.projectRoot, "project-root", ".", "Project root directory")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Treat warnings as errors")

	return cmd
}

// validateBacklogWithOutput validates the artifacts with custom writers (for testing)
func validateBacklogWithOutput(cmd *cobra.Command, opts *validateBacklogOptions, out, errOut io.Writer) error {
	cfg, source, err := loadConfig(opts.projectRoot)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg, errOut)
	log.LogConfig(source, cfg)

	report, err := validator.New().Run(opts.projectRoot, cfg)
	if err != nil {
		return err
	}

	p := display.NewPrinter(out)
	p.Line("🔍 Validating TDD artifacts at: %s", report.ArtifactsDir)
	p.Blank()
	p.Findings(report, opts.strict)

	if report.Outcome(opts.strict) == validator.OutcomeFailed {
		return validator.ErrValidationFailed
	}
	return nil
}
