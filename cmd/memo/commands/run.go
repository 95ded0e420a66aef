package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scripts...]",
		Short: "Evaluate one or more script files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eval, _ := cmd.Flags().GetString("eval")
			if len(args) == 0 && eval == "" {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			plotsDir, _ := cmd.Flags().GetString("plots")

			var failed bool
			evalOne := func(records []domain.EvaluationRecord, err error) error {
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), cmd.ErrOrStderr(), records)
				if plotsDir != "" {
					paths, err := c.app.RenderGraphics(records, plotsDir)
					if err != nil {
						return err
					}
					for _, p := range paths {
						fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", p)
					}
				}
				for _, rec := range records {
					if rec.Failed() {
						failed = true
					}
				}
				return nil
			}

			if eval != "" {
				if err := evalOne(c.app.Evaluate(cmd.Context(), eval)); err != nil {
					return err
				}
			}
			for _, path := range args {
				if err := evalOne(c.app.EvaluateFile(cmd.Context(), path)); err != nil {
					return err
				}
			}
			if failed {
				return domain.ErrEvaluationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringP("eval", "e", "", "Evaluate the given expressions instead of reading a file")
	cmd.Flags().String("plots", "", "Write recorded graphics artifacts into this directory")
	return cmd
}

// printRecords writes each record the way an interactive session would:
// captured stdout and auto-printed values on stdout, diagnostics on stderr.
func printRecords(stdout, stderr io.Writer, records []domain.EvaluationRecord) {
	for _, rec := range records {
		if rec.Stdout != "" {
			fmt.Fprint(stdout, rec.Stdout)
		}
		if rec.Printed != "" {
			fmt.Fprintln(stdout, rec.Printed)
		}
		for _, m := range rec.Messages {
			switch m.Severity {
			case domain.SeverityWarning:
				fmt.Fprintf(stderr, "Warning message:\n%s\n", m.Text)
			default:
				fmt.Fprintln(stderr, m.Text)
			}
		}
	}
}
