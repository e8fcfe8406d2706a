package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/harness"
)

// NewScenarioCommand runs a YAML editing scenario against a scratch
// in-memory collection.
func NewScenarioCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file>",
		Short: "Run an editing scenario and check its expectations",
		Long: `Run an editing scenario file. The scenario seeds an in-memory
collection, drives one editor session through its steps and checks the
expected outcome. The command exits 1 when an expectation fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := harness.LoadScenario(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load scenario", err)
			}

			ctx := cmd.Context()
			if opts.Verbose {
				ctx = pslog.ContextWithLogger(ctx, pslog.NewWithOptions(cmd.ErrOrStderr(), pslog.Options{
					Mode:     pslog.ModeConsole,
					MinLevel: pslog.DebugLevel,
				}))
			}
			res, err := harness.Run(ctx, s)
			if err != nil {
				return WrapExitError(ExitCommandError, "run scenario", err)
			}

			out := opts.formatter(cmd)
			if !res.Pass {
				if err := out.Error(CodeScenario, fmt.Sprintf("scenario %s failed", s.Name), res.Errors); err != nil {
					return err
				}
				return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", s.Name))
			}
			return out.Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "PASS %s (%d steps)\n", s.Name, len(res.Trace))
				for _, ev := range res.Trace {
					fmt.Fprintf(w, "  %2d %-20s %s\n", ev.Seq, ev.Action, ev.Outcome)
				}
			})
		},
	}
}
