package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/dkmode/checker"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	var compile bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Type-check a file with the external checker and list its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := checker.NewRunner(opts.cfg)
			run := runner.Check
			if compile {
				run = runner.Compile
			}

			res, err := run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res.Diagnostics) == 0 && res.Output != "" {
				fmt.Fprint(out, res.Output)
			}
			for _, d := range res.Diagnostics {
				fmt.Fprintln(out, d)
			}
			if !res.OK() {
				os.Exit(exitCode(res))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compile, "compile", false, "also write the object file (uses --compile-flags)")

	return cmd
}

// exitCode passes the checker's status through, using 1 when it reported
// errors but exited successfully.
func exitCode(res checker.Result) int {
	if res.ExitCode == 0 {
		return 1
	}
	return res.ExitCode
}
