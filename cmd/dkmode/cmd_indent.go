package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/dkmode/dedukti/indent"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newIndentCmd(opts *options) *cobra.Command {
	var overwrite bool
	var diff bool

	cmd := &cobra.Command{
		Use:   "indent [file]",
		Short: "Reindent a .dk file",
		Long: `Reindent every line of a Dedukti file and print the result.

If no file is provided, reads source from stdin.
Use -w to overwrite the file in place, or --diff to print a unified diff
of the changes instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && (len(args) == 0 || args[0] == "-") {
				return fmt.Errorf("-w requires a file argument")
			}
			b, err := readBuffer(args)
			if err != nil {
				return err
			}
			out := indent.New(opts.cfg.BasicIndent).Reindent(b)

			switch {
			case diff:
				text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(b.String()),
					B:        difflib.SplitLines(out.String()),
					FromFile: b.File(),
					ToFile:   b.File() + " (reindented)",
					Context:  3,
				})
				if err != nil {
					return fmt.Errorf("diff: %w", err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			case overwrite:
				if out.String() == b.String() {
					return nil
				}
				return os.WriteFile(args[0], out.Bytes(), 0644)
			}
			_, err = cmd.OutOrStdout().Write(out.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff instead of the reindented text")

	return cmd
}
