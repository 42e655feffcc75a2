package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/dkmode/checker"
	"github.com/spf13/cobra"
)

func newEvalCmd(opts *options) *cobra.Command {
	var sel *selection
	var showUnit bool

	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate the selected term with the external checker",
		Long: `Build the standalone program for the selected term, run the checker on it
and print the result. The directive (--directive) chooses the reduction:
hnf, wnf, snf or a custom template.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBuffer(args)
			if err != nil {
				return err
			}
			unit, err := buildUnit(opts, b, sel)
			if err != nil {
				return err
			}
			if showUnit {
				fmt.Fprintln(cmd.ErrOrStderr(), unit)
			}

			includeDir := "."
			if len(args) > 0 && args[0] != "-" {
				includeDir = filepath.Dir(args[0])
			}
			if includeDir, err = filepath.Abs(includeDir); err != nil {
				return err
			}
			res, err := checker.NewRunner(opts.cfg).Evaluate(cmd.Context(), unit, includeDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(res.Output))
			if !res.OK() {
				os.Exit(exitCode(res))
			}
			return nil
		},
	}
	sel = newSelection(cmd)
	cmd.Flags().BoolVar(&showUnit, "show-unit", false, "print the generated program to stderr")

	return cmd
}
