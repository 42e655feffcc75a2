package main

import (
	"github.com/dhamidi/dkmode/format"
	"github.com/spf13/cobra"
)

func newContextCmd(opts *options) *cobra.Command {
	pos := &positionFlag{offsetName: "offset", atName: "at"}

	cmd := &cobra.Command{
		Use:   "context [file]",
		Short: "Print the region, token, phrase and variables in scope at a position",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBuffer(args)
			if err != nil {
				return err
			}
			offset, err := pos.resolve(b)
			if err != nil {
				return err
			}
			a := format.Analyze(b, offset)
			if err := encode(opts, cmd, a); err != nil {
				return err
			}
			return a.Err
		},
	}
	pos.register(cmd, "position to analyse")

	return cmd
}
