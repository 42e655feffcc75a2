package main

import (
	"github.com/dhamidi/dkmode/dedukti/region"
	"github.com/dhamidi/dkmode/format"
	"github.com/spf13/cobra"
)

func newClassifyCmd(opts *options) *cobra.Command {
	pos := &positionFlag{offsetName: "offset", atName: "at"}

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Print the region (Prelude, Context, Opaque, Top or Other) at a position",
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
			r := region.Classify(b, offset)
			return encode(opts, cmd, &format.Analysis{Buffer: b, Offset: offset, Region: &r})
		},
	}
	pos.register(cmd, "position to classify")

	return cmd
}
