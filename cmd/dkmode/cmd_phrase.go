package main

import (
	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/format"
	"github.com/spf13/cobra"
)

func newPhraseCmd(opts *options) *cobra.Command {
	pos := &positionFlag{offsetName: "offset", atName: "at"}

	cmd := &cobra.Command{
		Use:   "phrase [file]",
		Short: "Print the phrase enclosing a position, or every phrase of the file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBuffer(args)
			if err != nil {
				return err
			}
			if !pos.set() {
				return encode(opts, cmd, &format.Analysis{Buffer: b, Phrases: phrase.All(b)})
			}
			offset, err := pos.resolve(b)
			if err != nil {
				return err
			}
			p, err := phrase.At(b, offset)
			if err != nil {
				return err
			}
			return encode(opts, cmd, &format.Analysis{Buffer: b, Offset: offset, Phrase: &p})
		},
	}
	pos.register(cmd, "position inside the phrase")

	return cmd
}
