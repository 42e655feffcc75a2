package main

import (
	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/format"
	"github.com/spf13/cobra"
)

func newTokensCmd(opts *options) *cobra.Command {
	var backward bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Lex a file with the contextual lexer",
		Long: `Lex a file token by token, each identifier and colon classified by the
region it appears in. With --backward the file is lexed from the end.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBuffer(args)
			if err != nil {
				return err
			}
			var tokens []lexer.Token
			if backward {
				tokens = lexer.TokensBackward(b)
			} else {
				tokens = lexer.Tokens(b)
			}
			return encode(opts, cmd, &format.Analysis{Buffer: b, Tokens: tokens})
		},
	}

	cmd.Flags().BoolVar(&backward, "backward", false, "lex from the end of the file towards the start")

	return cmd
}
