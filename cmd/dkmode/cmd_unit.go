package main

import (
	"fmt"

	"github.com/dhamidi/dkmode/dedukti/eval"
	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/source"
	"github.com/spf13/cobra"
)

// selection is the term to evaluate: from start to end, or the token at
// start when no end is given.
type selection struct {
	start positionFlag
	end   positionFlag
}

func newSelection(cmd *cobra.Command) *selection {
	s := &selection{
		start: positionFlag{offsetName: "offset", atName: "at"},
		end:   positionFlag{offsetName: "end", atName: "to"},
	}
	s.start.register(cmd, "start of the term")
	s.end.register(cmd, "end of the term")
	return s
}

func (s *selection) resolve(b *source.Buffer) (source.Span, error) {
	start, err := s.start.resolve(b)
	if err != nil {
		return source.Span{}, err
	}
	if !s.end.set() {
		tok, ok := lexer.At(b, start)
		if !ok || !tok.Kind.IsIdent() {
			return source.Span{}, fmt.Errorf("no identifier at offset %d; give the end of the term", start)
		}
		return tok.Span, nil
	}
	end, err := s.end.resolve(b)
	if err != nil {
		return source.Span{}, err
	}
	return source.Span{Start: start, End: end}, nil
}

// buildUnit returns the evaluation unit for the selected term and the
// directive configured in opts.
func buildUnit(opts *options, b *source.Buffer, sel *selection) (string, error) {
	span, err := sel.resolve(b)
	if err != nil {
		return "", err
	}
	d, err := opts.cfg.ReductionDirective()
	if err != nil {
		return "", err
	}
	p, err := phrase.At(b, span.Start)
	if err != nil {
		return "", err
	}
	return eval.BuildUnit(b, p, span, d)
}

func newUnitCmd(opts *options) *cobra.Command {
	var sel *selection

	cmd := &cobra.Command{
		Use:   "unit [file]",
		Short: "Print the standalone program that evaluates the selected term",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBuffer(args)
			if err != nil {
				return err
			}
			unit, err := buildUnit(opts, b, sel)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), unit)
			return err
		},
	}
	sel = newSelection(cmd)

	return cmd
}
