package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"

	"github.com/dhamidi/dkmode/dedukti/grammar"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the EBNF grammar of the Dedukti surface syntax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), grammar.Source)
			return err
		},
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarTerminalsCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Parse and verify an EBNF grammar file (default: the built-in grammar)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if _, err := grammar.Load(); err != nil {
					printErrors(err)
					return err
				}
				return nil
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			if _, err := grammar.ParseStart(args[0], f, startProduction); err != nil {
				printErrors(err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification")

	return cmd
}

func newGrammarTerminalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminals",
		Short: "List the grammar terminals and the token kinds they stand for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			terms := grammar.Terminals(g)
			names := make([]string, 0, len(terms))
			for name := range terms {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, terms[name])
			}
			return nil
		},
	}
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(err error) {
	for reflect.ValueOf(err).Kind() != reflect.Slice {
		inner := errors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(os.Stderr, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
