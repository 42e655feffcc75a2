package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/region"
	"github.com/dhamidi/dkmode/dedukti/source"
	"github.com/dhamidi/dkmode/format"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const stepHelp = `f [n]   step forward over n tokens
b [n]   step backward over n tokens
g N     go to offset N, or LINE:COL
t       token at the cursor
r       region at the cursor
p       enclosing phrase
c       region, token, phrase and variables in scope
q       quit`

var stepCommands = []string{"f", "b", "g", "t", "r", "p", "c", "q", "help"}

func newStepCmd(opts *options) *cobra.Command {
	pos := &positionFlag{offsetName: "offset", atName: "at"}

	cmd := &cobra.Command{
		Use:   "step <file>",
		Short: "Walk through a file token by token, interactively",
		Long: `Move a cursor through a file with the contextual lexer and inspect what
the analyses report at each position. Type "help" for the commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBuffer(args)
			if err != nil {
				return err
			}
			offset := 0
			if pos.set() {
				if offset, err = pos.resolve(b); err != nil {
					return err
				}
			}
			s := &stepper{opts: opts, b: b, offset: offset, out: cmd.OutOrStdout()}
			return s.run()
		},
	}
	pos.register(cmd, "starting position")

	return cmd
}

type stepper struct {
	opts   *options
	b      *source.Buffer
	offset int
	out    io.Writer
}

func (s *stepper) run() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		var matches []string
		for _, c := range stepCommands {
			if strings.HasPrefix(c, line) {
				matches = append(matches, c)
			}
		}
		return matches
	})

	s.show()
	for {
		line, err := ln.Prompt(s.prompt())
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *stepper) prompt() string {
	p := s.b.Position(s.offset)
	return fmt.Sprintf("%d:%d> ", p.Line, p.Column)
}

func (s *stepper) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "q", "quit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.out, stepHelp)
	case "f", "b":
		n := 1
		if arg != "" {
			if n, err = strconv.Atoi(arg); err != nil {
				return false, fmt.Errorf("count: %w", err)
			}
		}
		dir := lexer.DirForward
		if fields[0] == "b" {
			dir = lexer.DirBackward
		}
		for i := 0; i < n; i++ {
			s.offset = lexer.Step(s.b, s.offset, dir)
		}
		s.show()
	case "g":
		if arg == "" {
			return false, errors.New("g needs an offset or LINE:COL")
		}
		var offset int
		if strings.Contains(arg, ":") {
			offset, err = parseLineCol(s.b, arg)
		} else {
			offset, err = strconv.Atoi(arg)
		}
		if err != nil {
			return false, err
		}
		s.offset = s.b.Clamp(offset)
		s.show()
	case "t":
		tok, ok := lexer.At(s.b, s.offset)
		if !ok {
			return false, errors.New("no token at the cursor")
		}
		return false, s.encode(&format.Analysis{Buffer: s.b, Tokens: []lexer.Token{tok}})
	case "r":
		r := region.Classify(s.b, s.offset)
		return false, s.encode(&format.Analysis{Buffer: s.b, Offset: s.offset, Region: &r})
	case "p":
		p, err := phrase.At(s.b, s.offset)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "%s\n%s\n", p.Kind, s.b.Text(p.Span))
	case "c":
		return false, s.encode(format.Analyze(s.b, s.offset))
	default:
		return false, fmt.Errorf("unknown command %q; type help", fields[0])
	}
	return false, nil
}

func (s *stepper) encode(a *format.Analysis) error {
	enc, err := format.New(s.opts.format, s.out)
	if err != nil {
		return err
	}
	return enc.Encode(a)
}

// show prints the cursor's line with a caret under the cursor.
func (s *stepper) show() {
	start := s.b.LineStart(s.offset)
	end := s.b.LineEnd(s.offset)
	fmt.Fprintln(s.out, s.b.Slice(start, end))
	fmt.Fprintln(s.out, strings.Repeat(" ", s.offset-start)+"^")
}
