package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dhamidi/dkmode/dedukti/source"
	"github.com/dhamidi/dkmode/format"
	"github.com/spf13/cobra"
)

// readBuffer loads the file named by args, or standard input when there is
// no argument or the argument is "-".
func readBuffer(args []string) (*source.Buffer, error) {
	if len(args) == 0 || args[0] == "-" {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return source.New(text, "<stdin>"), nil
	}
	text, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return source.New(text, args[0]), nil
}

// positionFlag is a byte offset given either directly or as LINE:COL.
type positionFlag struct {
	offsetName string
	atName     string
	offset     int
	at         string
}

func (p *positionFlag) register(cmd *cobra.Command, what string) {
	cmd.Flags().IntVar(&p.offset, p.offsetName, -1, "byte offset of the "+what)
	cmd.Flags().StringVar(&p.at, p.atName, "", "LINE:COL of the "+what+", both 1-based")
}

func (p *positionFlag) set() bool {
	return p.offset >= 0 || p.at != ""
}

func (p *positionFlag) resolve(b *source.Buffer) (int, error) {
	if p.at == "" {
		if p.offset < 0 {
			return 0, fmt.Errorf("one of --%s or --%s is required", p.offsetName, p.atName)
		}
		if p.offset > b.Len() {
			return 0, fmt.Errorf("offset %d is past the end of the buffer (%d bytes)", p.offset, b.Len())
		}
		return p.offset, nil
	}
	return parseLineCol(b, p.at)
}

func parseLineCol(b *source.Buffer, s string) (int, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("position %q: want LINE:COL", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return 0, fmt.Errorf("position %q: line: %w", s, err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return 0, fmt.Errorf("position %q: column: %w", s, err)
	}
	if line < 1 || line > b.LineCount() {
		return 0, fmt.Errorf("position %q: line out of range 1-%d", s, b.LineCount())
	}
	return b.Offset(line, col), nil
}

func encode(opts *options, cmd *cobra.Command, a *format.Analysis) error {
	enc, err := format.New(opts.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return enc.Encode(a)
}
