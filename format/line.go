package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/dkmode/dedukti/scope"
	"github.com/dhamidi/dkmode/dedukti/source"
)

// LineEncoder writes one tab-separated record per line, positions as
// line:column.
type LineEncoder struct {
	w io.Writer
	a *Analysis
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(a *Analysis) error {
	e.a = a
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	a := e.a
	b := a.Buffer

	if a.Region != nil {
		fmt.Fprintf(&sb, "offset\t%s\t%d\n", pos(b, a.Offset), a.Offset)
		fmt.Fprintf(&sb, "region\t%s\n", *a.Region)
	}
	if a.Token != nil {
		fmt.Fprintf(&sb, "token\t%s\t%s\t%s\n", pos(b, a.Token.Span.Start), a.Token.Kind, strconv.Quote(a.Token.Literal))
	}
	if a.Phrase != nil {
		fmt.Fprintf(&sb, "phrase\t%s\t%s\n", a.Phrase.Kind, spanString(b, a.Phrase.Span))
	}
	if a.Scope != nil {
		writeEntries(&sb, "rule", a.Scope.Rule)
		writeEntries(&sb, "local", a.Scope.Local)
	}
	if a.Err != nil {
		fmt.Fprintf(&sb, "error\t%s\n", a.Err)
	}

	for _, tok := range a.Tokens {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", pos(b, tok.Span.Start), tok.Kind, strconv.Quote(tok.Literal))
	}
	for _, p := range a.Phrases {
		fmt.Fprintf(&sb, "%s\t%s\n", spanString(b, p.Span), p.Kind)
	}
	return []byte(sb.String()), nil
}

func writeEntries(sb *strings.Builder, label string, ctx scope.Context) {
	for _, entry := range ctx {
		fmt.Fprintf(sb, "%s\t%s\t%s\n", label, entry.Name, entry.Type)
	}
}

func pos(b *source.Buffer, offset int) string {
	p := b.Position(offset)
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func spanString(b *source.Buffer, s source.Span) string {
	return pos(b, s.Start) + "-" + pos(b, s.End)
}
