package indent

import (
	"strings"

	"github.com/dhamidi/dkmode/dedukti/grammar"
	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/source"
)

type Indenter struct {
	Basic int
}

func New(basic int) *Indenter {
	if basic <= 0 {
		basic = DefaultBasic
	}
	return &Indenter{Basic: basic}
}

// Column returns the column the line containing offset should be indented to.
func (in *Indenter) Column(b *source.Buffer, offset int) int {
	lineStart := b.LineStart(offset)
	first := b.Indentation(offset)
	q := Query{Basic: in.Basic}

	if first < b.LineEnd(offset) {
		tok, _ := lexer.Forward(b, first)
		if tok.Span.Start == first && tok.Kind != lexer.TokenEOF {
			q.Hanging = true
			d := Rule(Before, tok.Kind, q)
			switch d.Kind {
			case Column:
				return d.Value
			case Offset:
				return phraseColumn(b, lineStart) + d.Value
			}
			if Rule(Elem, tok.Kind, q).Kind == SameAsSeparator {
				if col, ok := separatorColumn(b, first); ok {
					return col
				}
			}
		}
	}

	prev, ok := lexer.Backward(b, lineStart)
	if prev.Kind == lexer.TokenEOF {
		return 0
	}
	prevStart := prev.Span.Start
	kind := prev.Kind
	if !ok && grammar.IsCloser(prev.Kind) {
		// a parenthesised term ends the previous line
		prevStart = source.MatchBackward(b, prev.Span.End)
		kind = lexer.TokenID
	}
	before, _ := lexer.Backward(b, prevStart)
	q = Query{
		Basic:   in.Basic,
		Hanging: b.Indentation(prevStart) == prevStart,
		Prev:    before.Kind,
	}

	d := Rule(After, kind, q)
	switch d.Kind {
	case Column:
		return d.Value
	case Offset:
		return b.Column(b.Indentation(prevStart)) + d.Value
	}
	return b.Column(b.Indentation(prevStart))
}

// phraseColumn is the column of the first token of the phrase containing offset.
func phraseColumn(b *source.Buffer, offset int) int {
	start := source.SkipSpaceForward(b, source.PhraseStart(b, offset))
	if start >= offset {
		return 0
	}
	return b.Column(start)
}

// separatorColumn finds the column of the previous separator of the same list,
// or of the bracket that opens it.
func separatorColumn(b *source.Buffer, offset int) (int, bool) {
	col, found := 0, false
	source.WalkBackward(b, offset, func(i int, ch byte, depth int) bool {
		if depth < 0 {
			opener, _ := lexer.Forward(b, i)
			col, found = b.Column(i), grammar.IsOpener(opener.Kind)
			return false
		}
		if depth == 0 && ch == ',' {
			col, found = b.Column(i), true
			return false
		}
		return true
	})
	return col, found
}

// Reindent returns a copy of b with every line reindented. Lines that
// continue a comment are left alone and blank lines are emptied.
func (in *Indenter) Reindent(b *source.Buffer) *source.Buffer {
	cur := b
	for line := 1; line <= cur.LineCount(); line++ {
		start := cur.Offset(line, 1)
		if span, ok := source.InComment(cur, start); ok && span.Start < start {
			continue
		}
		first := cur.Indentation(start)
		end := cur.LineEnd(start)
		var want string
		if first < end {
			want = strings.Repeat(" ", in.Column(cur, start))
		}
		if cur.Slice(start, first) == want {
			continue
		}
		text := cur.Slice(0, start) + want + cur.Slice(first, cur.Len())
		cur = source.New([]byte(text), b.File())
	}
	return cur
}
