package lexer

import (
	"strings"

	"github.com/dhamidi/dkmode/dedukti/region"
	"github.com/dhamidi/dkmode/dedukti/source"
)

// Lexer tokenizes Dedukti text in either direction starting from an
// arbitrary offset. Colons and identifiers are disambiguated by asking the
// classifier for the region at the start of the token.
type Lexer struct {
	classify region.Func
}

func New(classify region.Func) *Lexer {
	if classify == nil {
		classify = region.Classify
	}
	return &Lexer{classify: classify}
}

var std = New(region.Classify)

// Forward returns the token starting at or after offset. It reports false at
// the end of the buffer (TokenEOF) and in front of an opening parenthesis
// (TokenLParen), where the caller is expected to skip one balanced expression.
func Forward(b *source.Buffer, offset int) (Token, bool) {
	return std.Forward(b, offset)
}

// Backward returns the token ending at or before offset. It reports false at
// the start of the buffer (TokenEOF) and behind a closing parenthesis
// (TokenRParen).
func Backward(b *source.Buffer, offset int) (Token, bool) {
	return std.Backward(b, offset)
}

func (l *Lexer) Forward(b *source.Buffer, offset int) (Token, bool) {
	i := source.SkipSpaceForward(b, offset)
	if i >= b.Len() {
		return l.token(b, TokenEOF, i, i), false
	}

	ch := b.At(i)
	if ch == '(' {
		return l.token(b, TokenLParen, i, i+1), false
	}
	if end := source.QuotedEndForward(b, i); end >= 0 {
		return l.ident(b, i, end), true
	}
	for _, sym := range symbols {
		if b.HasPrefixAt(i, sym.text) {
			return l.token(b, sym.kind, i, i+len(sym.text)), true
		}
	}

	switch {
	case ch == ':':
		return l.token(b, colonKind(l.classify(b, i)), i, i+1), true
	case ch == '.' && source.IsIdentStart(b.At(i+1)):
		return l.ident(b, i, scanIdentForward(b, i+1)), true
	case ch == '.':
		return l.token(b, TokenDot, i, i+1), true
	case ch == '#' && source.IsIdentStart(b.At(i+1)):
		end := i + 1
		for source.IsIdentChar(b.At(end)) {
			end++
		}
		return l.token(b, lookupPragma(b.Slice(i, end)), i, end), true
	case source.IsIdentStart(ch):
		return l.ident(b, i, scanIdentForward(b, i)), true
	}
	return l.token(b, TokenUnknown, i, i+1), true
}

func (l *Lexer) Backward(b *source.Buffer, offset int) (Token, bool) {
	e := source.SkipSpaceBackward(b, offset)
	if e <= 0 {
		return l.token(b, TokenEOF, 0, 0), false
	}

	ch := b.At(e - 1)
	if ch == ')' {
		return l.token(b, TokenRParen, e-1, e), false
	}
	if start := source.QuotedStartBackward(b, e); start >= 0 {
		return l.ident(b, start, e), true
	}
	for _, sym := range symbols {
		if b.HasSuffixAt(e, sym.text) {
			return l.token(b, sym.kind, e-len(sym.text), e), true
		}
	}

	switch {
	case ch == ':':
		return l.token(b, colonKind(l.classify(b, e-1)), e-1, e), true
	case ch == '.':
		return l.token(b, TokenDot, e-1, e), true
	case source.IsIdentChar(ch):
		start := scanIdentBackward(b, e)
		if start == e {
			break
		}
		if b.At(start-1) == '#' {
			dot := strings.IndexByte(b.Slice(start, e), '.')
			if dot < 0 {
				return l.token(b, lookupPragma(b.Slice(start-1, e)), start-1, e), true
			}
			// a pragma keyword ends at the first dot, the rest is a name
			return l.ident(b, start+dot, e), true
		}
		return l.ident(b, start, e), true
	}
	return l.token(b, TokenUnknown, e-1, e), true
}

func (l *Lexer) token(b *source.Buffer, kind TokenKind, start, end int) Token {
	return Token{
		Kind:    kind,
		Span:    source.Span{Start: start, End: end},
		Literal: b.Slice(start, end),
	}
}

func (l *Lexer) ident(b *source.Buffer, start, end int) Token {
	return l.token(b, identKind(l.classify(b, start)), start, end)
}

// scanIdentForward returns the end of the possibly qualified identifier
// starting at i.
func scanIdentForward(b *source.Buffer, i int) int {
	for {
		for source.IsIdentChar(b.At(i)) {
			i++
		}
		if b.At(i) == '.' && source.IsIdentStart(b.At(i+1)) {
			i++
			continue
		}
		return i
	}
}

// scanIdentBackward returns the start of the identifier ending at e. A
// qualifier is included, and so is a bare leading dot.
func scanIdentBackward(b *source.Buffer, e int) int {
	i := e
	for {
		for i > 0 && source.IsIdentChar(b.At(i-1)) {
			i--
		}
		if i > 1 && b.At(i-1) == '.' && source.IsIdentChar(b.At(i-2)) {
			i--
			continue
		}
		break
	}
	for i < e && !source.IsIdentStart(b.At(i)) {
		i++
	}
	if i < e && i > 0 && b.At(i-1) == '.' {
		i--
	}
	return i
}
