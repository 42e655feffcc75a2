package lexer

import (
	"strings"

	"github.com/dhamidi/dkmode/dedukti/source"
)

type Direction int

const (
	DirForward Direction = iota
	DirBackward
)

// Step moves from offset over one token in the given direction. When no token
// can be read there it skips one balanced parenthesised expression instead.
// The result always differs from offset unless offset is already at the edge
// of the buffer in that direction.
func Step(b *source.Buffer, offset int, dir Direction) int {
	return std.Step(b, offset, dir)
}

func (l *Lexer) Step(b *source.Buffer, offset int, dir Direction) int {
	offset = b.Clamp(offset)
	var next int
	if dir == DirForward {
		tok, ok := l.Forward(b, offset)
		switch {
		case ok:
			next = tok.Span.End
		case tok.Kind == TokenLParen:
			next = source.MatchForward(b, tok.Span.Start)
		default:
			next = b.Len()
		}
		if next <= offset && offset < b.Len() {
			next = offset + 1
		}
		return next
	}

	tok, ok := l.Backward(b, offset)
	switch {
	case ok:
		next = tok.Span.Start
	case tok.Kind == TokenRParen:
		next = source.MatchBackward(b, tok.Span.End)
	default:
		next = 0
	}
	if next >= offset && offset > 0 {
		next = offset - 1
	}
	return next
}

// Tokens lexes the whole buffer forward. Parentheses are returned as tokens
// rather than skipped.
func Tokens(b *source.Buffer) []Token {
	return std.Tokens(b)
}

func (l *Lexer) Tokens(b *source.Buffer) []Token {
	var tokens []Token
	offset := 0
	for {
		tok, ok := l.Forward(b, offset)
		if !ok && tok.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
		offset = tok.Span.End
	}
}

// TokensBackward lexes the whole buffer from the end and returns the tokens in
// buffer order. On well-formed text it agrees with Tokens.
func TokensBackward(b *source.Buffer) []Token {
	return std.TokensBackward(b)
}

func (l *Lexer) TokensBackward(b *source.Buffer) []Token {
	var tokens []Token
	offset := b.Len()
	for {
		tok, ok := l.Backward(b, offset)
		if !ok && tok.Kind == TokenEOF {
			break
		}
		tokens = append(tokens, tok)
		offset = tok.Span.Start
	}
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return tokens
}

// At returns the token that covers offset, or the first token after it.
func At(b *source.Buffer, offset int) (Token, bool) {
	return std.At(b, offset)
}

func (l *Lexer) At(b *source.Buffer, offset int) (Token, bool) {
	offset = b.Clamp(offset)
	start := offset
	for start > 0 {
		ch := b.At(start - 1)
		if source.IsIdentChar(ch) || strings.IndexByte("-=>:~.#", ch) >= 0 {
			start--
			continue
		}
		break
	}
	for {
		tok, _ := l.Forward(b, start)
		if tok.Kind == TokenEOF {
			return tok, false
		}
		if tok.Span.End > offset {
			return tok, true
		}
		start = tok.Span.End
	}
}
