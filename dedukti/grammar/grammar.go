// Package grammar declares the surface syntax of Dedukti phrases.
//
// The phrase grammar is written in EBNF (dedukti.ebnf) and checked with
// golang.org/x/exp/ebnf. Its terminal productions carry the names of the
// lexer's token kinds. The operator precedence table in precedence.go is the
// authority the indentation engine consults for associativity.
package grammar

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/source"
	"golang.org/x/exp/ebnf"
)

// Start is the start production of the phrase grammar.
const Start = "File"

//go:embed dedukti.ebnf
var Source string

// terminals maps terminal productions to the token kinds the lexer produces.
var terminals = map[string]lexer.TokenKind{
	"HASHNAME":   lexer.TokenPragmaName,
	"HASHIMPORT": lexer.TokenPragmaImport,
	"HASHASSERT": lexer.TokenPragmaAssert,
	"PRAGMA":     lexer.TokenPragma,
	"NAME":       lexer.TokenName,
	"CID":        lexer.TokenCID,
	"OPAQUEID":   lexer.TokenOpaqueID,
	"NEWID":      lexer.TokenNewID,
	"ID":         lexer.TokenID,
	"RCOLON":     lexer.TokenRColon,
	"TCOLON":     lexer.TokenTColon,
	"LCOLON":     lexer.TokenLColon,
}

// Load parses and verifies the embedded grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("dedukti.ebnf", strings.NewReader(Source))
}

// Parse reads a grammar and verifies it against the Start production.
func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	return ParseStart(filename, r, Start)
}

// ParseStart reads a grammar and verifies it against start. An empty start
// only checks the syntax.
func ParseStart(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// MustLoad is like Load but panics on error. The embedded grammar is fixed at
// build time, so a failure is a programming error.
func MustLoad() ebnf.Grammar {
	g, err := Load()
	if err != nil {
		panic(err)
	}
	return g
}

// Terminals returns the token kinds referenced by the grammar, one entry per
// terminal production.
func Terminals(g ebnf.Grammar) map[string]lexer.TokenKind {
	used := make(map[string]lexer.TokenKind)
	for name, prod := range g {
		if kind, ok := terminals[name]; ok && prod.Expr != nil {
			used[name] = kind
		}
	}
	for name, prod := range g {
		if isLexical(name) {
			continue
		}
		walk(prod.Expr, func(e ebnf.Expression) {
			tok, ok := e.(*ebnf.Token)
			if !ok {
				return
			}
			lit := strings.Trim(tok.String, "\"")
			if kind, ok := literalKind(lit); ok && !kind.IsColon() {
				used[lit] = kind
			}
		})
	}
	return used
}

// Separators returns the token kinds that separate the elements of a
// repeated list, found as the leading literal of a repetition body.
func Separators(g ebnf.Grammar) []lexer.TokenKind {
	seen := make(map[lexer.TokenKind]bool)
	var kinds []lexer.TokenKind
	for name, prod := range g {
		if isLexical(name) {
			continue
		}
		walk(prod.Expr, func(e ebnf.Expression) {
			rep, ok := e.(*ebnf.Repetition)
			if !ok {
				return
			}
			seq, ok := rep.Body.(ebnf.Sequence)
			if !ok || len(seq) < 2 {
				return
			}
			tok, ok := seq[0].(*ebnf.Token)
			if !ok {
				return
			}
			if kind, ok := literalKind(strings.Trim(tok.String, "\"")); ok && !seen[kind] {
				seen[kind] = true
				kinds = append(kinds, kind)
			}
		})
	}
	return kinds
}

func isLexical(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

// literalKind lexes a grammar literal on its own.
func literalKind(lit string) (lexer.TokenKind, bool) {
	b := source.FromString(lit)
	tok, ok := lexer.Forward(b, 0)
	if tok.Kind == lexer.TokenLParen {
		return tok.Kind, true
	}
	if !ok || tok.Span.End != b.Len() || tok.Kind == lexer.TokenUnknown {
		return lexer.TokenUnknown, false
	}
	return tok.Kind, true
}

func walk(expr ebnf.Expression, visit func(ebnf.Expression)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch e := expr.(type) {
	case ebnf.Sequence:
		for _, item := range e {
			walk(item, visit)
		}
	case ebnf.Alternative:
		for _, alt := range e {
			walk(alt, visit)
		}
	case *ebnf.Repetition:
		walk(e.Body, visit)
	case *ebnf.Option:
		walk(e.Body, visit)
	case *ebnf.Group:
		walk(e.Body, visit)
	}
}
