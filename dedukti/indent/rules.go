// Package indent computes indentation for Dedukti source lines.
//
// Rule is a pure function from a token and its role around a line break to
// an indentation decision. Indenter turns those decisions into columns.
package indent

import (
	"fmt"

	"github.com/dhamidi/dkmode/dedukti/grammar"
	"github.com/dhamidi/dkmode/dedukti/lexer"
)

// DefaultBasic is the basic indentation unit.
const DefaultBasic = 2

type Method int

const (
	// Before asks about a token that starts the line being indented.
	Before Method = iota
	// After asks about the last token of the previous line.
	After
	// Elem asks about a list separator that starts the line.
	Elem
)

type DecisionKind int

const (
	None DecisionKind = iota
	Column
	Offset
	SameAsSeparator
)

type Decision struct {
	Kind  DecisionKind
	Value int
}

func (d Decision) String() string {
	switch d.Kind {
	case Column:
		return fmt.Sprintf("column %d", d.Value)
	case Offset:
		return fmt.Sprintf("offset %d", d.Value)
	case SameAsSeparator:
		return "same as separator"
	}
	return "none"
}

// Query carries what a rule may look at besides the token itself.
type Query struct {
	Basic int
	// Hanging is true when the token is the first one on its line.
	Hanging bool
	// Prev is the kind of the token preceding the one considered.
	Prev lexer.TokenKind
}

func column(n int) Decision { return Decision{Kind: Column, Value: n} }
func offset(n int) Decision { return Decision{Kind: Offset, Value: n} }

// Rule returns the indentation decision for kind. Every combination has an
// answer; None means the caller's default applies.
func Rule(method Method, kind lexer.TokenKind, q Query) Decision {
	basic := q.Basic
	if basic <= 0 {
		basic = DefaultBasic
	}

	switch method {
	case Elem:
		if grammar.IsSeparator(kind) {
			return Decision{Kind: SameAsSeparator}
		}
	case Before:
		switch kind {
		case lexer.TokenLBracket:
			return column(0)
		case lexer.TokenRewrite:
			return offset(3 * basic)
		case lexer.TokenTColon:
			if q.Hanging {
				return offset(basic)
			}
		case lexer.TokenDefine:
			return offset(0)
		}
	case After:
		switch kind {
		case lexer.TokenName, lexer.TokenDot:
			return column(0)
		case lexer.TokenRBracket:
			return offset(2 * basic)
		case lexer.TokenRewrite:
			return offset(2 * basic)
		case lexer.TokenTColon:
			if q.Hanging {
				return offset(basic)
			}
		case lexer.TokenDefine:
			return offset(basic)
		case lexer.TokenID:
			if q.Prev != lexer.TokenID {
				return offset(basic)
			}
		}
		if grammar.IsOpener(kind) {
			return offset(basic)
		}
		if d, ok := operandOffset(kind, basic); ok {
			return d
		}
	}
	return Decision{Kind: None}
}

// operandOffset places the right operand of an infix operator that ends the
// previous line. A right-associative chain stays at the column of its line;
// the operand of a tighter list operator is indented by basic. Separators
// are left to the list rules.
func operandOffset(kind lexer.TokenKind, basic int) (Decision, bool) {
	if _, ok := grammar.LevelOf(kind); !ok || grammar.IsSeparator(kind) {
		return Decision{}, false
	}
	if grammar.IsRightAssoc(kind) {
		return offset(0), true
	}
	return offset(basic), true
}
