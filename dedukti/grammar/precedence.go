package grammar

import (
	"github.com/dhamidi/dkmode/dedukti/lexer"
)

type Assoc int

const (
	// AssocList marks an associative operator whose operands form a flat list.
	AssocList Assoc = iota
	AssocRight
)

func (a Assoc) String() string {
	if a == AssocRight {
		return "right"
	}
	return "assoc"
}

type Level struct {
	Assoc Assoc
	Kinds []lexer.TokenKind
}

// Precedence lists the infix operators from loosest to tightest binding.
var Precedence = []Level{
	{Assoc: AssocList, Kinds: []lexer.TokenKind{lexer.TokenComma}},
	{Assoc: AssocRight, Kinds: []lexer.TokenKind{lexer.TokenArrow, lexer.TokenFatArrow}},
	{Assoc: AssocList, Kinds: []lexer.TokenKind{lexer.TokenLColon}},
}

// Pairs maps every opening bracket to its closing bracket.
var Pairs = map[lexer.TokenKind]lexer.TokenKind{
	lexer.TokenLBracket: lexer.TokenRBracket,
	lexer.TokenLParen:   lexer.TokenRParen,
	lexer.TokenLBrace:   lexer.TokenRBrace,
}

// LevelOf returns the precedence level of an infix operator; higher binds
// tighter.
func LevelOf(kind lexer.TokenKind) (int, bool) {
	for i, level := range Precedence {
		for _, k := range level.Kinds {
			if k == kind {
				return i, true
			}
		}
	}
	return 0, false
}

// IsRightAssoc reports whether kind belongs to a right-associative level.
func IsRightAssoc(kind lexer.TokenKind) bool {
	l, ok := LevelOf(kind)
	return ok && Precedence[l].Assoc == AssocRight
}

var separators = Separators(MustLoad())

// IsSeparator reports whether kind separates the elements of a list in the
// phrase grammar.
func IsSeparator(kind lexer.TokenKind) bool {
	for _, k := range separators {
		if k == kind {
			return true
		}
	}
	return false
}

func IsOpener(kind lexer.TokenKind) bool {
	_, ok := Pairs[kind]
	return ok
}

func IsCloser(kind lexer.TokenKind) bool {
	for _, closer := range Pairs {
		if closer == kind {
			return true
		}
	}
	return false
}
