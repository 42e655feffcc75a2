package lexer

import (
	"github.com/dhamidi/dkmode/dedukti/region"
	"github.com/dhamidi/dkmode/dedukti/source"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenUnknown

	// Structural symbols
	TokenDefine      // :=
	TokenRewrite     // -->
	TokenArrow       // ->
	TokenFatArrow    // =>
	TokenComma       // ,
	TokenDot         // .
	TokenConvertible // ~=
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace

	// Colons, by region
	TokenRColon
	TokenTColon
	TokenLColon

	// Identifiers, by region
	TokenName
	TokenCID
	TokenOpaqueID
	TokenNewID
	TokenID

	// Pragma keywords
	TokenPragmaName
	TokenPragmaImport
	TokenPragmaAssert
	TokenPragma
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenUnknown:      "UNKNOWN",
	TokenDefine:       ":=",
	TokenRewrite:      "-->",
	TokenArrow:        "->",
	TokenFatArrow:     "=>",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenConvertible:  "~=",
	TokenLBracket:     "[",
	TokenRBracket:     "]",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenRColon:       "RCOLON",
	TokenTColon:       "TCOLON",
	TokenLColon:       "LCOLON",
	TokenName:         "NAME",
	TokenCID:          "CID",
	TokenOpaqueID:     "OPAQUEID",
	TokenNewID:        "NEWID",
	TokenID:           "ID",
	TokenPragmaName:   "#NAME",
	TokenPragmaImport: "#IMPORT",
	TokenPragmaAssert: "#ASSERT",
	TokenPragma:       "PRAGMA",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// LookupKind returns the kind whose name is s, as printed by String.
func LookupKind(s string) (TokenKind, bool) {
	for k, name := range tokenKindNames {
		if name == s {
			return k, true
		}
	}
	return TokenUnknown, false
}

func (k TokenKind) IsColon() bool {
	return k == TokenRColon || k == TokenTColon || k == TokenLColon
}

func (k TokenKind) IsIdent() bool {
	switch k {
	case TokenName, TokenCID, TokenOpaqueID, TokenNewID, TokenID:
		return true
	}
	return false
}

func (k TokenKind) IsPragma() bool {
	switch k {
	case TokenPragmaName, TokenPragmaImport, TokenPragmaAssert, TokenPragma:
		return true
	}
	return false
}

type Token struct {
	Kind    TokenKind
	Span    source.Span
	Literal string
}

var symbols = []struct {
	text string
	kind TokenKind
}{
	// longest first
	{"-->", TokenRewrite},
	{":=", TokenDefine},
	{"->", TokenArrow},
	{"=>", TokenFatArrow},
	{"~=", TokenConvertible},
	{",", TokenComma},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
}

var pragmas = map[string]TokenKind{
	"#NAME":   TokenPragmaName,
	"#IMPORT": TokenPragmaImport,
	"#ASSERT": TokenPragmaAssert,
}

func lookupPragma(word string) TokenKind {
	if kind, ok := pragmas[word]; ok {
		return kind
	}
	return TokenPragma
}

func colonKind(r region.Region) TokenKind {
	switch r {
	case region.Context:
		return TokenRColon
	case region.Top:
		return TokenTColon
	default:
		return TokenLColon
	}
}

func identKind(r region.Region) TokenKind {
	switch r {
	case region.Prelude:
		return TokenName
	case region.Context:
		return TokenCID
	case region.Opaque:
		return TokenOpaqueID
	case region.Top:
		return TokenNewID
	default:
		return TokenID
	}
}
