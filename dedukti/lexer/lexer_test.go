package lexer

import (
	"testing"

	"github.com/dhamidi/dkmode/dedukti/region"
	"github.com/dhamidi/dkmode/dedukti/source"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []TokenKind
	}{
		{
			"rewrite rule",
			"[x : Nat] plus x 0 --> x.",
			[]TokenKind{TokenLBracket, TokenCID, TokenRColon, TokenID, TokenRBracket,
				TokenID, TokenID, TokenID, TokenRewrite, TokenID, TokenDot},
		},
		{
			"declaration",
			"nat : Type.",
			[]TokenKind{TokenNewID, TokenTColon, TokenID, TokenDot},
		},
		{
			"definition with binder",
			"def id : A -> A := x : A => x.",
			[]TokenKind{TokenNewID, TokenNewID, TokenTColon, TokenID, TokenArrow, TokenID,
				TokenDefine, TokenID, TokenLColon, TokenID, TokenFatArrow, TokenID, TokenDot},
		},
		{
			"name pragma",
			"#NAME foo.",
			[]TokenKind{TokenPragmaName, TokenName, TokenDot},
		},
		{
			"other pragma",
			"#EVAL foo.",
			[]TokenKind{TokenPragma, TokenName, TokenDot},
		},
		{
			"convertibility",
			"#ASSERT a ~= b.",
			[]TokenKind{TokenPragmaAssert, TokenName, TokenConvertible, TokenName, TokenDot},
		},
		{
			"qualified identifier",
			"x : M.T.",
			[]TokenKind{TokenNewID, TokenTColon, TokenID, TokenDot},
		},
		{
			"comments are skipped",
			"(; a : b. ;) x (; c ;) : T.",
			[]TokenKind{TokenNewID, TokenTColon, TokenID, TokenDot},
		},
		{
			"quoted identifier",
			"{|a b|} : T.",
			[]TokenKind{TokenNewID, TokenTColon, TokenID, TokenDot},
		},
		{
			"opaque block",
			"[x] f {g x} --> x.",
			[]TokenKind{TokenLBracket, TokenCID, TokenRBracket, TokenID, TokenLBrace,
				TokenOpaqueID, TokenOpaqueID, TokenRBrace, TokenRewrite, TokenID, TokenDot},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Tokens(source.FromString(tt.text)))
			if len(got) != len(tt.want) {
				t.Fatalf("Tokens(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokens(%q)[%d] = %v, want %v", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRuleVariableIsCID(t *testing.T) {
	b := source.FromString("[x : Nat] plus x 0 --> x.")
	tok, ok := Forward(b, 1)
	if !ok || tok.Kind != TokenCID || tok.Literal != "x" {
		t.Errorf("Forward(1) = %v %q, %v; want CID \"x\", true", tok.Kind, tok.Literal, ok)
	}
	tok, ok = Backward(b, 2)
	if !ok || tok.Kind != TokenCID || tok.Span != (source.Span{Start: 1, End: 2}) {
		t.Errorf("Backward(2) = %v %v, %v; want CID {1 2}, true", tok.Kind, tok.Span, ok)
	}
}

func TestParenthesesAreNotLexed(t *testing.T) {
	b := source.FromString("f (a b) c")
	tok, ok := Forward(b, 1)
	if ok || tok.Kind != TokenLParen || tok.Span.Start != 2 {
		t.Errorf("Forward(1) = %v at %d, %v; want ( at 2, false", tok.Kind, tok.Span.Start, ok)
	}
	tok, ok = Backward(b, 8)
	if ok || tok.Kind != TokenRParen || tok.Span.Start != 6 {
		t.Errorf("Backward(8) = %v at %d, %v; want ) at 6, false", tok.Kind, tok.Span.Start, ok)
	}
}

func TestEdges(t *testing.T) {
	b := source.FromString("  (; only a comment ;)  ")
	if tok, ok := Forward(b, 0); ok || tok.Kind != TokenEOF {
		t.Errorf("Forward = %v, %v; want EOF, false", tok.Kind, ok)
	}
	if tok, ok := Backward(b, b.Len()); ok || tok.Kind != TokenEOF {
		t.Errorf("Backward = %v, %v; want EOF, false", tok.Kind, ok)
	}
}

func TestForwardBackwardAgree(t *testing.T) {
	texts := []string{
		"[x : Nat] plus x 0 --> x.",
		"nat : Type.\nzero : nat.\ndef succ : nat -> nat.",
		"def id : A -> A := x : A => x.",
		"#NAME foo.\n#IMPORT bar.",
		"[x, y] f x y --> M.g y {h x}.",
		"{|a b|} : T.",
		"(; c ;) a (; d ;) : b.",
		"#NAMEM.T.",
		"#EVAL.x.y z.",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			b := source.FromString(text)
			fwd := Tokens(b)
			bwd := TokensBackward(b)
			if len(fwd) != len(bwd) {
				t.Fatalf("forward %v, backward %v", kinds(fwd), kinds(bwd))
			}
			for i := range fwd {
				if fwd[i] != bwd[i] {
					t.Errorf("token %d: forward %v %q %v, backward %v %q %v", i,
						fwd[i].Kind, fwd[i].Literal, fwd[i].Span, bwd[i].Kind, bwd[i].Literal, bwd[i].Span)
				}
			}
		})
	}
}

func TestCustomClassifier(t *testing.T) {
	l := New(func(*source.Buffer, int) region.Region { return region.Opaque })
	tok, _ := l.Forward(source.FromString("x : y"), 0)
	if tok.Kind != TokenOpaqueID {
		t.Errorf("Forward kind = %v, want %v", tok.Kind, TokenOpaqueID)
	}
}

func TestLookupKind(t *testing.T) {
	for k, name := range tokenKindNames {
		got, ok := LookupKind(name)
		if !ok || got != k {
			t.Errorf("LookupKind(%q) = %v, %v; want %v, true", name, got, ok, k)
		}
	}
	if _, ok := LookupKind("nope"); ok {
		t.Errorf("LookupKind(%q) found a kind", "nope")
	}
}
