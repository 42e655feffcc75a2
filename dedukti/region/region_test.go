package region

import (
	"strings"
	"testing"

	"github.com/dhamidi/dkmode/dedukti/source"
)

// at returns the offset of the n-th (0-based) occurrence of sub in text.
func at(t *testing.T, text, sub string, n int) int {
	t.Helper()
	offset := -1
	for i := 0; i <= n; i++ {
		j := strings.Index(text[offset+1:], sub)
		if j < 0 {
			t.Fatalf("%q has no occurrence %d of %q", text, n, sub)
		}
		offset += 1 + j
	}
	return offset
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		sub  string
		n    int
		want Region
	}{
		{"rule variable", "[x : Nat] plus x 0 --> x.", "x", 0, Context},
		{"rule colon", "[x : Nat] plus x 0 --> x.", ":", 0, Context},
		{"rule type", "[x : Nat] plus x 0 --> x.", "Nat", 0, Other},
		{"rule head", "[x : Nat] plus x 0 --> x.", "plus", 0, Other},
		{"rule right-hand side", "[x : Nat] plus x 0 --> x.", "x", 2, Other},
		{"second context entry", "[x : A, y : B] f x y --> x.", "y", 0, Context},
		{"second entry type", "[x : A, y : B] f x y --> x.", "B", 0, Other},
		{"declared name", "nat : Type.", "nat", 0, Top},
		{"declaration colon", "nat : Type.", ":", 0, Top},
		{"declaration type", "nat : Type.", "Type", 0, Other},
		{"second phrase", "nat : Type.\nzero : nat.", "zero", 0, Top},
		{"def modifier", "def f : A.", "f", 0, Top},
		{"qualified type", "x : M.T.\ny : T.", "y", 0, Top},
		{"pragma", "#NAME foo.", "foo", 0, Prelude},
		{"indented pragma", "  #IMPORT foo.", "foo", 0, Prelude},
		{"opaque", "[x] f {g x} --> x.", "g", 0, Opaque},
		{"opaque in parens", "[x] f {g (h x)} --> x.", "h", 0, Opaque},
		{"after opaque", "[x] f {g x} y --> x.", "y", 0, Other},
		{"binder", "def f : A := x : A => x.", "x", 0, Other},
		{"inside parens at top", "def f (x : A) : A := x.", "x", 0, Other},
		{"inside comment", "(; [x ;) y : A.", "y", 0, Top},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := source.FromString(tt.text)
			offset := at(t, tt.text, tt.sub, tt.n)
			if got := Classify(b, offset); got != tt.want {
				t.Errorf("Classify(%q, %d) = %v, want %v", tt.text, offset, got, tt.want)
			}
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	texts := []string{
		"",
		"]]]",
		"[[[",
		"(; unterminated",
		"{| quoted",
		"a : (b : [c , d] -> {e}) := f.",
		":,.[]{}()#",
	}
	for _, text := range texts {
		b := source.FromString(text)
		for offset := -1; offset <= b.Len()+1; offset++ {
			r := Classify(b, offset)
			if r.String() == "Unknown" {
				t.Errorf("Classify(%q, %d) = %d, not a region", text, offset, int(r))
			}
		}
	}
}

func TestRegionString(t *testing.T) {
	if got := Context.String(); got != "Context" {
		t.Errorf("Context.String() = %q, want %q", got, "Context")
	}
	if got := Region(42).String(); got != "Unknown" {
		t.Errorf("Region(42).String() = %q, want %q", got, "Unknown")
	}
}
