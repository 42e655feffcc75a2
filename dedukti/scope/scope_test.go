package scope

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/source"
)

type pair struct {
	name string
	typ  string
}

func pairs(ctx Context) []pair {
	out := make([]pair, len(ctx))
	for i, e := range ctx {
		out[i] = pair{e.Name, e.Type}
	}
	return out
}

func equal(a, b []pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func phraseAt(t *testing.T, b *source.Buffer, offset int) phrase.Phrase {
	t.Helper()
	p, err := phrase.At(b, offset)
	if err != nil {
		t.Fatalf("phrase.At(%d) error = %v", offset, err)
	}
	return p
}

func TestRuleContext(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []pair
	}{
		{"two entries", "[x : A, y : B] f x y --> x.", []pair{{"x", "A"}, {"y", "B"}}},
		{"single entry", "[x : Nat] plus x 0 --> x.", []pair{{"x", "Nat"}}},
		{"empty", "[] f --> a.", []pair{}},
		{"nested comma", "[f : (g a, b), x : A] h f x --> x.", []pair{{"f", "(g a, b)"}, {"x", "A"}}},
		{"dependent type", "[n : Nat, v : Vec n] len n v --> n.", []pair{{"n", "Nat"}, {"v", "Vec n"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := source.FromString(tt.text)
			ctx, err := RuleContext(b, phraseAt(t, b, 0))
			if err != nil {
				t.Fatalf("RuleContext() error = %v", err)
			}
			if got := pairs(ctx); !equal(got, tt.want) {
				t.Errorf("RuleContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleContextMalformed(t *testing.T) {
	tests := []string{
		"[x] f x --> x.",
		"[: A] f --> a.",
		"[x : ] f x --> x.",
		"[x : A, ] f x --> x.",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			b := source.FromString(text)
			_, err := RuleContext(b, phraseAt(t, b, 0))
			if !errors.Is(err, ErrMalformedContext) {
				t.Errorf("RuleContext() error = %v, want ErrMalformedContext", err)
			}
			var mce *MalformedContextError
			if !errors.As(err, &mce) {
				t.Errorf("RuleContext() error is not a *MalformedContextError")
			}
		})
	}
}

func TestRuleContextNotRule(t *testing.T) {
	b := source.FromString("nat : Type.")
	_, err := RuleContext(b, phraseAt(t, b, 0))
	if !errors.Is(err, ErrNotRule) {
		t.Errorf("RuleContext() error = %v, want ErrNotRule", err)
	}
}

func TestLocalContext(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor string
		want   []pair
	}{
		{
			"innermost first",
			"def t : T := f : A -> B => g : C -> D => x.",
			"x.",
			[]pair{{"g", "C"}, {"f", "A"}},
		},
		{
			"closed group is out of scope",
			"def g : T := f (x : A => x) (y : B => y).",
			"y).",
			[]pair{{"y", "B"}},
		},
		{
			"declaration parameters",
			"def f (x : A) (y : B) : A := g x y.",
			"g x y",
			[]pair{{"y", "B"}, {"x", "A"}},
		},
		{
			"pi binder",
			"T : x : Nat -> P x.",
			"P x",
			[]pair{{"x", "Nat"}},
		},
		{
			"binder in a rule",
			"[n : Nat] f n --> x : Nat => plus x n.",
			"plus",
			[]pair{{"x", "Nat"}},
		},
		{
			"nothing bound",
			"nat : Type.",
			"Type",
			[]pair{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := source.FromString(tt.text)
			offset := strings.LastIndex(tt.text, tt.cursor)
			ctx := LocalContext(b, phraseAt(t, b, offset), offset)
			if got := pairs(ctx); !equal(got, tt.want) {
				t.Errorf("LocalContext(%d) = %v, want %v", offset, got, tt.want)
			}
		})
	}
}

func TestReconstruct(t *testing.T) {
	text := "[n : Nat] f n --> x : Nat => plus x n."
	b := source.FromString(text)
	offset := strings.Index(text, "plus")

	s, err := Reconstruct(b, phraseAt(t, b, offset), offset)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if got, want := pairs(s.Rule), []pair{{"n", "Nat"}}; !equal(got, want) {
		t.Errorf("Rule = %v, want %v", got, want)
	}
	if got, want := pairs(s.All()), []pair{{"n", "Nat"}, {"x", "Nat"}}; !equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestEndToEnd(t *testing.T) {
	b := source.FromString("[x : Nat] plus x 0 --> x.")
	s, err := Reconstruct(b, phraseAt(t, b, 1), 1)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if got, want := pairs(s.Rule), []pair{{"x", "Nat"}}; !equal(got, want) {
		t.Errorf("Rule = %v, want %v", got, want)
	}
	if len(s.Local) != 0 {
		t.Errorf("Local = %v, want none", pairs(s.Local))
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := Context{{Name: "a", Type: "A"}, {Name: "b", Type: "B"}, {Name: "a", Type: "C"}}
	if got := strings.Join(ctx.Names(), ","); got != "a,b,a" {
		t.Errorf("Names() = %q, want %q", got, "a,b,a")
	}
	rev := ctx.Reversed()
	if rev[0].Type != "C" || rev[2].Type != "A" {
		t.Errorf("Reversed() = %v", pairs(rev))
	}
	if ctx[0].Type != "A" {
		t.Errorf("Reversed() modified its receiver")
	}
}
