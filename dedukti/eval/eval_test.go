package eval

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/scope"
	"github.com/dhamidi/dkmode/dedukti/source"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		in      string
		want    Directive
		wantErr bool
	}{
		{"", HeadNormalForm, false},
		{"hnf", HeadNormalForm, false},
		{"WNF", WeakNormalForm, false},
		{"snf", StrongNormalForm, false},
		{"#EVAL %s.", Directive{Name: "custom", Template: "#EVAL %s."}, false},
		{"#EVAL.", Directive{}, true},
		{"#EVAL %s %s.", Directive{}, true},
		{"#EVAL 100% %s.", Directive{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirective(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadDirective) {
					t.Errorf("ParseDirective(%q) error = %v, want ErrBadDirective", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirective(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirective(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		d    Directive
		want string
	}{
		{HeadNormalForm, ":= plus 1 2."},
		{WeakNormalForm, "#WNF plus 1 2."},
		{StrongNormalForm, "#SNF plus 1 2."},
		{Directive{Name: "custom", Template: "#EVAL[10] %s."}, "#EVAL[10] plus 1 2."},
	}
	for _, tt := range tests {
		if got := tt.d.Apply("plus 1 2"); got != tt.want {
			t.Errorf("%s.Apply() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestBuiltins(t *testing.T) {
	want := []string{"hnf", "snf", "wnf"}
	if got := Builtins(); !reflect.DeepEqual(got, want) {
		t.Errorf("Builtins() = %v, want %v", got, want)
	}
}

func unit(t *testing.T, text, term string, d Directive) (string, error) {
	t.Helper()
	b := source.FromString(text)
	start := strings.LastIndex(text, term)
	p, err := phrase.At(b, start)
	if err != nil {
		t.Fatalf("phrase.At(%d) error = %v", start, err)
	}
	return BuildUnit(b, p, source.Span{Start: start, End: start + len(term)}, d)
}

func TestBuildUnit(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
		d    Directive
		want string
	}{
		{
			"empty context",
			"nat : Type.\nx : T.",
			"T",
			HeadNormalForm,
			"nat : Type.\n:= T.",
		},
		{
			"rule and local binders",
			"[n : Nat] f n --> x : Nat => plus x n.",
			"plus x n",
			HeadNormalForm,
			"n : Nat.\nx : Nat.\n:= plus x n.",
		},
		{
			"parameters in written order",
			"nat : Type.\ndef f (x : nat) (y : nat) : nat := g x y.",
			"g x y",
			StrongNormalForm,
			"nat : Type.\nx : nat.\ny : nat.\n#SNF g x y.",
		},
		{
			"outermost binder first",
			"def t : T := f : A -> B => g : C -> D => f (g c).",
			"f (g c)",
			WeakNormalForm,
			"f : A.\ng : C.\n#WNF f (g c).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unit(t, tt.text, tt.term, tt.d)
			if err != nil {
				t.Fatalf("BuildUnit() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildUnit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildUnitErrors(t *testing.T) {
	b := source.FromString("nat : Type.\nx : T.")
	p, err := phrase.At(b, 16)
	if err != nil {
		t.Fatal(err)
	}
	for _, sel := range []source.Span{{Start: 17, End: 16}, {Start: 16, End: 16}, {Start: 15, End: 16}} {
		if got, err := BuildUnit(b, p, sel, HeadNormalForm); err == nil {
			t.Errorf("BuildUnit(%v) = %q, want error", sel, got)
		}
	}

	_, err = unit(t, "[x] f x --> x.", "x.", HeadNormalForm)
	if !errors.Is(err, scope.ErrMalformedContext) {
		t.Errorf("BuildUnit() error = %v, want ErrMalformedContext", err)
	}
}
