package source

import (
	"testing"
)

func TestIsTerminator(t *testing.T) {
	tests := []struct {
		text   string
		offset int
		want   bool
	}{
		{"A.", 1, true},
		{"A. b", 1, true},
		{"A.b", 1, false},
		{"A.\nb", 1, true},
		{"A b", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsTerminator(FromString(tt.text), tt.offset); got != tt.want {
				t.Errorf("IsTerminator(%q, %d) = %v, want %v", tt.text, tt.offset, got, tt.want)
			}
		})
	}
}

func TestInComment(t *testing.T) {
	//                 0123456789012345678901
	b := FromString("a (; b (; c ;) d ;) e")

	tests := []struct {
		name   string
		offset int
		want   Span
		ok     bool
	}{
		{"before", 0, Span{}, false},
		{"outer", 5, Span{Start: 2, End: 19}, true},
		{"inner", 10, Span{Start: 7, End: 14}, true},
		{"outer after inner", 15, Span{Start: 2, End: 19}, true},
		{"after", 20, Span{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InComment(b, tt.offset)
			if ok != tt.ok {
				t.Fatalf("InComment(%d) ok = %v, want %v", tt.offset, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("InComment(%d) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestInCommentUnterminated(t *testing.T) {
	b := FromString("x (; y")
	got, ok := InComment(b, 5)
	if !ok || got != (Span{Start: 2, End: 6}) {
		t.Errorf("InComment = %v, %v, want {2 6}, true", got, ok)
	}
}

func TestSkipSpace(t *testing.T) {
	b := FromString("  (; c (; d ;) ;) x  ")
	if got := SkipSpaceForward(b, 0); got != 18 {
		t.Errorf("SkipSpaceForward = %d, want 18", got)
	}
	if got := SkipSpaceBackward(b, b.Len()); got != 19 {
		t.Errorf("SkipSpaceBackward = %d, want 19", got)
	}
	if got := SkipSpaceBackward(b, 18); got != 0 {
		t.Errorf("SkipSpaceBackward(18) = %d, want 0", got)
	}
}

func TestMatch(t *testing.T) {
	//                 01234567890
	b := FromString("(a (b) c) d")
	if got := MatchForward(b, 0); got != 9 {
		t.Errorf("MatchForward(0) = %d, want 9", got)
	}
	if got := MatchForward(b, 3); got != 6 {
		t.Errorf("MatchForward(3) = %d, want 6", got)
	}
	if got := MatchBackward(b, 9); got != 0 {
		t.Errorf("MatchBackward(9) = %d, want 0", got)
	}
	if got := MatchForward(FromString("(a"), 0); got != 2 {
		t.Errorf("MatchForward on unbalanced text = %d, want 2", got)
	}
}

func TestMatchSkipsComments(t *testing.T) {
	b := FromString("(a (; ) ;) b)")
	if got := MatchForward(b, 0); got != b.Len() {
		t.Errorf("MatchForward = %d, want %d", got, b.Len())
	}
}

func TestWalkBackwardDepth(t *testing.T) {
	b := FromString("[x (y)] z")
	type visit struct {
		ch    byte
		depth int
	}
	var got []visit
	WalkBackward(b, 5, func(i int, ch byte, depth int) bool {
		got = append(got, visit{ch, depth})
		return true
	})
	want := []visit{{'y', 0}, {'(', -1}, {' ', -1}, {'x', -1}, {'[', -2}}
	if len(got) != len(want) {
		t.Fatalf("visited %d characters, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %q@%d, want %q@%d", i, got[i].ch, got[i].depth, want[i].ch, want[i].depth)
		}
	}
}

func TestQuoted(t *testing.T) {
	b := FromString("f {|a b|} c")
	if got := QuotedEndForward(b, 2); got != 9 {
		t.Errorf("QuotedEndForward = %d, want 9", got)
	}
	if got := QuotedStartBackward(b, 9); got != 2 {
		t.Errorf("QuotedStartBackward = %d, want 2", got)
	}
	if got := QuotedEndForward(b, 0); got != -1 {
		t.Errorf("QuotedEndForward(0) = %d, want -1", got)
	}
}

func TestPhraseStart(t *testing.T) {
	b := FromString("a : T.\nb : M.T.")
	if got := PhraseStart(b, 8); got != 6 {
		t.Errorf("PhraseStart(8) = %d, want 6", got)
	}
	if got := PhraseStart(b, 2); got != 0 {
		t.Errorf("PhraseStart(2) = %d, want 0", got)
	}
	if got := PhraseStart(b, b.Len()); got != b.Len() {
		t.Errorf("PhraseStart(end) = %d, want %d", got, b.Len())
	}
}
