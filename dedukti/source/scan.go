package source

// Comment delimiters. Comments nest.
const (
	CommentOpen  = "(;"
	CommentClose = ";)"
)

func IsSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func IsIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
		ch == '_' || ch >= 0x80
}

func IsIdentChar(ch byte) bool {
	return IsIdentStart(ch) || ch == '!' || ch == '?' || ch == '\''
}

func IsOpener(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

func IsCloser(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}

// IsTerminator reports whether the byte at i is a phrase-terminating dot: a
// dot that does not introduce the next component of a qualified identifier.
func IsTerminator(b *Buffer, i int) bool {
	return b.At(i) == '.' && !IsIdentStart(b.At(i+1))
}

// CommentEndForward returns the offset just past the comment that opens at i,
// or -1 if no comment opens there. Unterminated comments run to the end.
func CommentEndForward(b *Buffer, i int) int {
	if !b.HasPrefixAt(i, CommentOpen) {
		return -1
	}
	depth := 0
	for j := i; j < b.Len(); {
		switch {
		case b.HasPrefixAt(j, CommentOpen):
			depth++
			j += 2
		case b.HasPrefixAt(j, CommentClose):
			depth--
			j += 2
			if depth == 0 {
				return j
			}
		default:
			j++
		}
	}
	return b.Len()
}

// CommentStartBackward returns the offset of the comment opener matching a
// comment closer that ends at i, or -1 if no comment ends there.
func CommentStartBackward(b *Buffer, i int) int {
	if !b.HasSuffixAt(i, CommentClose) {
		return -1
	}
	depth := 0
	for j := i; j > 0; {
		switch {
		case b.HasSuffixAt(j, CommentClose):
			depth++
			j -= 2
		case b.HasSuffixAt(j, CommentOpen):
			depth--
			j -= 2
			if depth == 0 {
				return j
			}
		default:
			j--
		}
	}
	return 0
}

// QuotedEndForward returns the offset past a {|quoted identifier|} starting at i, or -1.
func QuotedEndForward(b *Buffer, i int) int {
	if !b.HasPrefixAt(i, "{|") {
		return -1
	}
	for j := i + 2; j < b.Len(); j++ {
		if b.HasPrefixAt(j, "|}") {
			return j + 2
		}
	}
	return -1
}

// QuotedStartBackward returns the start of a {|quoted identifier|} ending at i, or -1.
func QuotedStartBackward(b *Buffer, i int) int {
	if !b.HasSuffixAt(i, "|}") {
		return -1
	}
	for j := i - 2; j >= 2; j-- {
		if b.HasSuffixAt(j, "{|") {
			return j - 2
		}
	}
	return -1
}

// SkipSpaceForward skips whitespace and comments starting at offset.
func SkipSpaceForward(b *Buffer, offset int) int {
	i := b.Clamp(offset)
	for i < b.Len() {
		if IsSpace(b.At(i)) {
			i++
			continue
		}
		if end := CommentEndForward(b, i); end >= 0 {
			i = end
			continue
		}
		break
	}
	return i
}

// SkipSpaceBackward skips whitespace and comments ending at offset.
func SkipSpaceBackward(b *Buffer, offset int) int {
	i := b.Clamp(offset)
	for i > 0 {
		if IsSpace(b.At(i - 1)) {
			i--
			continue
		}
		if start := CommentStartBackward(b, i); start >= 0 {
			i = start
			continue
		}
		break
	}
	return i
}

// InComment returns the span of the innermost comment containing offset.
// An unterminated comment extends to the end of the buffer.
func InComment(b *Buffer, offset int) (Span, bool) {
	var open []int
	best := Span{Start: -1, End: -1}
	for i := 0; i < b.Len(); {
		if b.HasPrefixAt(i, CommentOpen) {
			open = append(open, i)
			i += 2
			continue
		}
		if len(open) > 0 && b.HasPrefixAt(i, CommentClose) {
			start := open[len(open)-1]
			open = open[:len(open)-1]
			i += 2
			if start <= offset && offset <= i && start > best.Start {
				best = Span{Start: start, End: i}
			}
			continue
		}
		if len(open) == 0 && i > offset {
			break
		}
		i++
	}
	for _, start := range open {
		if start <= offset && start > best.Start {
			best = Span{Start: start, End: b.Len()}
		}
	}
	return best, best.Start >= 0
}

// Visitor is called by the walkers for every significant character. depth is
// the bracket depth relative to the starting offset, measured outside of the
// visited character: a matched pair of brackets is visited at the depth of the
// text around it, and an unmatched opener (walking backward) or closer
// (walking forward) is visited at depth -1. Returning false stops the walk.
type Visitor func(i int, ch byte, depth int) bool

// WalkBackward visits the characters before offset from right to left,
// skipping comments. Quoted identifiers are visited once, at their first
// byte, as the identifier character '_'.
func WalkBackward(b *Buffer, offset int, visit Visitor) {
	depth := 0
	for i := b.Clamp(offset); i > 0; {
		if start := CommentStartBackward(b, i); start >= 0 {
			i = start
			continue
		}
		if start := QuotedStartBackward(b, i); start >= 0 {
			if !visit(start, '_', depth) {
				return
			}
			i = start
			continue
		}
		i--
		ch := b.At(i)
		switch {
		case IsCloser(ch):
			if !visit(i, ch, depth) {
				return
			}
			depth++
		case IsOpener(ch):
			depth--
			if !visit(i, ch, depth) {
				return
			}
		default:
			if !visit(i, ch, depth) {
				return
			}
		}
	}
}

// WalkForward visits the characters from offset to the end of the buffer,
// skipping comments. Quoted identifiers are visited once, at their first byte.
func WalkForward(b *Buffer, offset int, visit Visitor) {
	depth := 0
	for i := b.Clamp(offset); i < b.Len(); {
		if end := CommentEndForward(b, i); end >= 0 {
			i = end
			continue
		}
		if end := QuotedEndForward(b, i); end >= 0 {
			if !visit(i, '_', depth) {
				return
			}
			i = end
			continue
		}
		ch := b.At(i)
		switch {
		case IsOpener(ch):
			if !visit(i, ch, depth) {
				return
			}
			depth++
		case IsCloser(ch):
			depth--
			if !visit(i, ch, depth) {
				return
			}
		default:
			if !visit(i, ch, depth) {
				return
			}
		}
		i++
	}
}

// MatchForward returns the offset just past the closer matching the opener at
// i. Unbalanced text runs to the end of the buffer.
func MatchForward(b *Buffer, i int) int {
	end := b.Len()
	WalkForward(b, i+1, func(j int, ch byte, depth int) bool {
		if depth < 0 {
			end = j + 1
			return false
		}
		return true
	})
	return end
}

// MatchBackward returns the offset of the opener matching the closer that
// ends at i. Unbalanced text runs to the start of the buffer.
func MatchBackward(b *Buffer, i int) int {
	start := 0
	WalkBackward(b, i-1, func(j int, ch byte, depth int) bool {
		if depth < 0 {
			start = j
			return false
		}
		return true
	})
	return start
}

// PhraseStart returns the offset just after the phrase terminator that
// precedes offset, or 0 when the phrase is the first one in the buffer.
func PhraseStart(b *Buffer, offset int) int {
	start := 0
	WalkBackward(b, offset, func(i int, ch byte, depth int) bool {
		if ch == '.' && IsTerminator(b, i) {
			start = i + 1
			return false
		}
		return true
	})
	return start
}
