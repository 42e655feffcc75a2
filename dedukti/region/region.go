// Package region classifies a cursor offset into the syntactic region that
// decides how ambiguous symbols are tokenized.
//
// Classification depends only on the raw text before the offset. It never
// consults lexer state, so it can be recomputed at any offset.
package region

import (
	"github.com/dhamidi/dkmode/dedukti/source"
)

type Region int

const (
	// Other is the fall-through region, e.g. the inside of a term.
	Other Region = iota
	// Prelude is a line whose first non-blank character is '#'.
	Prelude
	// Context is a variable position in the bracketed context of a rewrite rule.
	Context
	// Opaque is the inside of a {braced} dot-pattern block.
	Opaque
	// Top is the part of a phrase before its first defining colon.
	Top
)

var regionNames = map[Region]string{
	Other:   "Other",
	Prelude: "Prelude",
	Context: "Context",
	Opaque:  "Opaque",
	Top:     "Top",
}

func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Func is the signature of a classifier. The lexer takes one as a dependency.
type Func func(b *source.Buffer, offset int) Region

// Classify returns the region of offset. The first matching rule wins:
// Prelude, Context, Opaque, Top, then Other.
func Classify(b *source.Buffer, offset int) Region {
	offset = b.Clamp(offset)
	switch {
	case inPrelude(b, offset):
		return Prelude
	case inContext(b, offset):
		return Context
	case inOpaque(b, offset):
		return Opaque
	case inTop(b, offset):
		return Top
	}
	return Other
}

func inPrelude(b *source.Buffer, offset int) bool {
	return b.At(b.Indentation(offset)) == '#'
}

// inContext looks for the separator ('[' or ',') that starts the current
// context entry, with no colon in between. A ',' only counts when an unclosed
// '[' precedes it.
func inContext(b *source.Buffer, offset int) bool {
	found := false
	afterComma := false
	source.WalkBackward(b, offset, func(i int, ch byte, depth int) bool {
		if depth > 0 {
			return true
		}
		if depth < 0 {
			found = ch == '['
			return false
		}
		switch ch {
		case ']':
			return false
		case '.':
			return !source.IsTerminator(b, i)
		case ':':
			return afterComma
		case ',':
			afterComma = true
		}
		return true
	})
	return found
}

// inOpaque looks for an unclosed '{'. Unclosed parentheses inside the block
// are stepped over; an unclosed '[' or the phrase start ends the search.
func inOpaque(b *source.Buffer, offset int) bool {
	found := false
	level := 0
	source.WalkBackward(b, offset, func(i int, ch byte, depth int) bool {
		if depth < level {
			level = depth
			switch ch {
			case '{':
				found = true
				return false
			case '[':
				return false
			}
			return true
		}
		if depth == level && ch == '.' && source.IsTerminator(b, i) {
			return false
		}
		return true
	})
	return found
}

// inTop reports whether offset lies between the start of a phrase and its
// first defining colon, outside of any bracket.
func inTop(b *source.Buffer, offset int) bool {
	top := true
	source.WalkBackward(b, offset, func(i int, ch byte, depth int) bool {
		if depth < 0 {
			top = false
			return false
		}
		if depth > 0 {
			return true
		}
		switch ch {
		case ':', ',', '[', ']':
			top = false
			return false
		case '#':
			return false
		case '.':
			return !source.IsTerminator(b, i)
		}
		return true
	})
	return top
}
