// Package phrase finds the top-level phrase that encloses an offset without
// parsing the rest of the buffer.
package phrase

import (
	"errors"
	"fmt"

	"github.com/dhamidi/dkmode/dedukti/source"
)

var ErrNoEnclosingPhrase = errors.New("no enclosing phrase")

type Kind int

const (
	Comment Kind = iota
	Pragma
	Rule
	Declaration
	Definition
)

var kindNames = map[Kind]string{
	Comment:     "Comment",
	Pragma:      "Pragma",
	Rule:        "Rule",
	Declaration: "Declaration",
	Definition:  "Definition",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Phrase struct {
	Kind Kind
	Span source.Span
}

// At returns the phrase enclosing offset. Comments, pragmas, rewrite rules
// and declarations are tried in that order; the first whose span reaches
// offset wins.
func At(b *source.Buffer, offset int) (Phrase, error) {
	offset = b.Clamp(offset)
	if span, ok := source.InComment(b, offset); ok && span.End >= offset {
		return Phrase{Kind: Comment, Span: span}, nil
	}
	if p, ok := pragmaAt(b, offset); ok && p.Span.End > offset {
		return p, nil
	}
	if p, ok := ruleAt(b, offset); ok && p.Span.End > offset {
		return p, nil
	}
	if p, ok := declarationAt(b, offset); ok && p.Span.End > offset {
		return p, nil
	}
	return Phrase{}, fmt.Errorf("offset %d: %w", offset, ErrNoEnclosingPhrase)
}

// All segments the buffer into consecutive phrases, stopping at the first
// stretch of text that does not form one.
func All(b *source.Buffer) []Phrase {
	var phrases []Phrase
	i := 0
	for i < b.Len() {
		for i < b.Len() && source.IsSpace(b.At(i)) {
			i++
		}
		if i >= b.Len() {
			break
		}
		p, err := At(b, i)
		if err != nil || p.Span.End <= i {
			break
		}
		if p.Span.Start < i {
			p.Span.Start = i
		}
		phrases = append(phrases, p)
		i = p.Span.End
	}
	return phrases
}

func pragmaAt(b *source.Buffer, offset int) (Phrase, bool) {
	start := b.Indentation(offset)
	if b.At(start) != '#' {
		return Phrase{}, false
	}
	return Phrase{Kind: Pragma, Span: source.Span{Start: start, End: b.LineEnd(offset)}}, true
}

// ruleAt finds the nearest '[' before offset and extends the rule through its
// '-->' and right-hand side. The right-hand side ends at the terminating dot
// or where the next rule of the same phrase begins.
func ruleAt(b *source.Buffer, offset int) (Phrase, bool) {
	from := offset
	if b.At(offset) == '[' {
		from = offset + 1
	}
	open := -1
	source.WalkBackward(b, from, func(i int, ch byte, depth int) bool {
		if depth > 0 {
			return true
		}
		if ch == '.' && source.IsTerminator(b, i) {
			return false
		}
		if ch == '[' {
			open = i
			return false
		}
		return true
	})
	if open < 0 {
		return Phrase{}, false
	}

	arrow := -1
	source.WalkForward(b, source.MatchForward(b, open), func(i int, ch byte, depth int) bool {
		if depth < 0 {
			return false
		}
		if depth > 0 {
			return true
		}
		switch {
		case b.HasPrefixAt(i, "-->"):
			arrow = i
			return false
		case ch == '[', ch == '.' && source.IsTerminator(b, i):
			return false
		}
		return true
	})
	if arrow < 0 {
		return Phrase{}, false
	}

	end := b.Len()
	source.WalkForward(b, arrow+3, func(i int, ch byte, depth int) bool {
		switch {
		case depth < 0:
			end = i
		case depth > 0:
			return true
		case ch == '.' && source.IsTerminator(b, i):
			end = i + 1
		case ch == '[':
			end = source.SkipSpaceBackward(b, i)
		default:
			return true
		}
		return false
	})
	return Phrase{Kind: Rule, Span: source.Span{Start: open, End: end}}, true
}

// declarationAt spans from the first token after the previous phrase
// terminator to the next terminator at bracket depth zero.
func declarationAt(b *source.Buffer, offset int) (Phrase, bool) {
	start := source.SkipSpaceForward(b, source.PhraseStart(b, offset))
	end := -1
	defines := false
	source.WalkForward(b, start, func(i int, ch byte, depth int) bool {
		if depth > 0 {
			return true
		}
		switch {
		case b.HasPrefixAt(i, ":="):
			defines = true
		case ch == '.' && source.IsTerminator(b, i):
			end = i + 1
			return false
		}
		return true
	})
	if end < 0 {
		return Phrase{}, false
	}
	kind := Declaration
	if defines {
		kind = Definition
	}
	return Phrase{Kind: kind, Span: source.Span{Start: start, End: end}}, true
}
