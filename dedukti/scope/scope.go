// Package scope reconstructs the variables bound at an offset, with the text
// of their types, from the surrounding phrase.
package scope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/source"
)

var (
	ErrMalformedContext = errors.New("malformed context")
	ErrNotRule          = errors.New("not a rewrite rule")
)

type MalformedContextError struct {
	Offset int
	Reason string
}

func (e *MalformedContextError) Error() string {
	return fmt.Sprintf("malformed context at offset %d: %s", e.Offset, e.Reason)
}

func (e *MalformedContextError) Unwrap() error {
	return ErrMalformedContext
}

// Entry is one bound variable. Offset is where its name starts.
type Entry struct {
	Name   string
	Type   string
	Offset int
}

// Context is an ordered list of entries. Shadowing names are kept.
type Context []Entry

func (c Context) Names() []string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name
	}
	return names
}

// Reversed returns a copy of c in reverse order.
func (c Context) Reversed() Context {
	out := make(Context, len(c))
	for i, e := range c {
		out[len(c)-1-i] = e
	}
	return out
}

// Scope is everything bound at an offset: the bracketed context of the
// enclosing rewrite rule in declaration order, then the local binders from
// the innermost outward.
type Scope struct {
	Rule  Context
	Local Context
}

func (s Scope) All() Context {
	all := make(Context, 0, len(s.Rule)+len(s.Local))
	all = append(all, s.Rule...)
	return append(all, s.Local...)
}

// Reconstruct computes the scope at offset inside p.
func Reconstruct(b *source.Buffer, p phrase.Phrase, offset int) (Scope, error) {
	var s Scope
	if p.Kind == phrase.Rule {
		rule, err := RuleContext(b, p)
		if err != nil {
			return s, err
		}
		s.Rule = rule
	}
	s.Local = LocalContext(b, p, offset)
	return s, nil
}

// RuleContext parses the bracketed context "[x : A, y : B]" that opens a
// rewrite rule, left to right.
func RuleContext(b *source.Buffer, p phrase.Phrase) (Context, error) {
	if p.Kind != phrase.Rule {
		return nil, fmt.Errorf("%s phrase: %w", p.Kind, ErrNotRule)
	}
	open := source.SkipSpaceForward(b, p.Span.Start)
	if b.At(open) != '[' {
		return nil, &MalformedContextError{Offset: open, Reason: "expected '['"}
	}
	closer := source.MatchForward(b, open) - 1

	var ctx Context
	i := open + 1
	for {
		name, ok := lexer.Forward(b, i)
		if name.Span.Start >= closer && len(ctx) == 0 {
			return ctx, nil
		}
		if !ok || !name.Kind.IsIdent() || name.Span.Start >= closer {
			return nil, &MalformedContextError{Offset: name.Span.Start, Reason: "expected a variable"}
		}
		colon, ok := lexer.Forward(b, name.Span.End)
		if !ok || !colon.Kind.IsColon() {
			return nil, &MalformedContextError{
				Offset: colon.Span.Start,
				Reason: fmt.Sprintf("expected ':' after %s", name.Literal),
			}
		}
		end := entryEnd(b, colon.Span.End)
		typ := strings.TrimSpace(b.Slice(colon.Span.End, end))
		if typ == "" {
			return nil, &MalformedContextError{
				Offset: colon.Span.End,
				Reason: fmt.Sprintf("missing type for %s", name.Literal),
			}
		}
		ctx = append(ctx, Entry{Name: name.Literal, Type: typ, Offset: name.Span.Start})
		if b.At(end) != ',' {
			return ctx, nil
		}
		i = end + 1
	}
}

// entryEnd returns the offset of the ',' or closing bracket that ends the
// context entry whose type starts at offset.
func entryEnd(b *source.Buffer, offset int) int {
	end := b.Len()
	source.WalkForward(b, offset, func(i int, ch byte, depth int) bool {
		if depth < 0 || (depth == 0 && ch == ',') {
			end = i
			return false
		}
		return true
	})
	return end
}

// LocalContext collects the binders whose scope includes offset, innermost
// first. Binders inside parenthesised groups that close before offset are out
// of scope; parameters of a declaration are in scope for the whole phrase.
func LocalContext(b *source.Buffer, p phrase.Phrase, offset int) Context {
	offset = b.Clamp(offset)
	if offset > p.Span.End {
		offset = p.Span.End
	}

	var ctx Context
	level := 0
	source.WalkBackward(b, offset, func(i int, ch byte, depth int) bool {
		if i < p.Span.Start {
			return false
		}
		if depth < level {
			level = depth
		}
		if depth != level || ch != ':' {
			return true
		}
		if e, ok := binderAt(b, i, offset); ok {
			ctx = append(ctx, e)
		}
		return true
	})

	params := Params(b, p, offset)
	return append(ctx, params.Reversed()...)
}

// binderAt reads the binder whose colon is at i.
func binderAt(b *source.Buffer, i, limit int) (Entry, bool) {
	colon, ok := lexer.Forward(b, i)
	if !ok || colon.Span.Start != i || colon.Kind != lexer.TokenLColon {
		return Entry{}, false
	}
	name, ok := lexer.Backward(b, i)
	if !ok || !name.Kind.IsIdent() {
		return Entry{}, false
	}
	end := typeEnd(b, colon.Span.End, limit)
	return Entry{
		Name:   name.Literal,
		Type:   strings.TrimSpace(b.Slice(colon.Span.End, end)),
		Offset: name.Span.Start,
	}, true
}

// typeEnd finds where the type annotation starting at offset stops: at the
// binder's arrow, a separator, the end of the enclosing group, or limit.
func typeEnd(b *source.Buffer, offset, limit int) int {
	end := limit
	source.WalkForward(b, offset, func(i int, ch byte, depth int) bool {
		if i >= limit {
			return false
		}
		if depth < 0 {
			end = i
			return false
		}
		if depth > 0 {
			return true
		}
		switch {
		case b.HasPrefixAt(i, "-->"), b.HasPrefixAt(i, "->"), b.HasPrefixAt(i, "=>"),
			b.HasPrefixAt(i, ":="), ch == ',', ch == '.' && source.IsTerminator(b, i):
			end = i
			return false
		}
		return true
	})
	if end < offset {
		return offset
	}
	return end
}

// Params returns the parenthesised parameters "(x : A)" written before the
// defining colon of a declaration, in order, keeping only the groups that
// close before offset.
func Params(b *source.Buffer, p phrase.Phrase, offset int) Context {
	if p.Kind != phrase.Declaration && p.Kind != phrase.Definition {
		return nil
	}
	var ctx Context
	i := p.Span.Start
	for i < p.Span.End {
		tok, ok := lexer.Forward(b, i)
		switch {
		case tok.Kind == lexer.TokenNewID:
			i = tok.Span.End
			continue
		case ok || tok.Kind != lexer.TokenLParen:
			return ctx
		}
		end := source.MatchForward(b, tok.Span.Start)
		if end > offset {
			return ctx
		}
		name, _ := lexer.Forward(b, tok.Span.End)
		colon, _ := lexer.Forward(b, name.Span.End)
		if name.Kind.IsIdent() && colon.Kind == lexer.TokenLColon {
			ctx = append(ctx, Entry{
				Name:   name.Literal,
				Type:   strings.TrimSpace(b.Slice(colon.Span.End, end-1)),
				Offset: name.Span.Start,
			})
		}
		i = end
	}
	return ctx
}
