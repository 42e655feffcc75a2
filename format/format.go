// Package format renders the results of analysing a Dedukti buffer, either as
// tab-separated lines for terminals and editors or as JSON for tools.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/region"
	"github.com/dhamidi/dkmode/dedukti/scope"
	"github.com/dhamidi/dkmode/dedukti/source"
)

// Analysis collects what is known about a buffer, usually at one offset.
// Only the fields that are set are rendered.
type Analysis struct {
	Buffer *source.Buffer
	Offset int

	Region *region.Region
	Token  *lexer.Token
	Phrase *phrase.Phrase
	Scope  *scope.Scope
	// Err is why the phrase or scope could not be computed.
	Err error

	Tokens  []lexer.Token
	Phrases []phrase.Phrase
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(a *Analysis) error
}

// New returns the encoder registered under name: "text" or "json".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "text":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want text or json)", name)
}

// Analyze classifies offset, finds the token under it, the enclosing phrase
// and the variables in scope.
func Analyze(b *source.Buffer, offset int) *Analysis {
	offset = b.Clamp(offset)
	r := region.Classify(b, offset)
	a := &Analysis{Buffer: b, Offset: offset, Region: &r}
	if tok, ok := lexer.At(b, offset); ok {
		a.Token = &tok
	}
	p, err := phrase.At(b, offset)
	if err != nil {
		a.Err = err
		return a
	}
	a.Phrase = &p
	if p.Kind == phrase.Comment || p.Kind == phrase.Pragma {
		return a
	}
	s, err := scope.Reconstruct(b, p, offset)
	if err != nil {
		a.Err = err
		return a
	}
	a.Scope = &s
	return a
}
