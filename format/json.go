package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/scope"
	"github.com/dhamidi/dkmode/dedukti/source"
)

type JSONEncoder struct {
	w io.Writer
	a *Analysis
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(a *Analysis) error {
	e.a = a
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildAnalysis(), "", "  ")
}

type jsonAnalysis struct {
	File     string        `json:"file,omitempty"`
	Position *jsonPosition `json:"position,omitempty"`
	Region   string        `json:"region,omitempty"`
	Token    *jsonToken    `json:"token,omitempty"`
	Phrase   *jsonPhrase   `json:"phrase,omitempty"`
	Rule     []jsonEntry   `json:"rule,omitempty"`
	Local    []jsonEntry   `json:"local,omitempty"`
	Error    string        `json:"error,omitempty"`
	Tokens   []jsonToken   `json:"tokens,omitempty"`
	Phrases  []jsonPhrase  `json:"phrases,omitempty"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonToken struct {
	Kind    string   `json:"kind"`
	Literal string   `json:"literal"`
	Span    jsonSpan `json:"span"`
}

type jsonPhrase struct {
	Kind string   `json:"kind"`
	Span jsonSpan `json:"span"`
}

type jsonEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (e *JSONEncoder) buildAnalysis() jsonAnalysis {
	a := e.a
	b := a.Buffer
	data := jsonAnalysis{File: b.File()}

	if a.Region != nil {
		p := position(b, a.Offset)
		data.Position = &p
		data.Region = a.Region.String()
	}
	if a.Token != nil {
		tok := token(b, *a.Token)
		data.Token = &tok
	}
	if a.Phrase != nil {
		data.Phrase = &jsonPhrase{Kind: a.Phrase.Kind.String(), Span: span(b, a.Phrase.Span)}
	}
	if a.Scope != nil {
		data.Rule = entries(a.Scope.Rule)
		data.Local = entries(a.Scope.Local)
	}
	if a.Err != nil {
		data.Error = a.Err.Error()
	}
	for _, tok := range a.Tokens {
		data.Tokens = append(data.Tokens, token(b, tok))
	}
	for _, p := range a.Phrases {
		data.Phrases = append(data.Phrases, jsonPhrase{Kind: p.Kind.String(), Span: span(b, p.Span)})
	}
	return data
}

func position(b *source.Buffer, offset int) jsonPosition {
	p := b.Position(offset)
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func span(b *source.Buffer, s source.Span) jsonSpan {
	return jsonSpan{Start: position(b, s.Start), End: position(b, s.End)}
}

func token(b *source.Buffer, tok lexer.Token) jsonToken {
	return jsonToken{Kind: tok.Kind.String(), Literal: tok.Literal, Span: span(b, tok.Span)}
}

func entries(ctx scope.Context) []jsonEntry {
	if len(ctx) == 0 {
		return nil
	}
	out := make([]jsonEntry, len(ctx))
	for i, e := range ctx {
		out[i] = jsonEntry{Name: e.Name, Type: e.Type}
	}
	return out
}
