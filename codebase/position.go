package codebase

import (
	"unicode/utf8"

	"github.com/dhamidi/dkmode/dedukti/source"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// offsetOf converts an LSP position, whose character counts UTF-16 code
// units, to a byte offset.
func offsetOf(b *source.Buffer, pos protocol.Position) int {
	line := int(pos.Line) + 1
	if line > b.LineCount() {
		return b.Len()
	}
	offset := b.Offset(line, 1)
	end := b.LineEnd(offset)
	units := int(pos.Character)
	for offset < end && units > 0 {
		r, size := utf8.DecodeRune(b.Bytes()[offset:end])
		units -= utf16Len(r)
		if units < 0 {
			break
		}
		offset += size
	}
	return offset
}

// positionOf converts a byte offset to an LSP position.
func positionOf(b *source.Buffer, offset int) protocol.Position {
	offset = b.Clamp(offset)
	p := b.Position(offset)
	start := b.LineStart(offset)
	units := 0
	for i := start; i < offset; {
		r, size := utf8.DecodeRune(b.Bytes()[i:offset])
		units += utf16Len(r)
		i += size
	}
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(units),
	}
}

func rangeOf(b *source.Buffer, span source.Span) protocol.Range {
	return protocol.Range{Start: positionOf(b, span.Start), End: positionOf(b, span.End)}
}

func spanOf(b *source.Buffer, r protocol.Range) source.Span {
	return source.Span{Start: offsetOf(b, r.Start), End: offsetOf(b, r.End)}
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
