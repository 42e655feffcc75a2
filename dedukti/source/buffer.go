// Package source holds the read-only text model shared by the Dedukti analyzers.
//
// A Buffer is a snapshot of the text being edited. Every analysis in dkmode is a
// pure function of a Buffer and a byte offset; nothing is cached between calls,
// so spans computed from one Buffer are only meaningful for that snapshot.
package source

import "sort"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

type Buffer struct {
	file  string
	text  []byte
	lines []int
}

func New(text []byte, file string) *Buffer {
	b := &Buffer{file: file, text: text, lines: []int{0}}
	for i, ch := range text {
		if ch == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}
	return b
}

func FromString(text string) *Buffer {
	return New([]byte(text), "")
}

func (b *Buffer) File() string {
	return b.file
}

func (b *Buffer) Len() int {
	return len(b.text)
}

func (b *Buffer) Bytes() []byte {
	return b.text
}

func (b *Buffer) String() string {
	return string(b.text)
}

// At returns the byte at i, or 0 outside the buffer.
func (b *Buffer) At(i int) byte {
	if i < 0 || i >= len(b.text) {
		return 0
	}
	return b.text[i]
}

func (b *Buffer) Clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.text) {
		return len(b.text)
	}
	return offset
}

// Slice returns the text in [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end int) string {
	start, end = b.Clamp(start), b.Clamp(end)
	if end <= start {
		return ""
	}
	return string(b.text[start:end])
}

func (b *Buffer) Text(span Span) string {
	return b.Slice(span.Start, span.End)
}

// HasPrefixAt reports whether s occurs at offset i.
func (b *Buffer) HasPrefixAt(i int, s string) bool {
	if i < 0 || i+len(s) > len(b.text) {
		return false
	}
	return string(b.text[i:i+len(s)]) == s
}

// HasSuffixAt reports whether s ends exactly at offset i.
func (b *Buffer) HasSuffixAt(i int, s string) bool {
	return b.HasPrefixAt(i-len(s), s)
}

func (b *Buffer) LineStart(offset int) int {
	return b.lines[b.lineIndex(offset)]
}

func (b *Buffer) LineEnd(offset int) int {
	idx := b.lineIndex(offset)
	if idx+1 < len(b.lines) {
		return b.lines[idx+1] - 1
	}
	return len(b.text)
}

// Indentation returns the offset of the first non-blank character of the line
// containing offset, or the line end if the line is blank.
func (b *Buffer) Indentation(offset int) int {
	i := b.LineStart(offset)
	end := b.LineEnd(offset)
	for i < end && (b.text[i] == ' ' || b.text[i] == '\t') {
		i++
	}
	return i
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

func (b *Buffer) lineIndex(offset int) int {
	offset = b.Clamp(offset)
	return sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > offset }) - 1
}

// Position converts a byte offset to a 1-based line and column (in bytes).
func (b *Buffer) Position(offset int) Position {
	offset = b.Clamp(offset)
	idx := b.lineIndex(offset)
	return Position{
		File:   b.file,
		Offset: offset,
		Line:   idx + 1,
		Column: offset - b.lines[idx] + 1,
	}
}

// Offset converts a 1-based line and column back to a byte offset, clamping
// columns past the end of the line.
func (b *Buffer) Offset(line, column int) int {
	if line < 1 {
		return 0
	}
	if line > len(b.lines) {
		return len(b.text)
	}
	start := b.lines[line-1]
	end := len(b.text)
	if line < len(b.lines) {
		end = b.lines[line] - 1
	}
	off := start + column - 1
	if off < start {
		return start
	}
	if off > end {
		return end
	}
	return off
}

// Column returns the 0-based byte column of offset within its line.
func (b *Buffer) Column(offset int) int {
	offset = b.Clamp(offset)
	return offset - b.LineStart(offset)
}
