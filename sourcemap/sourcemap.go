// Package sourcemap maps byte offsets in a source buffer to line/column
// positions and merges spans produced by later compiler stages.
package sourcemap

import "fmt"

// Span is a half-open byte range [Start, End) into a single source buffer.
type Span struct {
	Start int
	End   int
}

// Merge returns the smallest span covering both a and b.
func Merge(a, b Span) Span {
	s := Span{Start: a.Start, End: a.End}
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	return s
}

// Position is a 1-indexed line/column pair.
type Position struct {
	Line   int
	Column int
}

// Map resolves byte offsets into a source buffer to line/column positions.
// It is built once per compilation and scoped to that single invocation —
// there is no process-wide instance.
type Map struct {
	name       string
	text       string
	lineStarts []int // byte offset of the first byte of each line
}

// New builds a Map over the given source text, identified by name (typically
// the source file path) for diagnostic rendering.
func New(name, text string) *Map {
	m := &Map{name: name, text: text, lineStarts: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			m.lineStarts = append(m.lineStarts, i+1)
		}
	}
	return m
}

// Name returns the source identifier this map was built for.
func (m *Map) Name() string { return m.name }

// Len returns the length of the underlying source buffer.
func (m *Map) Len() int { return len(m.text) }

// Text returns the substring covered by span.
func (m *Map) Text(span Span) string {
	return m.text[span.Start:span.End]
}

// Position returns the line/column for a byte offset, binary-searching the
// cached line-start table. offset == len(text) (EOF) is valid.
func (m *Map) Position(offset int) Position {
	lo, hi := 0, len(m.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	col := offset - m.lineStarts[line]
	return Position{Line: line + 1, Column: col + 1}
}

// Format renders "name:line:col" for a span's start, the form diagnostics use.
func (m *Map) Format(span Span) string {
	p := m.Position(span.Start)
	return fmt.Sprintf("%s:%d:%d", m.name, p.Line, p.Column)
}
