package sourcemap

import "testing"

func TestPosition(t *testing.T) {
	m := New("test.nr", "ab\ncd\n\nef")
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the newline itself
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3}, // EOF offset is valid
	}
	for _, tt := range tests {
		p := m.Position(tt.offset)
		if p.Line != tt.line || p.Column != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, p.Line, p.Column, tt.line, tt.col)
		}
	}
}

func TestMerge(t *testing.T) {
	got := Merge(Span{Start: 5, End: 9}, Span{Start: 2, End: 7})
	if got.Start != 2 || got.End != 9 {
		t.Errorf("Merge = %+v, want {2 9}", got)
	}
}

func TestFormat(t *testing.T) {
	m := New("main.nr", "fn main() {}\n")
	if got := m.Format(Span{Start: 3, End: 7}); got != "main.nr:1:4" {
		t.Errorf("Format = %q", got)
	}
}
