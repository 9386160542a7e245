package lexer

import (
	"testing"

	"github.com/neuro-lang/neuroc/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Kind
	}{
		{
			name:     "empty source",
			input:    "",
			expected: []token.Kind{token.EOF},
		},
		{
			name:     "whitespace only",
			input:    "   \t\n  ",
			expected: []token.Kind{token.Newline, token.EOF},
		},
		{
			name:     "comment only",
			input:    "// hello\n/* nested /* comment */ still going */",
			expected: []token.Kind{token.Newline, token.EOF},
		},
		{
			name:     "keywords both alias families",
			input:    "fn func let val mut",
			expected: []token.Kind{token.KwFn, token.KwFn, token.KwLet, token.KwLet, token.KwMut, token.EOF},
		},
		{
			name:     "longest match operators",
			input:    "!= == <= >= && || -> :: ..",
			expected: []token.Kind{token.NotEq, token.EqEq, token.LtEq, token.GtEq, token.AndAnd, token.OrOr, token.Arrow, token.ColonColon, token.DotDot, token.EOF},
		},
		{
			name:     "bang then assign is not !=",
			input:    "! =",
			expected: []token.Kind{token.Bang, token.Assign, token.EOF},
		},
		{
			name:     "integer literal",
			input:    "42",
			expected: []token.Kind{token.IntLit, token.EOF},
		},
		{
			name:     "float literal",
			input:    "3.14",
			expected: []token.Kind{token.FloatLit, token.EOF},
		},
		{
			name:     "dot without trailing digit is operator",
			input:    "a.b",
			expected: []token.Kind{token.Ident, token.Dot, token.Ident, token.EOF},
		},
		{
			name:     "string literal with escapes",
			input:    `"hi\n\t"`,
			expected: []token.Kind{token.StringLit, token.EOF},
		},
		{
			name:     "identifier with unicode continuation",
			input:    "café",
			expected: []token.Kind{token.Ident, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := kinds(toks)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("token %d: got %v, want %v (full: %v)", i, got[i], tt.expected[i], got)
				}
			}
		})
	}
}

func TestTokenizeSpansCoverSource(t *testing.T) {
	src := "let x: i32 = 42 // trailing\n"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prevEnd := 0
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Span.Start < prevEnd {
			t.Fatalf("token span regressed: %+v after prevEnd %d", tok, prevEnd)
		}
		prevEnd = tok.Span.End
	}
	if prevEnd > len(src) {
		t.Fatalf("final span end %d exceeds source length %d", prevEnd, len(src))
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	if err == nil {
		t.Fatal("expected a lexical error")
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := Tokenize("/* never closed")
	if err == nil {
		t.Fatal("expected a lexical error")
	}
}

func TestInvalidEscape(t *testing.T) {
	_, err := Tokenize(`"bad\q"`)
	if err == nil {
		t.Fatal("expected a lexical error")
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, err := Tokenize("let x = @")
	if err != nil {
		t.Fatalf("lexer should not fail on a stray byte, got: %v", err)
	}
	found := false
	for _, tok := range toks {
		if tok.Kind == token.Unknown {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an Unknown token for '@'")
	}
}
