// Package lexer scans NEURO source text into a token stream.
//
// Scanning is single-pass and greedy, with a longest-match scan loop that
// tracks only the byte offset (line/column positions are derived later by
// the sourcemap package), generalized from a DFA-combinator-driven
// generic grammar to the closed, hand-written NEURO lexeme set.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"

	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/sourcemap"
	"github.com/neuro-lang/neuroc/token"
)

// maxBlockCommentDepth bounds nested block comments, mirroring the parser's
// MaxNestingDepth guard so pathological input can never recurse unbounded.
const maxBlockCommentDepth = 256

// Lexer scans one source buffer into tokens.
type Lexer struct {
	src    string
	offset int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize scans the full input and returns every token including EOF, or
// the first fatal lexical diagnostic encountered.
func Tokenize(src string) ([]token.Token, *diag.Diagnostic) {
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

// FilterTrivia drops Newline tokens, which carry no grammar role once
// comments have already terminated at scan time.
func FilterTrivia(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.Newline {
			out = append(out, t)
		}
	}
	return out
}

func (l *Lexer) fatal(code, msg string, span sourcemap.Span, notes ...string) (token.Token, *diag.Diagnostic) {
	return token.Token{}, &diag.Diagnostic{
		Severity: diag.Error,
		Message:  msg,
		Span:     &span,
		Code:     code,
		Notes:    notes,
	}
}

func (l *Lexer) peekByte() (byte, bool) {
	if l.offset >= len(l.src) {
		return 0, false
	}
	return l.src[l.offset], true
}

func (l *Lexer) peekByteAt(n int) (byte, bool) {
	if l.offset+n >= len(l.src) {
		return 0, false
	}
	return l.src[l.offset+n], true
}

func (l *Lexer) peekRune() (rune, int) {
	if l.offset >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.src[l.offset:])
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// identContinue covers the XID_Continue-style tail set: letters, marks,
// decimal digits, and connector punctuation, merged into one range table.
var identContinue = rangetable.Merge(unicode.L, unicode.Nl, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.Is(identContinue, r)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// next scans and returns the next token, including EOF at end of input.
func (l *Lexer) next() (token.Token, *diag.Diagnostic) {
	for {
		b, ok := l.peekByte()
		if !ok {
			return token.Token{Kind: token.EOF, Span: sourcemap.Span{Start: l.offset, End: l.offset}}, nil
		}

		switch {
		case b == ' ' || b == '\t' || b == '\r':
			l.offset++
			continue
		case b == '\n':
			start := l.offset
			l.offset++
			return token.Token{Kind: token.Newline, Text: "\n", Span: sourcemap.Span{Start: start, End: l.offset}}, nil
		case b == '/' && l.peekEq(1, '/'):
			l.skipLineComment()
			continue
		case b == '/' && l.peekEq(1, '*'):
			if d := l.skipBlockComment(); d != nil {
				return token.Token{}, d
			}
			continue
		}

		return l.scanToken()
	}
}

func (l *Lexer) peekEq(n int, want byte) bool {
	b, ok := l.peekByteAt(n)
	return ok && b == want
}

func (l *Lexer) skipLineComment() {
	for {
		b, ok := l.peekByte()
		if !ok || b == '\n' {
			return
		}
		l.offset++
	}
}

// skipBlockComment consumes a /* ... */ comment, including nested ones —
// each inner "/*" must be matched by its own "*/" before the outer
// terminator closes the comment.
func (l *Lexer) skipBlockComment() *diag.Diagnostic {
	start := l.offset
	l.offset += 2 // consume "/*"
	depth := 1
	for depth > 0 {
		b, ok := l.peekByte()
		if !ok {
			span := sourcemap.Span{Start: start, End: start + 2}
			return &diag.Diagnostic{
				Severity: diag.Error,
				Message:  "unterminated block comment",
				Span:     &span,
				Code:     diag.CodeLex + "001",
			}
		}
		switch {
		case b == '/' && l.peekEq(1, '*'):
			depth++
			if depth > maxBlockCommentDepth {
				span := sourcemap.Span{Start: start, End: l.offset}
				return &diag.Diagnostic{
					Severity: diag.Error,
					Message:  "block comment nesting exceeds maximum depth",
					Span:     &span,
					Code:     diag.CodeLex + "002",
				}
			}
			l.offset += 2
		case b == '*' && l.peekEq(1, '/'):
			depth--
			l.offset += 2
		default:
			l.offset++
		}
	}
	return nil
}

var operators = []struct {
	text string
	kind token.Kind
}{
	// longest-match first
	{"->", token.Arrow},
	{"::", token.ColonColon},
	{"==", token.EqEq},
	{"!=", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"..", token.DotDot},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"<", token.Lt},
	{">", token.Gt},
	{"!", token.Bang},
	{"=", token.Assign},
	{":", token.Colon},
	{",", token.Comma},
	{";", token.Semi},
	{".", token.Dot},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
}

func (l *Lexer) scanToken() (token.Token, *diag.Diagnostic) {
	start := l.offset
	r, size := l.peekRune()

	switch {
	case isIdentStart(r):
		return l.scanIdent(start), nil
	case isDigit(l.src[l.offset]):
		return l.scanNumber(start)
	case l.src[l.offset] == '"':
		return l.scanString(start)
	}

	for _, op := range operators {
		if strings.HasPrefix(l.src[l.offset:], op.text) {
			l.offset += len(op.text)
			return token.Token{Kind: op.kind, Text: op.text, Span: sourcemap.Span{Start: start, End: l.offset}}, nil
		}
	}

	l.offset += size
	span := sourcemap.Span{Start: start, End: l.offset}
	return token.Token{Kind: token.Unknown, Text: string(r), Span: span}, nil
}

func (l *Lexer) scanIdent(start int) token.Token {
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentContinue(r) {
			break
		}
		l.offset += size
	}
	text := l.src[start:l.offset]
	span := sourcemap.Span{Start: start, End: l.offset}
	if kind, ok := token.Lookup(text); ok {
		return token.Token{Kind: kind, Text: text, Span: span}
	}
	return token.Token{Kind: token.Ident, Text: text, Span: span}
}

// scanNumber scans an integer literal, or a float literal if a '.' is
// followed by at least one digit (otherwise the '.' is left for the
// operator scanner, since it is the member-access/range operator).
func (l *Lexer) scanNumber(start int) (token.Token, *diag.Diagnostic) {
	for {
		b, ok := l.peekByte()
		if !ok || !isDigit(b) {
			break
		}
		l.offset++
	}

	if b, ok := l.peekByte(); ok && b == '.' {
		if next, ok := l.peekByteAt(1); ok && isDigit(next) {
			l.offset++ // consume '.'
			for {
				b, ok := l.peekByte()
				if !ok || !isDigit(b) {
					break
				}
				l.offset++
			}
			span := sourcemap.Span{Start: start, End: l.offset}
			return token.Token{Kind: token.FloatLit, Text: l.src[start:l.offset], Span: span}, nil
		}
	}

	span := sourcemap.Span{Start: start, End: l.offset}
	return token.Token{Kind: token.IntLit, Text: l.src[start:l.offset], Span: span}, nil
}

func (l *Lexer) scanString(start int) (token.Token, *diag.Diagnostic) {
	l.offset++ // consume opening quote
	var sb strings.Builder
	for {
		b, ok := l.peekByte()
		if !ok {
			span := sourcemap.Span{Start: start, End: l.offset}
			return token.Token{}, &diag.Diagnostic{
				Severity: diag.Error,
				Message:  "unterminated string literal",
				Span:     &span,
				Code:     diag.CodeLex + "003",
			}
		}
		if b == '"' {
			l.offset++
			break
		}
		if b == '\\' {
			escStart := l.offset
			l.offset++
			e, ok := l.peekByte()
			if !ok {
				span := sourcemap.Span{Start: start, End: l.offset}
				return token.Token{}, &diag.Diagnostic{
					Severity: diag.Error,
					Message:  "unterminated string literal",
					Span:     &span,
					Code:     diag.CodeLex + "003",
				}
			}
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			default:
				span := sourcemap.Span{Start: escStart, End: l.offset + 1}
				return token.Token{}, &diag.Diagnostic{
					Severity: diag.Error,
					Message:  fmt.Sprintf("invalid escape sequence '\\%c'", e),
					Span:     &span,
					Code:     diag.CodeLex + "004",
				}
			}
			l.offset++
			continue
		}
		sb.WriteByte(b)
		l.offset++
	}
	span := sourcemap.Span{Start: start, End: l.offset}
	return token.Token{Kind: token.StringLit, Text: sb.String(), Span: span}, nil
}
