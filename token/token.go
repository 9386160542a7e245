// Package token defines the lexical token kinds and the keyword table
// shared by the lexer and parser.
package token

import "github.com/neuro-lang/neuroc/sourcemap"

// Kind identifies a token's lexical category.
type Kind int

const (
	Invalid Kind = iota
	EOF
	Newline
	Unknown // an unrecognized byte; the parser rejects it

	// Literals
	IntLit
	FloatLit
	StringLit
	True
	False

	Ident

	// Keywords
	KwFn
	KwLet
	KwMut
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwBreak
	KwContinue

	// Operators and punctuation
	Plus
	Minus
	Star
	Slash
	Percent
	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
	Bang
	Assign
	Arrow
	Colon
	ColonColon
	Comma
	Semi
	Dot
	DotDot
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "EOF",
	Newline:    "newline",
	Unknown:    "unknown",
	IntLit:     "int-literal",
	FloatLit:   "float-literal",
	StringLit:  "string-literal",
	True:       "true",
	False:      "false",
	Ident:      "identifier",
	KwFn:       "fn",
	KwLet:      "let",
	KwMut:      "mut",
	KwReturn:   "return",
	KwIf:       "if",
	KwElse:     "else",
	KwWhile:    "while",
	KwFor:      "for",
	KwIn:       "in",
	KwBreak:    "break",
	KwContinue: "continue",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	EqEq:       "==",
	NotEq:      "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	AndAnd:     "&&",
	OrOr:       "||",
	Bang:       "!",
	Assign:     "=",
	Arrow:      "->",
	Colon:      ":",
	ColonColon: "::",
	Comma:      ",",
	Semi:       ";",
	Dot:        ".",
	DotDot:     "..",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
}

// String renders a human-readable name for the kind, used in diagnostics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?"
}

// keywords maps every accepted spelling, including the fn/func and
// let/val/mut alias families, to its keyword kind.
// let and val share KwLet; mut has its own kind, KwMut, from which the
// parser reads a var_decl's mutability (all three start a var_decl).
var keywords = map[string]Kind{
	"fn":       KwFn,
	"func":     KwFn,
	"let":      KwLet,
	"val":      KwLet,
	"mut":      KwMut,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"break":    KwBreak,
	"continue": KwContinue,
	"true":     True,
	"false":    False,
}

// Lookup returns the keyword kind for text, or (Invalid, false) if text is a
// plain identifier.
func Lookup(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

// Token is one lexeme: its kind, the exact source text it was scanned from,
// and the span it occupies.
type Token struct {
	Kind Kind
	Text string
	Span sourcemap.Span
}

// IsMut reports whether the token is the mut keyword, the one spelling
// that declares a mutable variable.
func (t Token) IsMut() bool { return t.Kind == KwMut }
