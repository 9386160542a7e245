// Package ast defines the NEURO abstract syntax tree: an ordered sequence of
// top-level function items, each a tree of statements and expressions.
// Every node carries a span; the tree is immutable once the parser returns
// it (one node type per grammar production, generalized from a
// single-expression toy grammar to the full item/stmt/expr grammar the
// language defines).
package ast

import "github.com/neuro-lang/neuroc/sourcemap"

// Program is the root node: an ordered sequence of top-level items.
type Program struct {
	Items []*FuncDecl
}

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
	Span sourcemap.Span
}

// TypeExpr is a type annotation as written in source — in this subset
// always a bare identifier naming one of the closed base types.
type TypeExpr struct {
	Name string
	Span sourcemap.Span
}

// FuncDecl is the only Item variant in this subset: a function definition.
type FuncDecl struct {
	Name       string
	Params     []Param
	ReturnType *TypeExpr // nil means void
	Body       []Stmt
	Span       sourcemap.Span
}

// Stmt is the tagged-variant interface every statement node implements.
type Stmt interface {
	stmtNode()
	Pos() sourcemap.Span
}

// Expr is the tagged-variant interface every expression node implements.
type Expr interface {
	exprNode()
	Pos() sourcemap.Span
}

// VarDecl is a variable declaration: let/val/mut NAME (: TYPE)? (= EXPR)?.
type VarDecl struct {
	Name         string
	DeclaredType *TypeExpr
	Init         Expr // nil if no initializer
	Mutable      bool
	Span         sourcemap.Span
}

func (*VarDecl) stmtNode()             {}
func (s *VarDecl) Pos() sourcemap.Span { return s.Span }

// Assign is a statement-level assignment to a mutable variable.
type Assign struct {
	TargetName string
	Value      Expr
	Span       sourcemap.Span
}

func (*Assign) stmtNode()             {}
func (s *Assign) Pos() sourcemap.Span { return s.Span }

// Return is a return statement, with an optional value.
type Return struct {
	Value Expr // nil for bare "return"
	Span  sourcemap.Span
}

func (*Return) stmtNode()             {}
func (s *Return) Pos() sourcemap.Span { return s.Span }

// ElseIf is one link in an "else if" chain.
type ElseIf struct {
	Cond Expr
	Body []Stmt
}

// If is an if/else-if-chain/else statement.
type If struct {
	Cond   Expr
	Then   []Stmt
	ElseIf []ElseIf
	Else   []Stmt // nil if no final else
	Span   sourcemap.Span
}

func (*If) stmtNode()             {}
func (s *If) Pos() sourcemap.Span { return s.Span }

// While is a while loop.
type While struct {
	Cond Expr
	Body []Stmt
	Span sourcemap.Span
}

func (*While) stmtNode()             {}
func (s *While) Pos() sourcemap.Span { return s.Span }

// ForRange is a "for VAR in START..END" exclusive-range loop.
type ForRange struct {
	Var          string
	Start        Expr
	EndExclusive Expr
	Body         []Stmt
	Span         sourcemap.Span
}

func (*ForRange) stmtNode()             {}
func (s *ForRange) Pos() sourcemap.Span { return s.Span }

// Break is a break statement.
type Break struct {
	Span sourcemap.Span
}

func (*Break) stmtNode()             {}
func (s *Break) Pos() sourcemap.Span { return s.Span }

// Continue is a continue statement.
type Continue struct {
	Span sourcemap.Span
}

func (*Continue) stmtNode()             {}
func (s *Continue) Pos() sourcemap.Span { return s.Span }

// ExprStmt is an expression used as a statement. When it is the final
// element of a value-returning function's body, sema treats it as an
// implicit return.
type ExprStmt struct {
	X    Expr
	Span sourcemap.Span
}

func (*ExprStmt) stmtNode()             {}
func (s *ExprStmt) Pos() sourcemap.Span { return s.Span }

// LiteralKind distinguishes the literal expression variants.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
)

// Literal is a literal expression. Text holds the verbatim digit string for
// IntLiteral/FloatLiteral (the concrete width is resolved during sema's
// inference pass); StringValue and BoolValue hold the decoded value directly
// since the lexer already decodes string escapes and booleans have no
// further parsing.
type Literal struct {
	Kind        LiteralKind
	Text        string
	StringValue string
	BoolValue   bool
	Span        sourcemap.Span
}

func (*Literal) exprNode()             {}
func (e *Literal) Pos() sourcemap.Span { return e.Span }

// Ident is an identifier reference.
type Ident struct {
	Name string
	Span sourcemap.Span
}

func (*Ident) exprNode()             {}
func (e *Ident) Pos() sourcemap.Span { return e.Span }

// UnaryOp identifies a prefix unary operator.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

// Unary is a prefix unary expression.
type Unary struct {
	Op   UnaryOp
	X    Expr
	Span sourcemap.Span
}

func (*Unary) exprNode()             {}
func (e *Unary) Pos() sourcemap.Span { return e.Span }

// BinaryOp identifies one of the 13 binary operators the grammar names.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	Eq
	NotEqOp
	Less
	LessEq
	Greater
	GreaterEq
	And
	Or
)

// Binary is a binary expression.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Span  sourcemap.Span
}

func (*Binary) exprNode()             {}
func (e *Binary) Pos() sourcemap.Span { return e.Span }

// Call is a function call expression.
type Call struct {
	Callee string
	Args   []Expr
	Span   sourcemap.Span
}

func (*Call) exprNode()             {}
func (e *Call) Pos() sourcemap.Span { return e.Span }

// Paren is a parenthesized expression, kept as a distinct node so
// round-tripping through a pretty-printer preserves grouping.
type Paren struct {
	X    Expr
	Span sourcemap.Span
}

func (*Paren) exprNode()             {}
func (e *Paren) Pos() sourcemap.Span { return e.Span }
