package ast

import (
	"fmt"
	"strings"
)

// Print renders prog as source text that parses back to a structurally
// equal tree (spans aside). It is the `parse --format pretty` output and
// the round-trip half of the printer/parser pair.
func Print(prog *Program) string {
	var p printer
	for i, fn := range prog.Items {
		if i > 0 {
			p.b.WriteString("\n")
		}
		p.printFunc(fn)
	}
	return p.b.String()
}

// PrintExpr renders one expression as source text.
func PrintExpr(e Expr) string {
	var p printer
	p.printExpr(e)
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteString("\n")
}

func (p *printer) printFunc(fn *FuncDecl) {
	params := make([]string, len(fn.Params))
	for i, prm := range fn.Params {
		params[i] = prm.Name + ": " + prm.Type.Name
	}
	sig := fmt.Sprintf("fn %s(%s)", fn.Name, strings.Join(params, ", "))
	if fn.ReturnType != nil {
		sig += " -> " + fn.ReturnType.Name
	}
	p.line("%s {", sig)
	p.indent++
	for _, s := range fn.Body {
		p.printStmt(s)
	}
	p.indent--
	p.line("}")
}

func (p *printer) printBlock(stmts []Stmt) {
	p.indent++
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.indent--
}

func (p *printer) printStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *VarDecl:
		kw := "let"
		if s.Mutable {
			kw = "mut"
		}
		decl := kw + " " + s.Name
		if s.DeclaredType != nil {
			decl += ": " + s.DeclaredType.Name
		}
		if s.Init != nil {
			decl += " = " + PrintExpr(s.Init)
		}
		p.line("%s", decl)
	case *Assign:
		p.line("%s = %s", s.TargetName, PrintExpr(s.Value))
	case *Return:
		if s.Value == nil {
			p.line("return")
		} else {
			p.line("return %s", PrintExpr(s.Value))
		}
	case *If:
		p.line("if %s {", PrintExpr(s.Cond))
		p.printBlock(s.Then)
		for _, ei := range s.ElseIf {
			p.line("} else if %s {", PrintExpr(ei.Cond))
			p.printBlock(ei.Body)
		}
		if s.Else != nil {
			p.line("} else {")
			p.printBlock(s.Else)
		}
		p.line("}")
	case *While:
		p.line("while %s {", PrintExpr(s.Cond))
		p.printBlock(s.Body)
		p.line("}")
	case *ForRange:
		p.line("for %s in %s..%s {", s.Var, PrintExpr(s.Start), PrintExpr(s.EndExclusive))
		p.printBlock(s.Body)
		p.line("}")
	case *Break:
		p.line("break")
	case *Continue:
		p.line("continue")
	case *ExprStmt:
		p.line("%s", PrintExpr(s.X))
	}
}

func (p *printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		switch e.Kind {
		case StringLiteral:
			p.b.WriteString(quoteString(e.StringValue))
		case BoolLiteral:
			if e.BoolValue {
				p.b.WriteString("true")
			} else {
				p.b.WriteString("false")
			}
		default:
			p.b.WriteString(e.Text)
		}
	case *Ident:
		p.b.WriteString(e.Name)
	case *Unary:
		// No parens of our own: grouping that overrode precedence is already
		// a Paren node, and parser-produced trees are precedence-consistent
		// without one. Adding parens here would grow a Paren on re-parse and
		// break structural round-tripping.
		p.b.WriteString(e.Op.String())
		p.printExpr(e.X)
	case *Binary:
		p.printExpr(e.Left)
		p.b.WriteString(" " + e.Op.String() + " ")
		p.printExpr(e.Right)
	case *Call:
		p.b.WriteString(e.Callee)
		p.b.WriteString("(")
		for i, a := range e.Args {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.printExpr(a)
		}
		p.b.WriteString(")")
	case *Paren:
		p.b.WriteString("(")
		p.printExpr(e.X)
		p.b.WriteString(")")
	}
}

// quoteString re-encodes a decoded string literal using only the escapes
// the lexer recognizes.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (op UnaryOp) String() string {
	if op == Neg {
		return "-"
	}
	return "!"
}

var binaryOpText = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%",
	Eq: "==", NotEqOp: "!=",
	Less: "<", LessEq: "<=", Greater: ">", GreaterEq: ">=",
	And: "&&", Or: "||",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpText[op]; ok {
		return s
	}
	return "?"
}
