// Package parser implements a top-down Pratt parser over the (trivia
// filtered) NEURO token stream, producing the ast package's node types.
//
// Cursor-based recursive descent with Pratt expression parsing (tokens
// []Token; position int, with peek/previous/advance/isAtEnd helpers),
// generalized from "numbers and calls" to the full item/stmt/expr grammar.
package parser

import (
	"fmt"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/lexer"
	"github.com/neuro-lang/neuroc/sourcemap"
	"github.com/neuro-lang/neuroc/token"
)

// maxNestingDepth is the hard recursion-depth limit the parser enforces
// (>= 256) to stop pathological input rather than overflow the Go stack.
const maxNestingDepth = 256

// Parser holds parsing state over one filtered token stream.
type Parser struct {
	toks  []token.Token
	pos   int
	depth int
}

// New creates a Parser from a token stream; Newline tokens are filtered
// before parsing.
func New(toks []token.Token) *Parser {
	return &Parser{toks: lexer.FilterTrivia(toks)}
}

// Parse parses a full program from source text: tokenizes, then parses.
// On the first error it synchronizes to the next fn/func keyword and
// continues scanning items, but returns only the
// first error to the caller; later errors are discarded (full multi-error
// recovery is a non-goal here).
func Parse(src string) (*ast.Program, *diag.Diagnostic) {
	toks, lexErr := lexer.Tokenize(src)
	if lexErr != nil {
		return nil, lexErr
	}
	p := New(toks)
	return p.ParseProgram()
}

// ParseExpression parses src as one standalone expression, as the eval
// subcommand reads its input. Trailing tokens after the expression are an
// error.
func ParseExpression(src string) (ast.Expr, *diag.Diagnostic) {
	toks, lexErr := lexer.Tokenize(src)
	if lexErr != nil {
		return nil, lexErr
	}
	p := New(toks)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.unexpected("end of expression")
	}
	return expr, nil
}

// ParseProgram parses program := item*.
func (p *Parser) ParseProgram() (*ast.Program, *diag.Diagnostic) {
	prog := &ast.Program{}
	var firstErr *diag.Diagnostic
	for !p.atEnd() {
		item, err := p.parseItem()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			p.synchronize()
			continue
		}
		prog.Items = append(prog.Items, item)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return prog, nil
}

// synchronize skips tokens until the next fn/func keyword or EOF, the
// parser's sole recovery strategy.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.peek().Kind == token.KwFn {
			return
		}
		p.advance()
	}
}

func (p *Parser) err(code, msg string, span sourcemap.Span, notes ...string) *diag.Diagnostic {
	return &diag.Diagnostic{Severity: diag.Error, Message: msg, Span: &span, Code: code, Notes: notes}
}

func (p *Parser) unexpected(expected string) *diag.Diagnostic {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return p.err(diag.CodeSyn+"002", fmt.Sprintf("unexpected end of input, expected %s", expected), tok.Span)
	}
	return p.err(diag.CodeSyn+"001", fmt.Sprintf("unexpected token %q, expected %s", tok.Text, expected), tok.Span)
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *Parser) previous() token.Token {
	return p.toks[p.pos-1]
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, *diag.Diagnostic) {
	if !p.check(k) {
		return token.Token{}, p.unexpected(what)
	}
	return p.advance(), nil
}

func (p *Parser) enter() *diag.Diagnostic {
	p.depth++
	if p.depth > maxNestingDepth {
		span := p.peek().Span
		return p.err(diag.CodeSyn+"010", "maximum nesting depth exceeded", span)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// parseItem parses item := fn_keyword IDENT "(" params? ")" ("->" type)? block
func (p *Parser) parseItem() (*ast.FuncDecl, *diag.Diagnostic) {
	start, err := p.expect(token.KwFn, "'fn'")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}

	var retType *ast.TypeExpr
	if p.match(token.Arrow) {
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		retType = &t
	}

	body, bodySpan, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		Name:       name.Text,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		Span:       sourcemap.Merge(start.Span, bodySpan),
	}, nil
}

func (p *Parser) parseParams() ([]ast.Param, *diag.Diagnostic) {
	var params []ast.Param
	seen := map[string]bool{}
	if p.check(token.RParen) {
		return params, nil
	}
	for {
		nameTok, err := p.expect(token.Ident, "parameter name")
		if err != nil {
			return nil, err
		}
		if seen[nameTok.Text] {
			return nil, p.err(diag.CodeSyn+"011", fmt.Sprintf("duplicate parameter %q", nameTok.Text), nameTok.Span)
		}
		seen[nameTok.Text] = true
		if _, err := p.expect(token.Colon, "':'"); err != nil {
			return nil, err
		}
		typ, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: nameTok.Text, Type: typ, Span: sourcemap.Merge(nameTok.Span, typ.Span)})
		if !p.match(token.Comma) {
			break
		}
	}
	return params, nil
}

func (p *Parser) parseTypeExpr() (ast.TypeExpr, *diag.Diagnostic) {
	tok, err := p.expect(token.Ident, "a type name")
	if err != nil {
		return ast.TypeExpr{}, err
	}
	return ast.TypeExpr{Name: tok.Text, Span: tok.Span}, nil
}

// parseBlock parses block := "{" stmt* "}".
func (p *Parser) parseBlock() ([]ast.Stmt, sourcemap.Span, *diag.Diagnostic) {
	if err := p.enter(); err != nil {
		return nil, sourcemap.Span{}, err
	}
	defer p.leave()

	open, err := p.expect(token.LBrace, "'{'")
	if err != nil {
		return nil, sourcemap.Span{}, err
	}
	var stmts []ast.Stmt
	for !p.check(token.RBrace) {
		if p.atEnd() {
			return nil, sourcemap.Span{}, p.err(diag.CodeSyn+"012", "unclosed '{'", open.Span)
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, sourcemap.Span{}, err
		}
		stmts = append(stmts, stmt)
	}
	close, err := p.expect(token.RBrace, "'}'")
	if err != nil {
		return nil, sourcemap.Span{}, err
	}
	return stmts, sourcemap.Merge(open.Span, close.Span), nil
}

func (p *Parser) parseStmt() (ast.Stmt, *diag.Diagnostic) {
	switch p.peek().Kind {
	case token.KwLet, token.KwMut:
		return p.parseVarDecl()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwBreak:
		tok := p.advance()
		return &ast.Break{Span: tok.Span}, nil
	case token.KwContinue:
		tok := p.advance()
		return &ast.Continue{Span: tok.Span}, nil
	case token.Ident:
		if p.peekAt(1).Kind == token.Assign {
			return p.parseAssign()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

// parseVarDecl parses ("let"|"val"|"mut") IDENT (":" type)? ("=" expr)?.
func (p *Parser) parseVarDecl() (ast.Stmt, *diag.Diagnostic) {
	kw := p.advance()
	mutable := kw.Kind == token.KwMut
	nameTok, err := p.expect(token.Ident, "variable name")
	if err != nil {
		return nil, err
	}

	var declType *ast.TypeExpr
	if p.match(token.Colon) {
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		declType = &t
	}

	var init ast.Expr
	span := sourcemap.Merge(kw.Span, nameTok.Span)
	if p.match(token.Assign) {
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
		span = sourcemap.Merge(span, init.Pos())
	}
	p.match(token.Semi)

	return &ast.VarDecl{
		Name:         nameTok.Text,
		DeclaredType: declType,
		Init:         init,
		Mutable:      mutable,
		Span:         span,
	}, nil
}

func (p *Parser) parseAssign() (ast.Stmt, *diag.Diagnostic) {
	nameTok := p.advance()
	if _, err := p.expect(token.Assign, "'='"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.match(token.Semi)
	return &ast.Assign{TargetName: nameTok.Text, Value: value, Span: sourcemap.Merge(nameTok.Span, value.Pos())}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, *diag.Diagnostic) {
	kw := p.advance()
	span := kw.Span
	var value ast.Expr
	if !p.check(token.Semi) && !p.check(token.RBrace) && !p.atEnd() {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		value = v
		span = sourcemap.Merge(span, v.Pos())
	}
	p.match(token.Semi)
	return &ast.Return{Value: value, Span: span}, nil
}

// parseIf parses "if" expr block ("else" "if" expr block)* ("else" block)?.
func (p *Parser) parseIf() (ast.Stmt, *diag.Diagnostic) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, thenSpan, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	span := sourcemap.Merge(kw.Span, thenSpan)

	var elseIfs []ast.ElseIf
	var elseBody []ast.Stmt
	for p.check(token.KwElse) {
		p.advance()
		if p.match(token.KwIf) {
			c, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			b, bspan, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			elseIfs = append(elseIfs, ast.ElseIf{Cond: c, Body: b})
			span = sourcemap.Merge(span, bspan)
			continue
		}
		b, bspan, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elseBody = b
		span = sourcemap.Merge(span, bspan)
		break
	}

	return &ast.If{Cond: cond, Then: then, ElseIf: elseIfs, Else: elseBody, Span: span}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, *diag.Diagnostic) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, bodySpan, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Span: sourcemap.Merge(kw.Span, bodySpan)}, nil
}

// parseFor parses "for" IDENT "in" expr ".." expr block.
func (p *Parser) parseFor() (ast.Stmt, *diag.Diagnostic) {
	kw := p.advance()
	nameTok, err := p.expect(token.Ident, "loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIn, "'in'"); err != nil {
		return nil, err
	}
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DotDot, "'..'"); err != nil {
		return nil, err
	}
	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, bodySpan, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForRange{
		Var:          nameTok.Text,
		Start:        start,
		EndExclusive: end,
		Body:         body,
		Span:         sourcemap.Merge(kw.Span, bodySpan),
	}, nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, *diag.Diagnostic) {
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.match(token.Semi)
	return &ast.ExprStmt{X: x, Span: x.Pos()}, nil
}

// --- Pratt expression parsing ---

// precedence table, lowest to highest.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precCall
)

func binOpPrec(k token.Kind) (int, ast.BinaryOp, bool) {
	switch k {
	case token.OrOr:
		return precOr, ast.Or, true
	case token.AndAnd:
		return precAnd, ast.And, true
	case token.EqEq:
		return precEquality, ast.Eq, true
	case token.NotEq:
		return precEquality, ast.NotEqOp, true
	case token.Lt:
		return precComparison, ast.Less, true
	case token.LtEq:
		return precComparison, ast.LessEq, true
	case token.Gt:
		return precComparison, ast.Greater, true
	case token.GtEq:
		return precComparison, ast.GreaterEq, true
	case token.Plus:
		return precAdditive, ast.Add, true
	case token.Minus:
		return precAdditive, ast.Sub, true
	case token.Star:
		return precMultiplicative, ast.Mul, true
	case token.Slash:
		return precMultiplicative, ast.Div, true
	case token.Percent:
		return precMultiplicative, ast.Rem, true
	default:
		return 0, 0, false
	}
}

func (p *Parser) parseExpr() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(precLowest)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, *diag.Diagnostic) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec, op, ok := binOpPrec(p.peek().Kind)
		if !ok || prec <= minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(prec) // left-associative: recurse at same prec
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Span: sourcemap.Merge(left.Pos(), right.Pos())}
	}
}

func (p *Parser) parseUnary() (ast.Expr, *diag.Diagnostic) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.peek().Kind {
	case token.Minus:
		tok := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Neg, X: x, Span: sourcemap.Merge(tok.Span, x.Pos())}, nil
	case token.Bang:
		tok := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Not, X: x, Span: sourcemap.Merge(tok.Span, x.Pos())}, nil
	default:
		return p.parseCallOrPrimary()
	}
}

func (p *Parser) parseCallOrPrimary() (ast.Expr, *diag.Diagnostic) {
	if p.check(token.Ident) && p.peekAt(1).Kind == token.LParen {
		nameTok := p.advance()
		p.advance() // consume '('
		var args []ast.Expr
		if !p.check(token.RParen) {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		closeTok, err := p.expect(token.RParen, "')'")
		if err != nil {
			return nil, err
		}
		return &ast.Call{Callee: nameTok.Text, Args: args, Span: sourcemap.Merge(nameTok.Span, closeTok.Span)}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, *diag.Diagnostic) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return &ast.Literal{Kind: ast.IntLiteral, Text: tok.Text, Span: tok.Span}, nil
	case token.FloatLit:
		p.advance()
		return &ast.Literal{Kind: ast.FloatLiteral, Text: tok.Text, Span: tok.Span}, nil
	case token.StringLit:
		p.advance()
		return &ast.Literal{Kind: ast.StringLiteral, StringValue: tok.Text, Span: tok.Span}, nil
	case token.True:
		p.advance()
		return &ast.Literal{Kind: ast.BoolLiteral, BoolValue: true, Span: tok.Span}, nil
	case token.False:
		p.advance()
		return &ast.Literal{Kind: ast.BoolLiteral, BoolValue: false, Span: tok.Span}, nil
	case token.Ident:
		p.advance()
		return &ast.Ident{Name: tok.Text, Span: tok.Span}, nil
	case token.LParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.RParen, "')'")
		if err != nil {
			return nil, err
		}
		return &ast.Paren{X: x, Span: sourcemap.Merge(tok.Span, closeTok.Span)}, nil
	default:
		return nil, p.err(diag.CodeSyn+"013", "invalid expression", tok.Span)
	}
}
