package sema

import (
	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
)

// passC checks structural control flow: every path through a non-void
// function must reach a return (or the implicit-return trailing
// expression Pass B already recognized), and no statement may follow an
// unconditional return/break/continue in the same block.
func (a *Analyzer) passC(fn *ast.FuncDecl) {
	a.checkUnreachable(fn.Body)

	if fn.ReturnType == nil {
		return
	}
	if a.info.ImplicitReturn[fn] {
		return
	}
	if !bodyAlwaysReturns(fn.Body) {
		a.addErr(diag.CodeSem+"025",
			"function body does not return a value on every path",
			fn.Span,
			"add a trailing return, or an implicit-return expression, covering every branch")
	}
}

// checkUnreachable reports any statement that follows an unconditional
// return/break/continue within the same block — it can never execute.
func (a *Analyzer) checkUnreachable(body []ast.Stmt) {
	for i, stmt := range body {
		if i > 0 && alwaysExits(body[i-1]) {
			a.addErr(diag.CodeSem+"026", "unreachable statement", stmt.Pos())
			break
		}
		switch s := stmt.(type) {
		case *ast.If:
			a.checkUnreachable(s.Then)
			for _, ei := range s.ElseIf {
				a.checkUnreachable(ei.Body)
			}
			if s.Else != nil {
				a.checkUnreachable(s.Else)
			}
		case *ast.While:
			a.checkUnreachable(s.Body)
		case *ast.ForRange:
			a.checkUnreachable(s.Body)
		}
	}
}

// alwaysExits reports whether stmt unconditionally leaves its enclosing
// block: a bare return/break/continue, or an if/else-if/else whose every
// arm does.
func alwaysExits(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Return, *ast.Break, *ast.Continue:
		return true
	case *ast.If:
		if s.Else == nil {
			return false
		}
		if !blockAlwaysExits(s.Then) {
			return false
		}
		for _, ei := range s.ElseIf {
			if !blockAlwaysExits(ei.Body) {
				return false
			}
		}
		return blockAlwaysExits(s.Else)
	default:
		return false
	}
}

func blockAlwaysExits(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	return alwaysExits(body[len(body)-1])
}

// bodyAlwaysReturns reports whether some statement in body unconditionally
// returns a value — scanning the whole sequence, not just the last
// statement, since a return followed by dead code (already flagged
// separately by checkUnreachable) still means the function always
// returns. while/for bodies are never assumed to run, so a function whose
// only return lives inside a loop is rejected — the loop may execute zero
// times.
func bodyAlwaysReturns(body []ast.Stmt) bool {
	for _, s := range body {
		if stmtAlwaysReturns(s) {
			return true
		}
	}
	return false
}

func stmtAlwaysReturns(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Return:
		return true
	case *ast.If:
		if s.Else == nil {
			return false
		}
		if !bodyAlwaysReturns(s.Then) {
			return false
		}
		for _, ei := range s.ElseIf {
			if !bodyAlwaysReturns(ei.Body) {
				return false
			}
		}
		return bodyAlwaysReturns(s.Else)
	default:
		return false
	}
}
