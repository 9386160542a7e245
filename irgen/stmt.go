package irgen

import (
	"fmt"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/types"
)

// lowerBody lowers one statement sequence that is a function's top-level
// body, honoring the implicit-return rule sema already decided: the
// trailing expression-statement of a value-returning function lowers as
// `ret`, matching checkBody's own special case for the last statement.
func (e *Emitter) lowerBody(fn *ast.FuncDecl, body []ast.Stmt) *diag.Diagnostic {
	for i, stmt := range body {
		isLast := i == len(body)-1
		if isLast && e.curRet.Kind != types.Void {
			if es, ok := stmt.(*ast.ExprStmt); ok && e.info.ImplicitReturn[fn] {
				v, lt, err := e.lowerExpr(es.X)
				if err != nil {
					return err
				}
				e.emitLine("ret %s %s", lt, v)
				e.curBBOpen = false
				continue
			}
		}
		if err := e.lowerStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) lowerStmt(stmt ast.Stmt) *diag.Diagnostic {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return e.lowerVarDecl(s)
	case *ast.Assign:
		return e.lowerAssign(s)
	case *ast.Return:
		return e.lowerReturn(s)
	case *ast.If:
		return e.lowerIf(s)
	case *ast.While:
		return e.lowerWhile(s)
	case *ast.ForRange:
		return e.lowerForRange(s)
	case *ast.Break:
		loop, ok := e.currentLoop()
		if !ok {
			return e.unsupported(s.Span, "break outside of loop")
		}
		e.emitLine("br label %%%s", loop.breakTo)
		e.curBBOpen = false
		return nil
	case *ast.Continue:
		loop, ok := e.currentLoop()
		if !ok {
			return e.unsupported(s.Span, "continue outside of loop")
		}
		e.emitLine("br label %%%s", loop.continueTo)
		e.curBBOpen = false
		return nil
	case *ast.ExprStmt:
		_, _, err := e.lowerExprAsStmt(s.X)
		return err
	default:
		panic(fmt.Sprintf("irgen: unhandled statement type %T", stmt))
	}
}

func (e *Emitter) lowerVarDecl(s *ast.VarDecl) *diag.Diagnostic {
	reg := e.allocaReg[s]
	t := e.varDeclType(s)
	if s.Init != nil {
		v, _, err := e.lowerExpr(s.Init)
		if err != nil {
			return err
		}
		e.storeValue(v, t, reg)
	}
	e.declare(s.Name, localInfo{reg: reg, typ: t})
	return nil
}

func (e *Emitter) lowerAssign(s *ast.Assign) *diag.Diagnostic {
	target := e.lookup(s.TargetName)
	v, _, err := e.lowerExpr(s.Value)
	if err != nil {
		return err
	}
	e.storeValue(v, target.typ, target.reg)
	return nil
}

// storeValue stores an SSA value of type t into the alloca at reg, going
// through the i1/i8 zext boundary for bool: bool is i1 in registers, i8
// in memory.
func (e *Emitter) storeValue(v string, t types.Type, reg string) {
	if t.Kind == types.Bool {
		ext := e.newTemp()
		e.emitLine("%s = zext i1 %s to i8", ext, v)
		e.emitLine("store i8 %s, i8* %s", ext, reg)
		return
	}
	lt := llvmType(t)
	e.emitLine("store %s %s, %s* %s", lt, v, lt, reg)
}

func (e *Emitter) lowerReturn(s *ast.Return) *diag.Diagnostic {
	if s.Value == nil {
		if e.curRet.Kind == types.Void {
			e.emitLine("ret void")
		} else {
			e.emitLine("ret %s %s", llvmType(e.curRet), zeroLiteral(e.curRet))
		}
		e.curBBOpen = false
		return nil
	}
	v, lt, err := e.lowerExpr(s.Value)
	if err != nil {
		return err
	}
	e.emitLine("ret %s %s", lt, v)
	e.curBBOpen = false
	return nil
}

// lowerIf computes the condition, branches to then/else, and after each
// branch jumps to a join block — omitted when every arm already
// terminated. else-if chains recurse as nested if/else.
func (e *Emitter) lowerIf(s *ast.If) *diag.Diagnostic {
	cond, _, err := e.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	thenLbl := e.newLabel("if.then")
	elseLbl := e.newLabel("if.else")
	joinLbl := e.newLabel("if.end")

	hasElse := len(s.ElseIf) > 0 || s.Else != nil
	elseTarget := joinLbl
	if hasElse {
		elseTarget = elseLbl
	}
	e.emitLine("br i1 %s, label %%%s, label %%%s", cond, thenLbl, elseTarget)
	e.curBBOpen = false

	e.emitLabel(thenLbl)
	e.pushScope()
	for _, stmt := range s.Then {
		if err := e.lowerStmt(stmt); err != nil {
			return err
		}
	}
	e.popScope()
	thenFellThrough := e.curBBOpen
	if thenFellThrough {
		e.emitLine("br label %%%s", joinLbl)
		e.curBBOpen = false
	}

	elseFellThrough := false
	if hasElse {
		e.emitLabel(elseLbl)
		if err := e.lowerElseChain(s.ElseIf, s.Else, joinLbl); err != nil {
			return err
		}
		elseFellThrough = e.curBBOpen
	}

	if thenFellThrough || elseFellThrough || !hasElse {
		e.emitLabel(joinLbl)
	}
	return nil
}

// lowerElseChain lowers the remaining "else if ... else" tail of an if
// statement, recursing one else-if at a time so each nested level gets its
// own then/else/join triple.
func (e *Emitter) lowerElseChain(chain []ast.ElseIf, finalElse []ast.Stmt, joinLbl string) *diag.Diagnostic {
	if len(chain) == 0 {
		if finalElse == nil {
			e.emitLine("br label %%%s", joinLbl)
			e.curBBOpen = false
			return nil
		}
		e.pushScope()
		for _, stmt := range finalElse {
			if err := e.lowerStmt(stmt); err != nil {
				return err
			}
		}
		e.popScope()
		if e.curBBOpen {
			e.emitLine("br label %%%s", joinLbl)
			e.curBBOpen = false
		}
		return nil
	}

	head := chain[0]
	cond, _, err := e.lowerExpr(head.Cond)
	if err != nil {
		return err
	}
	thenLbl := e.newLabel("elif.then")
	nextLbl := e.newLabel("elif.else")
	e.emitLine("br i1 %s, label %%%s, label %%%s", cond, thenLbl, nextLbl)
	e.curBBOpen = false

	e.emitLabel(thenLbl)
	e.pushScope()
	for _, stmt := range head.Body {
		if err := e.lowerStmt(stmt); err != nil {
			return err
		}
	}
	e.popScope()
	if e.curBBOpen {
		e.emitLine("br label %%%s", joinLbl)
		e.curBBOpen = false
	}

	e.emitLabel(nextLbl)
	return e.lowerElseChain(chain[1:], finalElse, joinLbl)
}

// lowerWhile emits the standard header/body/exit triple;
// break targets exit, continue targets header.
func (e *Emitter) lowerWhile(s *ast.While) *diag.Diagnostic {
	headerLbl := e.newLabel("while.header")
	bodyLbl := e.newLabel("while.body")
	exitLbl := e.newLabel("while.exit")

	e.emitLine("br label %%%s", headerLbl)
	e.curBBOpen = false
	e.emitLabel(headerLbl)

	cond, _, err := e.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	e.emitLine("br i1 %s, label %%%s, label %%%s", cond, bodyLbl, exitLbl)
	e.curBBOpen = false

	e.emitLabel(bodyLbl)
	e.pushLoop(loopLabels{breakTo: exitLbl, continueTo: headerLbl})
	e.pushScope()
	for _, stmt := range s.Body {
		if err := e.lowerStmt(stmt); err != nil {
			return err
		}
	}
	e.popScope()
	e.popLoop()
	if e.curBBOpen {
		e.emitLine("br label %%%s", headerLbl)
		e.curBBOpen = false
	}

	e.emitLabel(exitLbl)
	return nil
}

// lowerForRange lowers "for VAR in START..END" as an exclusive-bound
// counting loop: the loop variable's alloca (collected up front) is
// initialized to START, compared against END before each iteration, and
// incremented after the body.
func (e *Emitter) lowerForRange(s *ast.ForRange) *diag.Diagnostic {
	reg := e.allocaReg[s]
	i32 := types.Type{Kind: types.I32}

	start, _, err := e.lowerExpr(s.Start)
	if err != nil {
		return err
	}
	e.emitLine("store i32 %s, i32* %s", start, reg)

	headerLbl := e.newLabel("for.header")
	bodyLbl := e.newLabel("for.body")
	incLbl := e.newLabel("for.inc")
	exitLbl := e.newLabel("for.exit")

	e.emitLine("br label %%%s", headerLbl)
	e.curBBOpen = false
	e.emitLabel(headerLbl)

	cur := e.newTemp()
	e.emitLine("%s = load i32, i32* %s", cur, reg)
	end, _, err := e.lowerExpr(s.EndExclusive)
	if err != nil {
		return err
	}
	cond := e.newTemp()
	e.emitLine("%s = icmp slt i32 %s, %s", cond, cur, end)
	e.emitLine("br i1 %s, label %%%s, label %%%s", cond, bodyLbl, exitLbl)
	e.curBBOpen = false

	e.emitLabel(bodyLbl)
	e.pushLoop(loopLabels{breakTo: exitLbl, continueTo: incLbl})
	e.pushScope()
	e.declare(s.Var, localInfo{reg: reg, typ: i32})
	for _, stmt := range s.Body {
		if err := e.lowerStmt(stmt); err != nil {
			return err
		}
	}
	e.popScope()
	e.popLoop()
	if e.curBBOpen {
		e.emitLine("br label %%%s", incLbl)
		e.curBBOpen = false
	}

	e.emitLabel(incLbl)
	loaded := e.newTemp()
	e.emitLine("%s = load i32, i32* %s", loaded, reg)
	next := e.newTemp()
	e.emitLine("%s = add i32 %s, 1", next, loaded)
	e.emitLine("store i32 %s, i32* %s", next, reg)
	e.emitLine("br label %%%s", headerLbl)
	e.curBBOpen = false

	e.emitLabel(exitLbl)
	return nil
}

// lowerExprAsStmt lowers an expression used as a bare statement, the one
// context where a void-returning call is legal (its value is discarded).
func (e *Emitter) lowerExprAsStmt(expr ast.Expr) (string, string, *diag.Diagnostic) {
	return e.lowerExpr(expr)
}
