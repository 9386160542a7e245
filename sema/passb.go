package sema

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/sourcemap"
	"github.com/neuro-lang/neuroc/types"
)

// passB type-checks one function body with bidirectional numeric-literal
// inference.
func (a *Analyzer) passB(fn *ast.FuncDecl) {
	sym, _ := a.scope.Lookup(fn.Name)
	a.curFunc = &sym

	a.scope.Push()
	defer a.scope.Pop()

	for i, p := range fn.Params {
		a.scope.DeclareInCurrent(Symbol{
			Name:    p.Name,
			Span:    p.Span,
			VarType: sym.ParamTypes[i],
			Mutable: false, // parameters are immutable bindings
		})
	}

	a.checkBody(fn, fn.Body)
	a.curFunc = nil
}

// checkBody checks every statement in a function body, threading the
// implicit-return rule onto the final statement when it is an
// expression-statement and the function returns a non-void value.
func (a *Analyzer) checkBody(fn *ast.FuncDecl, body []ast.Stmt) {
	for i, stmt := range body {
		isLast := i == len(body)-1
		if isLast && a.curFunc.ReturnType.Kind != types.Void {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				ret := a.curFunc.ReturnType
				a.checkExpr(es.X, &ret)
				a.info.ImplicitReturn[fn] = true
				continue
			}
		}
		a.checkStmt(stmt)
	}
}

func (a *Analyzer) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		a.checkVarDecl(s)
	case *ast.Assign:
		a.checkAssign(s)
	case *ast.Return:
		a.checkReturn(s)
	case *ast.If:
		a.checkIf(s)
	case *ast.While:
		a.checkWhile(s)
	case *ast.ForRange:
		a.checkForRange(s)
	case *ast.Break:
		if a.loopDep == 0 {
			a.addErr(diag.CodeSem+"027", "break outside of loop", s.Span)
		}
	case *ast.Continue:
		if a.loopDep == 0 {
			a.addErr(diag.CodeSem+"027", "continue outside of loop", s.Span)
		}
	case *ast.ExprStmt:
		a.checkExprAsStmt(s.X)
	default:
		panic(fmt.Sprintf("sema: unhandled statement type %T", stmt))
	}
}

func (a *Analyzer) checkVarDecl(s *ast.VarDecl) {
	var declType *types.Type
	if s.DeclaredType != nil {
		t, ok := types.Lookup(s.DeclaredType.Name)
		if !ok {
			a.addErr(diag.CodeSem+"002", fmt.Sprintf("unsupported type %q", s.DeclaredType.Name), s.DeclaredType.Span)
			t = types.Type{Kind: types.Unknown}
		}
		declType = &t
	}

	if s.DeclaredType == nil && s.Init == nil {
		a.addErr(diag.CodeSem+"004", fmt.Sprintf("variable %q needs a type annotation or an initializer", s.Name), s.Span)
		a.scope.DeclareInCurrent(Symbol{Name: s.Name, Span: s.Span, VarType: types.Type{Kind: types.Unknown}, Mutable: s.Mutable})
		return
	}

	var varType types.Type
	switch {
	case s.Init != nil && declType != nil:
		// The annotation is authoritative: checkExpr reports a mismatch if
		// Init can't produce it, but the declared symbol keeps declType
		// regardless, so later uses see the name's written-down type rather
		// than whatever (possibly Unknown) type a bad initializer produced.
		a.checkExpr(s.Init, declType)
		varType = *declType
	case s.Init != nil:
		varType = a.checkExpr(s.Init, nil)
	default:
		varType = *declType
	}

	if !a.scope.DeclareInCurrent(Symbol{Name: s.Name, Span: s.Span, VarType: varType, Mutable: s.Mutable}) {
		a.addErr(diag.CodeSem+"005", fmt.Sprintf("variable %q already defined in this scope", s.Name), s.Span)
	}
}

func (a *Analyzer) checkAssign(s *ast.Assign) {
	sym, ok := a.scope.Lookup(s.TargetName)
	if !ok {
		a.addErr(diag.CodeSem+"006", fmt.Sprintf("undefined variable %q", s.TargetName), s.Span)
		a.checkExpr(s.Value, nil)
		return
	}
	if sym.IsFunction {
		a.addErr(diag.CodeSem+"007", fmt.Sprintf("%q is a function, not a variable", s.TargetName), s.Span)
		a.checkExpr(s.Value, nil)
		return
	}
	if !sym.Mutable {
		a.addErr(diag.CodeSem+"008", fmt.Sprintf("cannot assign to immutable variable %q", s.TargetName), s.Span)
	}
	target := sym.VarType
	a.checkExpr(s.Value, &target)
}

func (a *Analyzer) checkReturn(s *ast.Return) {
	ret := a.curFunc.ReturnType
	switch {
	case s.Value == nil && ret.Kind != types.Void:
		a.addErr(diag.CodeSem+"009", "missing return value", s.Span)
	case s.Value != nil && ret.Kind == types.Void:
		a.addErr(diag.CodeSem+"010", "unexpected return value in a void function", s.Span)
		a.checkExpr(s.Value, nil)
	case s.Value != nil:
		a.checkExpr(s.Value, &ret)
	}
}

func (a *Analyzer) checkIf(s *ast.If) {
	boolType := types.Type{Kind: types.Bool}
	a.checkExpr(s.Cond, &boolType)
	a.checkBlockScope(s.Then)
	for _, ei := range s.ElseIf {
		a.checkExpr(ei.Cond, &boolType)
		a.checkBlockScope(ei.Body)
	}
	if s.Else != nil {
		a.checkBlockScope(s.Else)
	}
}

func (a *Analyzer) checkWhile(s *ast.While) {
	boolType := types.Type{Kind: types.Bool}
	a.checkExpr(s.Cond, &boolType)
	a.loopDep++
	a.checkBlockScope(s.Body)
	a.loopDep--
}

func (a *Analyzer) checkForRange(s *ast.ForRange) {
	i32 := types.Type{Kind: types.I32}
	a.checkExpr(s.Start, &i32)
	a.checkExpr(s.EndExclusive, &i32)

	a.scope.Push()
	a.scope.DeclareInCurrent(Symbol{Name: s.Var, Span: s.Span, VarType: i32, Mutable: false})
	a.loopDep++
	for _, stmt := range s.Body {
		a.checkStmt(stmt)
	}
	a.loopDep--
	a.scope.Pop()
}

// checkBlockScope checks a nested block's statements in a fresh frame.
func (a *Analyzer) checkBlockScope(body []ast.Stmt) {
	a.scope.Push()
	for _, stmt := range body {
		a.checkStmt(stmt)
	}
	a.scope.Pop()
}

// checkExprAsStmt checks an expression used as a bare statement: the one
// context where a void-returning call is legal, since its value is
// discarded rather than consumed.
func (a *Analyzer) checkExprAsStmt(expr ast.Expr) {
	if call, ok := expr.(*ast.Call); ok {
		a.checkCall(call, nil, false)
		return
	}
	a.checkExpr(expr, nil)
}

// checkExpr checks expr against an optional expected type, threading
// context for numeric-literal inference, and records the resolved type in
// a.info.ExprTypes. It always requires a value (void calls are rejected
// here; see checkExprAsStmt for the one context that allows void).
//
// Numeric-literal nodes fold the expected type into their own inference (an
// int/float literal's resolved type becomes exactly the expected type, or a
// mismatch is reported against the literal's natural default); every other
// node kind is checked bottom-up and compared against expected once, here,
// so each node reports at most one TypeMismatch.
func (a *Analyzer) checkExpr(expr ast.Expr, expected *types.Type) types.Type {
	t := a.checkExprInner(expr, expected)
	a.info.ExprTypes[expr] = t
	// Unknown means an earlier error already fired (undefined name, bad
	// annotation, ...); Void only arises from a call already rejected by
	// checkCall's own valueRequired check. Neither needs a second diagnostic.
	if expected != nil && t.Kind != types.Unknown && t.Kind != types.Void && !isLiteralInferenceNode(expr) && !types.Equal(t, *expected) {
		a.mismatch(expr.Pos(), t, *expected)
	}
	return t
}

// isLiteralInferenceNode reports whether expr already reconciled itself
// against the expected type inside checkExprInner (an int/float literal),
// so checkExpr's generic post-check should not re-report the same mismatch.
func isLiteralInferenceNode(expr ast.Expr) bool {
	lit, ok := expr.(*ast.Literal)
	return ok && (lit.Kind == ast.IntLiteral || lit.Kind == ast.FloatLiteral)
}

func (a *Analyzer) checkExprInner(expr ast.Expr, expected *types.Type) types.Type {
	switch e := expr.(type) {
	case *ast.Literal:
		return a.checkLiteral(e, expected)
	case *ast.Ident:
		return a.checkIdent(e, expected)
	case *ast.Unary:
		return a.checkUnary(e, expected)
	case *ast.Binary:
		return a.checkBinary(e, expected)
	case *ast.Call:
		return a.checkCall(e, expected, true)
	case *ast.Paren:
		// Delegate to checkExprInner (not checkExpr) so the mismatch-against-
		// expected check runs once, at the enclosing checkExpr call for this
		// Paren node, instead of once here and again there.
		t := a.checkExprInner(e.X, expected)
		a.info.ExprTypes[e.X] = t
		return t
	default:
		panic(fmt.Sprintf("sema: unhandled expression type %T", expr))
	}
}

func (a *Analyzer) checkLiteral(lit *ast.Literal, expected *types.Type) types.Type {
	switch lit.Kind {
	case ast.IntLiteral:
		return a.checkIntLiteral(lit, expected)
	case ast.FloatLiteral:
		return a.checkFloatLiteral(lit, expected)
	case ast.StringLiteral:
		return types.Type{Kind: types.String}
	case ast.BoolLiteral:
		return types.Type{Kind: types.Bool}
	default:
		panic("sema: unhandled literal kind")
	}
}

func (a *Analyzer) checkIntLiteral(lit *ast.Literal, expected *types.Type) types.Type {
	val, ok := new(big.Int).SetString(lit.Text, 10)
	if !ok {
		a.addErr(diag.CodeSem+"011", fmt.Sprintf("malformed integer literal %q", lit.Text), lit.Span)
		return types.Type{Kind: types.I32}
	}

	target := types.I32
	if expected != nil {
		if types.IsInteger(expected.Kind) {
			target = expected.Kind
		} else if types.IsFloat(expected.Kind) {
			// An integer-looking literal used where a float is expected
			// widens directly to that float type (no separate float-literal
			// token was required to write it).
			return types.Type{Kind: expected.Kind}
		} else {
			a.mismatch(lit.Span, types.Type{Kind: types.I32}, *expected)
			return *expected
		}
	}

	if !types.FitsInteger(val, target) {
		a.addErr(diag.CodeSem+"012",
			fmt.Sprintf("integer literal %s out of range for %s", lit.Text, types.Type{Kind: target}),
			lit.Span,
			fmt.Sprintf("valid range is %s..%s", types.IntMin(target), types.IntMax(target)))
	}
	return types.Type{Kind: target}
}

func (a *Analyzer) checkFloatLiteral(lit *ast.Literal, expected *types.Type) types.Type {
	if _, err := strconv.ParseFloat(lit.Text, 64); err != nil {
		a.addErr(diag.CodeSem+"013", fmt.Sprintf("malformed float literal %q", lit.Text), lit.Span)
		return types.Type{Kind: types.F64}
	}
	target := types.F64
	if expected != nil {
		if types.IsFloat(expected.Kind) {
			target = expected.Kind
		} else {
			a.mismatch(lit.Span, types.Type{Kind: types.F64}, *expected)
			return *expected
		}
	}
	return types.Type{Kind: target}
}

func (a *Analyzer) checkIdent(id *ast.Ident, expected *types.Type) types.Type {
	sym, ok := a.scope.Lookup(id.Name)
	if !ok {
		a.addErr(diag.CodeSem+"006", fmt.Sprintf("undefined variable %q", id.Name), id.Span)
		if expected != nil {
			return *expected
		}
		return types.Type{Kind: types.Unknown}
	}
	if sym.IsFunction {
		a.addErr(diag.CodeSem+"007", fmt.Sprintf("%q is a function, not a value", id.Name), id.Span)
		if expected != nil {
			return *expected
		}
		return types.Type{Kind: types.Unknown}
	}
	return sym.VarType
}

func (a *Analyzer) checkUnary(u *ast.Unary, expected *types.Type) types.Type {
	switch u.Op {
	case ast.Not:
		b := types.Type{Kind: types.Bool}
		a.checkExpr(u.X, &b)
		return b
	case ast.Neg:
		// Delegate to checkExprInner, not checkExpr: the mismatch-against-
		// expected check for this value happens once, at the enclosing
		// checkExpr call for the Unary node itself.
		xt := a.checkExprInner(u.X, expected)
		a.info.ExprTypes[u.X] = xt
		if types.IsUnsignedInteger(xt.Kind) {
			a.addErr(diag.CodeSem+"014", fmt.Sprintf("cannot negate unsigned type %s", xt), u.Span)
		} else if !types.IsNumeric(xt.Kind) && xt.Kind != types.Unknown {
			a.addErr(diag.CodeSem+"015", fmt.Sprintf("cannot negate non-numeric type %s", xt), u.Span)
		}
		return xt
	default:
		panic("sema: unhandled unary operator")
	}
}

func (a *Analyzer) checkBinary(b *ast.Binary, expected *types.Type) types.Type {
	switch b.Op {
	case ast.And, ast.Or:
		boolType := types.Type{Kind: types.Bool}
		a.checkExpr(b.Left, &boolType)
		a.checkExpr(b.Right, &boolType)
		return boolType
	case ast.Eq, ast.NotEqOp, ast.Less, ast.LessEq, ast.Greater, ast.GreaterEq:
		return a.checkComparison(b)
	default:
		return a.checkArithmetic(b)
	}
}

func (a *Analyzer) checkComparison(b *ast.Binary) types.Type {
	left := a.checkExpr(b.Left, nil)
	// Threading left as the expected type for Right makes checkExpr itself
	// report any mismatch between the two operands; no separate check needed.
	a.checkExpr(b.Right, &left)
	if b.Op == ast.Less || b.Op == ast.LessEq || b.Op == ast.Greater || b.Op == ast.GreaterEq {
		if left.Kind == types.Bool {
			a.addErr(diag.CodeSem+"016", "ordering comparison is not defined on bool", b.Span)
		}
	}
	return types.Type{Kind: types.Bool}
}

func (a *Analyzer) checkArithmetic(b *ast.Binary) types.Type {
	left := a.checkExpr(b.Left, nil)
	// Threading left as the expected type for Right makes checkExpr itself
	// report any operand mismatch; this function only needs left's kind for
	// the remaining string/numeric/div-by-zero checks.
	right := a.checkExpr(b.Right, &left)

	if left.Kind == types.String && right.Kind == types.String {
		if b.Op != ast.Add {
			a.addErr(diag.CodeSem+"017", "strings only support '+' (concatenation)", b.Span)
		}
		return types.Type{Kind: types.String}
	}

	if !types.IsNumeric(left.Kind) && left.Kind != types.Unknown {
		a.addErr(diag.CodeSem+"018", fmt.Sprintf("operator %s requires numeric operands, got %s", binaryOpSymbol(b.Op), left), b.Span)
	}

	if b.Op == ast.Div || b.Op == ast.Rem {
		if types.IsInteger(left.Kind) {
			if lit, ok := b.Right.(*ast.Literal); ok && lit.Kind == ast.IntLiteral && lit.Text == "0" {
				a.addErr(diag.CodeSem+"019", "division by zero", b.Span)
			}
		}
	}

	return left
}

func binaryOpSymbol(op ast.BinaryOp) string {
	names := map[ast.BinaryOp]string{
		ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.Rem: "%",
	}
	return names[op]
}

func (a *Analyzer) checkCall(call *ast.Call, expected *types.Type, valueRequired bool) types.Type {
	sym, ok := a.scope.Lookup(call.Callee)
	if !ok {
		a.addErr(diag.CodeSem+"020", fmt.Sprintf("undefined function %q", call.Callee), call.Span)
		for _, arg := range call.Args {
			a.checkExpr(arg, nil)
		}
		return types.Type{Kind: types.Unknown}
	}
	if !sym.IsFunction {
		a.addErr(diag.CodeSem+"021", fmt.Sprintf("%q is not a function", call.Callee), call.Span)
		for _, arg := range call.Args {
			a.checkExpr(arg, nil)
		}
		return types.Type{Kind: types.Unknown}
	}

	if len(call.Args) != len(sym.ParamTypes) {
		a.addErr(diag.CodeSem+"022",
			fmt.Sprintf("function %q expects %d argument(s), got %d", call.Callee, len(sym.ParamTypes), len(call.Args)),
			call.Span)
	}
	n := len(call.Args)
	if n > len(sym.ParamTypes) {
		n = len(sym.ParamTypes)
	}
	for i := 0; i < n; i++ {
		pt := sym.ParamTypes[i]
		a.checkExpr(call.Args[i], &pt)
	}
	for i := n; i < len(call.Args); i++ {
		a.checkExpr(call.Args[i], nil)
	}

	if sym.ReturnType.Kind == types.Void {
		if valueRequired {
			a.addErr(diag.CodeSem+"023", fmt.Sprintf("function %q returns void and cannot be used as a value", call.Callee), call.Span)
		}
		return types.Type{Kind: types.Void}
	}

	return sym.ReturnType
}

// mismatch reports a TypeMismatch between an actual and expected type.
func (a *Analyzer) mismatch(span sourcemap.Span, actual, expected types.Type) {
	a.addErr(diag.CodeSem+"024", fmt.Sprintf("type mismatch: expected %s, got %s", expected, actual), span)
}
