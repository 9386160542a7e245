package irgen

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/types"
)

// lowerExpr lowers expr to an SSA value, returning the value's textual
// operand form (a register or an immediate) and its LLVM type spelling.
// The node's type is always read from SemanticInfo rather than re-derived.
func (e *Emitter) lowerExpr(expr ast.Expr) (string, string, *diag.Diagnostic) {
	t := e.info.ExprTypes[expr]
	lt := llvmType(t)

	switch ex := expr.(type) {
	case *ast.Literal:
		v, err := e.lowerLiteral(ex, t)
		return v, lt, err
	case *ast.Ident:
		info := e.lookup(ex.Name)
		if t.Kind == types.Bool {
			raw := e.newTemp()
			e.emitLine("%s = load i8, i8* %s", raw, info.reg)
			reg := e.newTemp()
			e.emitLine("%s = trunc i8 %s to i1", reg, raw)
			return reg, lt, nil
		}
		reg := e.newTemp()
		e.emitLine("%s = load %s, %s* %s", reg, lt, lt, info.reg)
		return reg, lt, nil
	case *ast.Unary:
		return e.lowerUnary(ex, t)
	case *ast.Binary:
		return e.lowerBinary(ex, t)
	case *ast.Call:
		return e.lowerCall(ex, t)
	case *ast.Paren:
		return e.lowerExpr(ex.X)
	default:
		panic(fmt.Sprintf("irgen: unhandled expression type %T", expr))
	}
}

func (e *Emitter) lowerLiteral(lit *ast.Literal, t types.Type) (string, *diag.Diagnostic) {
	switch lit.Kind {
	case ast.IntLiteral:
		if types.IsFloat(t.Kind) {
			return lit.Text + ".0", nil
		}
		v, _ := new(big.Int).SetString(lit.Text, 10)
		return v.String(), nil
	case ast.FloatLiteral:
		f, _ := strconv.ParseFloat(lit.Text, 64)
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case ast.BoolLiteral:
		if lit.BoolValue {
			return "1", nil
		}
		return "0", nil
	case ast.StringLiteral:
		global := e.internString(lit.StringValue)
		reg := e.newTemp()
		n := len(lit.StringValue) + 1
		e.emitLine("%s = getelementptr inbounds [%d x i8], [%d x i8]* %s, i64 0, i64 0", reg, n, n, global)
		return reg, nil
	default:
		panic("irgen: unhandled literal kind")
	}
}

func (e *Emitter) lowerUnary(u *ast.Unary, t types.Type) (string, string, *diag.Diagnostic) {
	lt := llvmType(t)
	switch u.Op {
	case ast.Not:
		v, _, err := e.lowerExpr(u.X)
		if err != nil {
			return "", "", err
		}
		reg := e.newTemp()
		e.emitLine("%s = xor i1 %s, true", reg, v)
		return reg, lt, nil
	case ast.Neg:
		v, _, err := e.lowerExpr(u.X)
		if err != nil {
			return "", "", err
		}
		reg := e.newTemp()
		if types.IsFloat(t.Kind) {
			e.emitLine("%s = fneg %s %s", reg, lt, v)
		} else {
			e.emitLine("%s = sub %s 0, %s", reg, lt, v)
		}
		return reg, lt, nil
	default:
		panic("irgen: unhandled unary operator")
	}
}

func (e *Emitter) lowerBinary(b *ast.Binary, resultType types.Type) (string, string, *diag.Diagnostic) {
	switch b.Op {
	case ast.And:
		return e.lowerShortCircuit(b, false)
	case ast.Or:
		return e.lowerShortCircuit(b, true)
	case ast.Eq, ast.NotEqOp, ast.Less, ast.LessEq, ast.Greater, ast.GreaterEq:
		return e.lowerComparison(b)
	default:
		return e.lowerArithmetic(b, resultType)
	}
}

// lowerShortCircuit lowers && (isOr == false) or || (isOr == true) with the
// two-block-plus-phi pattern: the right operand is only
// evaluated in a block reached when the left operand didn't already decide
// the result.
func (e *Emitter) lowerShortCircuit(b *ast.Binary, isOr bool) (string, string, *diag.Diagnostic) {
	left, _, err := e.lowerExpr(b.Left)
	if err != nil {
		return "", "", err
	}
	startBB := e.newLabel("sc.rhs")
	joinBB := e.newLabel("sc.end")
	leftBB := e.currentBlockLabel()

	if isOr {
		e.emitLine("br i1 %s, label %%%s, label %%%s", left, joinBB, startBB)
	} else {
		e.emitLine("br i1 %s, label %%%s, label %%%s", left, startBB, joinBB)
	}
	e.curBBOpen = false

	e.emitLabel(startBB)
	right, _, err := e.lowerExpr(b.Right)
	if err != nil {
		return "", "", err
	}
	rhsBB := e.currentBlockLabel()
	e.emitLine("br label %%%s", joinBB)
	e.curBBOpen = false

	e.emitLabel(joinBB)
	reg := e.newTemp()
	shortCircuitVal := "0"
	if isOr {
		shortCircuitVal = "1"
	}
	e.emitLine("%s = phi i1 [ %s, %%%s ], [ %s, %%%s ]", reg, shortCircuitVal, leftBB, right, rhsBB)
	return reg, "i1", nil
}

// currentBlockLabel returns the label most recently opened by emitLabel,
// used for phi-node incoming-block operands after a short-circuit branch.
func (e *Emitter) currentBlockLabel() string {
	return e.lastLabel
}

func (e *Emitter) lowerComparison(b *ast.Binary) (string, string, *diag.Diagnostic) {
	leftType := e.info.ExprTypes[b.Left]
	if leftType.Kind == types.String && b.Op != ast.Eq && b.Op != ast.NotEqOp {
		return "", "", e.unsupported(b.Span, "ordering comparison of strings is not supported by the IR emitter")
	}
	left, lt, err := e.lowerExpr(b.Left)
	if err != nil {
		return "", "", err
	}
	right, _, err := e.lowerExpr(b.Right)
	if err != nil {
		return "", "", err
	}
	reg := e.newTemp()
	if types.IsFloat(leftType.Kind) {
		e.emitLine("%s = fcmp %s %s %s, %s", reg, floatPredicate(b.Op), lt, left, right)
	} else {
		e.emitLine("%s = icmp %s %s %s, %s", reg, intPredicate(b.Op, types.IsSignedInteger(leftType.Kind)), lt, left, right)
	}
	return reg, "i1", nil
}

func intPredicate(op ast.BinaryOp, signed bool) string {
	switch op {
	case ast.Eq:
		return "eq"
	case ast.NotEqOp:
		return "ne"
	case ast.Less:
		if signed {
			return "slt"
		}
		return "ult"
	case ast.LessEq:
		if signed {
			return "sle"
		}
		return "ule"
	case ast.Greater:
		if signed {
			return "sgt"
		}
		return "ugt"
	case ast.GreaterEq:
		if signed {
			return "sge"
		}
		return "uge"
	default:
		panic("irgen: not a comparison operator")
	}
}

func floatPredicate(op ast.BinaryOp) string {
	switch op {
	case ast.Eq:
		return "oeq"
	case ast.NotEqOp:
		return "one"
	case ast.Less:
		return "olt"
	case ast.LessEq:
		return "ole"
	case ast.Greater:
		return "ogt"
	case ast.GreaterEq:
		return "oge"
	default:
		panic("irgen: not a comparison operator")
	}
}

func (e *Emitter) lowerArithmetic(b *ast.Binary, resultType types.Type) (string, string, *diag.Diagnostic) {
	lt := llvmType(resultType)

	if resultType.Kind == types.String {
		return "", "", e.unsupported(b.Span, "string concatenation is not supported by the IR emitter")
	}

	left, _, err := e.lowerExpr(b.Left)
	if err != nil {
		return "", "", err
	}
	right, _, err := e.lowerExpr(b.Right)
	if err != nil {
		return "", "", err
	}

	reg := e.newTemp()
	isFloat := types.IsFloat(resultType.Kind)
	signed := types.IsSignedInteger(resultType.Kind)

	var op string
	switch b.Op {
	case ast.Add:
		op = pick(isFloat, "fadd", "add")
	case ast.Sub:
		op = pick(isFloat, "fsub", "sub")
	case ast.Mul:
		op = pick(isFloat, "fmul", "mul")
	case ast.Div:
		op = pick(isFloat, "fdiv", pick(signed, "sdiv", "udiv"))
	case ast.Rem:
		op = pick(isFloat, "frem", pick(signed, "srem", "urem"))
	default:
		panic("irgen: unhandled arithmetic operator")
	}
	e.emitLine("%s = %s %s %s, %s", reg, op, lt, left, right)
	return reg, lt, nil
}

func pick(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func (e *Emitter) lowerCall(call *ast.Call, resultType types.Type) (string, string, *diag.Diagnostic) {
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		v, lt, err := e.lowerExpr(a)
		if err != nil {
			return "", "", err
		}
		args[i] = fmt.Sprintf("%s %s", lt, v)
	}
	argList := ""
	for i, a := range args {
		if i > 0 {
			argList += ", "
		}
		argList += a
	}

	if resultType.Kind == types.Void {
		e.emitLine("call void @%s(%s)", call.Callee, argList)
		return "", "void", nil
	}
	lt := llvmType(resultType)
	reg := e.newTemp()
	e.emitLine("%s = call %s @%s(%s)", reg, lt, call.Callee, argList)
	return reg, lt, nil
}
