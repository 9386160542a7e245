package backend

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/types"
)

func (it *Interpreter) evalExpr(expr ast.Expr, env *Environment) (Value, error) {
	t := it.info.ExprTypes[expr]

	switch e := expr.(type) {
	case *ast.Literal:
		return it.evalLiteral(e, t)

	case *ast.Ident:
		v, ok := env.Get(e.Name)
		if !ok {
			return Value{}, fmt.Errorf("undefined variable: %s", e.Name)
		}
		return v, nil

	case *ast.Unary:
		return it.evalUnary(e, t, env)

	case *ast.Binary:
		return it.evalBinary(e, t, env)

	case *ast.Call:
		return it.evalCall(e, t, env)

	case *ast.Paren:
		return it.evalExpr(e.X, env)

	default:
		return Value{}, fmt.Errorf("backend: unhandled expression type %T", expr)
	}
}

func (it *Interpreter) evalLiteral(lit *ast.Literal, t types.Type) (Value, error) {
	switch lit.Kind {
	case ast.IntLiteral:
		if types.IsFloat(t.Kind) {
			f, _ := strconv.ParseFloat(lit.Text, 64)
			return Value{Kind: t.Kind, F: f}, nil
		}
		n, ok := new(big.Int).SetString(lit.Text, 10)
		if !ok {
			return Value{}, fmt.Errorf("malformed integer literal: %s", lit.Text)
		}
		return intValue(t.Kind, n.Int64()), nil

	case ast.FloatLiteral:
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("malformed float literal: %s", lit.Text)
		}
		return Value{Kind: t.Kind, F: f}, nil

	case ast.BoolLiteral:
		return intBool(lit.BoolValue), nil

	case ast.StringLiteral:
		return Value{Kind: types.String, S: lit.StringValue}, nil

	default:
		return Value{}, fmt.Errorf("backend: unhandled literal kind")
	}
}

func (it *Interpreter) evalUnary(u *ast.Unary, t types.Type, env *Environment) (Value, error) {
	x, err := it.evalExpr(u.X, env)
	if err != nil {
		return Value{}, err
	}
	switch u.Op {
	case ast.Not:
		return intBool(x.Bits == 0), nil
	case ast.Neg:
		if types.IsFloat(t.Kind) {
			return Value{Kind: t.Kind, F: -x.F}, nil
		}
		return intValue(t.Kind, -x.asSigned()), nil
	default:
		return Value{}, fmt.Errorf("backend: unhandled unary operator")
	}
}

func (it *Interpreter) evalBinary(b *ast.Binary, resultType types.Type, env *Environment) (Value, error) {
	switch b.Op {
	case ast.And:
		left, err := it.evalExpr(b.Left, env)
		if err != nil {
			return Value{}, err
		}
		if left.Bits == 0 {
			return intBool(false), nil
		}
		right, err := it.evalExpr(b.Right, env)
		if err != nil {
			return Value{}, err
		}
		return intBool(right.Bits != 0), nil

	case ast.Or:
		left, err := it.evalExpr(b.Left, env)
		if err != nil {
			return Value{}, err
		}
		if left.Bits != 0 {
			return intBool(true), nil
		}
		right, err := it.evalExpr(b.Right, env)
		if err != nil {
			return Value{}, err
		}
		return intBool(right.Bits != 0), nil
	}

	left, err := it.evalExpr(b.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := it.evalExpr(b.Right, env)
	if err != nil {
		return Value{}, err
	}

	leftType := it.info.ExprTypes[b.Left]

	switch b.Op {
	case ast.Eq, ast.NotEqOp, ast.Less, ast.LessEq, ast.Greater, ast.GreaterEq:
		return it.evalComparison(b.Op, left, right, leftType)
	default:
		return it.evalArithmetic(b.Op, left, right, resultType)
	}
}

func (it *Interpreter) evalComparison(op ast.BinaryOp, left, right Value, leftType types.Type) (Value, error) {
	if leftType.Kind == types.String {
		switch op {
		case ast.Eq:
			return intBool(left.S == right.S), nil
		case ast.NotEqOp:
			return intBool(left.S != right.S), nil
		case ast.Less:
			return intBool(left.S < right.S), nil
		case ast.LessEq:
			return intBool(left.S <= right.S), nil
		case ast.Greater:
			return intBool(left.S > right.S), nil
		case ast.GreaterEq:
			return intBool(left.S >= right.S), nil
		}
	}
	if types.IsFloat(leftType.Kind) {
		switch op {
		case ast.Eq:
			return intBool(left.F == right.F), nil
		case ast.NotEqOp:
			return intBool(left.F != right.F), nil
		case ast.Less:
			return intBool(left.F < right.F), nil
		case ast.LessEq:
			return intBool(left.F <= right.F), nil
		case ast.Greater:
			return intBool(left.F > right.F), nil
		case ast.GreaterEq:
			return intBool(left.F >= right.F), nil
		}
	}
	if leftType.Kind == types.Bool {
		switch op {
		case ast.Eq:
			return intBool(left.Bits == right.Bits), nil
		case ast.NotEqOp:
			return intBool(left.Bits != right.Bits), nil
		}
	}
	signed := types.IsSignedInteger(leftType.Kind)
	switch op {
	case ast.Eq:
		return intBool(left.Bits == right.Bits), nil
	case ast.NotEqOp:
		return intBool(left.Bits != right.Bits), nil
	case ast.Less:
		if signed {
			return intBool(left.asSigned() < right.asSigned()), nil
		}
		return intBool(left.asUnsigned() < right.asUnsigned()), nil
	case ast.LessEq:
		if signed {
			return intBool(left.asSigned() <= right.asSigned()), nil
		}
		return intBool(left.asUnsigned() <= right.asUnsigned()), nil
	case ast.Greater:
		if signed {
			return intBool(left.asSigned() > right.asSigned()), nil
		}
		return intBool(left.asUnsigned() > right.asUnsigned()), nil
	case ast.GreaterEq:
		if signed {
			return intBool(left.asSigned() >= right.asSigned()), nil
		}
		return intBool(left.asUnsigned() >= right.asUnsigned()), nil
	}
	return Value{}, fmt.Errorf("backend: not a comparison operator")
}

func (it *Interpreter) evalArithmetic(op ast.BinaryOp, left, right Value, resultType types.Type) (Value, error) {
	if resultType.Kind == types.String {
		if op == ast.Add {
			return Value{Kind: types.String, S: left.S + right.S}, nil
		}
		return Value{}, fmt.Errorf("backend: unsupported string operator")
	}

	if types.IsFloat(resultType.Kind) {
		var f float64
		switch op {
		case ast.Add:
			f = left.F + right.F
		case ast.Sub:
			f = left.F - right.F
		case ast.Mul:
			f = left.F * right.F
		case ast.Div:
			if right.F == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			f = left.F / right.F
		case ast.Rem:
			return Value{}, fmt.Errorf("backend: modulo is not defined for floating-point operands")
		default:
			return Value{}, fmt.Errorf("backend: unhandled arithmetic operator")
		}
		if resultType.Kind == types.F32 {
			f = float64(float32(f))
		}
		return Value{Kind: resultType.Kind, F: f}, nil
	}

	signed := types.IsSignedInteger(resultType.Kind)
	switch op {
	case ast.Add:
		return intValue(resultType.Kind, left.asSigned()+right.asSigned()), nil
	case ast.Sub:
		return intValue(resultType.Kind, left.asSigned()-right.asSigned()), nil
	case ast.Mul:
		return intValue(resultType.Kind, left.asSigned()*right.asSigned()), nil
	case ast.Div:
		if signed {
			if right.asSigned() == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			return intValue(resultType.Kind, left.asSigned()/right.asSigned()), nil
		}
		if right.asUnsigned() == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Value{Kind: resultType.Kind, Bits: maskTo(left.asUnsigned()/right.asUnsigned(), bitWidth(resultType.Kind))}, nil
	case ast.Rem:
		if signed {
			if right.asSigned() == 0 {
				return Value{}, fmt.Errorf("modulo by zero")
			}
			return intValue(resultType.Kind, left.asSigned()%right.asSigned()), nil
		}
		if right.asUnsigned() == 0 {
			return Value{}, fmt.Errorf("modulo by zero")
		}
		return Value{Kind: resultType.Kind, Bits: maskTo(left.asUnsigned()%right.asUnsigned(), bitWidth(resultType.Kind))}, nil
	default:
		return Value{}, fmt.Errorf("backend: unhandled arithmetic operator")
	}
}

func (it *Interpreter) evalCall(call *ast.Call, resultType types.Type, env *Environment) (Value, error) {
	fn, ok := it.funcs[call.Callee]
	if !ok {
		return Value{}, fmt.Errorf("undefined function: %s", call.Callee)
	}
	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		v, err := it.evalExpr(a, env)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return it.call(fn, args)
}
