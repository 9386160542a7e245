// Package backend implements the two ways a type-checked NEURO program can
// be turned into something that runs: ahead-of-time compilation through
// llc and a C linker, or direct tree-walking interpretation of the AST.
package backend

import (
	"fmt"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/sema"
	"github.com/neuro-lang/neuroc/types"
)

// Interpreter evaluates a type-checked NEURO program directly over its
// AST, reusing sema's resolved types so integer width and signed/unsigned
// semantics match what irgen would have produced — it is not a reference
// implementation with looser numeric rules.
type Interpreter struct {
	info    *sema.SemanticInfo
	funcs   map[string]*ast.FuncDecl
	output  []string
	globals *Environment
}

// NewInterpreter prepares an interpreter for repeated Eval calls against
// one analyzed program.
func NewInterpreter(prog *ast.Program, info *sema.SemanticInfo) *Interpreter {
	funcs := make(map[string]*ast.FuncDecl, len(prog.Items))
	for _, fn := range prog.Items {
		funcs[fn.Name] = fn
	}
	return &Interpreter{info: info, funcs: funcs, globals: NewEnvironment(nil)}
}

// signalKind distinguishes why evalBlock unwound before reaching the end
// of its statement list.
type signalKind int

const (
	sigNone signalKind = iota
	sigBreak
	sigContinue
	sigReturn
)

type signal struct {
	kind  signalKind
	value Value
}

// Run evaluates the named entry function with no arguments and returns
// its i32 (or other integer-kind) return value as the process's would-be
// exit code, plus any lines a print builtin would have written — none in
// this subset, so Output is always empty, kept for symmetry with what a
// future builtin would populate.
func (it *Interpreter) Run(entry string) (exitCode int64, output []string, err error) {
	fn, ok := it.funcs[entry]
	if !ok {
		return 0, nil, fmt.Errorf("undefined entry function: %s", entry)
	}
	if len(fn.Params) != 0 {
		return 0, nil, fmt.Errorf("entry function %s must take no arguments", entry)
	}
	v, err := it.call(fn, nil)
	if err != nil {
		return 0, it.output, err
	}
	if types.IsSignedInteger(v.Kind) {
		return v.asSigned(), it.output, nil
	}
	return int64(v.asUnsigned()), it.output, nil
}

func (it *Interpreter) call(fn *ast.FuncDecl, args []Value) (Value, error) {
	env := NewEnvironment(nil)
	for i, p := range fn.Params {
		env.Set(p.Name, args[i])
	}
	sig, err := it.evalFunctionBody(fn, env)
	if err != nil {
		return Value{}, err
	}
	switch sig.kind {
	case sigReturn:
		return sig.value, nil
	case sigBreak, sigContinue:
		// sema rejects break/continue outside a loop; an escape to function
		// level means the tree was never checked.
		return Value{}, fmt.Errorf("break or continue outside of loop in %s", fn.Name)
	}
	return Value{Kind: types.Void}, nil
}

// evalFunctionBody runs fn's top-level statement sequence, honoring the
// same implicit-return rule irgen's lowerBody does: a trailing
// expression-statement in a value-returning function sema already marked
// as an implicit return evaluates as that function's result.
func (it *Interpreter) evalFunctionBody(fn *ast.FuncDecl, env *Environment) (signal, error) {
	for i, stmt := range fn.Body {
		isLast := i == len(fn.Body)-1
		if isLast && it.info.ImplicitReturn[fn] {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				v, err := it.evalExpr(es.X, env)
				if err != nil {
					return signal{}, err
				}
				return signal{kind: sigReturn, value: v}, nil
			}
		}
		sig, err := it.evalStmt(stmt, env)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return signal{kind: sigNone}, nil
}

// evalBlock runs stmts in env, stopping early on break/continue/return —
// used for nested blocks (if/while/for bodies), which never carry an
// implicit-return ExprStmt of their own.
func (it *Interpreter) evalBlock(stmts []ast.Stmt, env *Environment) (signal, error) {
	for _, stmt := range stmts {
		sig, err := it.evalStmt(stmt, env)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return signal{kind: sigNone}, nil
}

func (it *Interpreter) evalStmt(stmt ast.Stmt, env *Environment) (signal, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		var v Value
		if s.Init != nil {
			var err error
			v, err = it.evalExpr(s.Init, env)
			if err != nil {
				return signal{}, err
			}
		}
		env.Set(s.Name, v)
		return signal{}, nil

	case *ast.Assign:
		v, err := it.evalExpr(s.Value, env)
		if err != nil {
			return signal{}, err
		}
		if !env.Assign(s.TargetName, v) {
			return signal{}, fmt.Errorf("assignment to undeclared variable: %s", s.TargetName)
		}
		return signal{}, nil

	case *ast.Return:
		if s.Value == nil {
			return signal{kind: sigReturn, value: Value{Kind: types.Void}}, nil
		}
		v, err := it.evalExpr(s.Value, env)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: sigReturn, value: v}, nil

	case *ast.If:
		return it.evalIf(s, env)

	case *ast.While:
		for {
			cond, err := it.evalExpr(s.Cond, env)
			if err != nil {
				return signal{}, err
			}
			if cond.Bits == 0 {
				return signal{}, nil
			}
			sig, err := it.evalBlock(s.Body, NewEnvironment(env))
			if err != nil {
				return signal{}, err
			}
			switch sig.kind {
			case sigBreak:
				return signal{}, nil
			case sigReturn:
				return sig, nil
			}
		}

	case *ast.ForRange:
		start, err := it.evalExpr(s.Start, env)
		if err != nil {
			return signal{}, err
		}
		end, err := it.evalExpr(s.EndExclusive, env)
		if err != nil {
			return signal{}, err
		}
		for i := start.asSigned(); i < end.asSigned(); i++ {
			loopEnv := NewEnvironment(env)
			loopEnv.Set(s.Var, intValue(types.I32, i))
			sig, err := it.evalBlock(s.Body, loopEnv)
			if err != nil {
				return signal{}, err
			}
			switch sig.kind {
			case sigBreak:
				return signal{}, nil
			case sigReturn:
				return sig, nil
			}
		}
		return signal{}, nil

	case *ast.Break:
		return signal{kind: sigBreak}, nil

	case *ast.Continue:
		return signal{kind: sigContinue}, nil

	case *ast.ExprStmt:
		// A bare expression statement's value is discarded; the one case
		// where it becomes a return is handled by evalFunctionBody before
		// this switch is ever reached for that statement.
		_, err := it.evalExpr(s.X, env)
		return signal{}, err

	default:
		return signal{}, fmt.Errorf("backend: unhandled statement type %T", stmt)
	}
}

func (it *Interpreter) evalIf(s *ast.If, env *Environment) (signal, error) {
	cond, err := it.evalExpr(s.Cond, env)
	if err != nil {
		return signal{}, err
	}
	if cond.Bits != 0 {
		return it.evalBlock(s.Then, NewEnvironment(env))
	}
	for _, ei := range s.ElseIf {
		c, err := it.evalExpr(ei.Cond, env)
		if err != nil {
			return signal{}, err
		}
		if c.Bits != 0 {
			return it.evalBlock(ei.Body, NewEnvironment(env))
		}
	}
	if s.Else != nil {
		return it.evalBlock(s.Else, NewEnvironment(env))
	}
	return signal{}, nil
}
