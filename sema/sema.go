// Package sema implements NEURO's semantic analyzer: three passes sharing
// one diagnostics report and one scope stack —
// declaration collection, bidirectional type checking with numeric-literal
// inference, and control-flow reachability.
package sema

import (
	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/sourcemap"
	"github.com/neuro-lang/neuroc/types"
)

// SemanticInfo is the Pass B/C output: the resolved type of every
// expression node, keyed by node identity, handed to irgen so it never
// re-derives a type the checker already computed.
type SemanticInfo struct {
	ExprTypes map[ast.Expr]types.Type
	// ImplicitReturn marks, per function, whether its body's trailing
	// ExprStmt is an implicit return.
	ImplicitReturn map[*ast.FuncDecl]bool
}

func newSemanticInfo() *SemanticInfo {
	return &SemanticInfo{
		ExprTypes:      make(map[ast.Expr]types.Type),
		ImplicitReturn: make(map[*ast.FuncDecl]bool),
	}
}

// Analyzer runs the three passes over one program, sharing one diagnostics
// report and one scope stack.
type Analyzer struct {
	report  diag.Report
	scope   *Scope
	info    *SemanticInfo
	curFunc *Symbol // function currently being checked, for return-type checks
	loopDep int      // > 0 inside a while/for body, for break/continue validity
}

// Analyze runs Pass A, B, and C over prog and returns the accumulated
// SemanticInfo, or the first diagnostic recorded if any pass produced an
// error: all three passes share one diagnostics list.
func Analyze(prog *ast.Program) (*SemanticInfo, *diag.Diagnostic) {
	a := &Analyzer{scope: NewScope(), info: newSemanticInfo()}

	a.passA(prog)
	if a.report.HasErrors() {
		return nil, a.report.First()
	}

	for _, fn := range prog.Items {
		a.passB(fn)
	}
	if a.report.HasErrors() {
		return nil, a.report.First()
	}

	for _, fn := range prog.Items {
		a.passC(fn)
	}
	if a.report.HasErrors() {
		return nil, a.report.First()
	}

	return a.info, nil
}

// Report exposes every diagnostic recorded across all passes. Analyze
// builds its Analyzer internally and does not return it, so outside this
// package only the first error, as returned by Analyze, is available.
func (a *Analyzer) Report() *diag.Report { return &a.report }

func (a *Analyzer) addErr(code, msg string, span sourcemap.Span, notes ...string) {
	a.report.Add(diag.Diagnostic{
		Severity: diag.Error,
		Message:  msg,
		Span:     &span,
		Code:     code,
		Notes:    notes,
	})
}
