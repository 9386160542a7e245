package sema

import (
	"fmt"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/types"
)

// passA walks every item and registers its function symbol in the global
// frame. Duplicate function names and duplicate parameter names are hard
// errors (Pass A).
func (a *Analyzer) passA(prog *ast.Program) {
	for _, fn := range prog.Items {
		paramTypes := make([]types.Type, 0, len(fn.Params))
		seen := map[string]bool{}
		for _, p := range fn.Params {
			if seen[p.Name] {
				a.addErr(diag.CodeSem+"001", fmt.Sprintf("parameter %q already defined", p.Name), p.Span)
				continue
			}
			seen[p.Name] = true
			t, ok := types.Lookup(p.Type.Name)
			if !ok {
				a.addErr(diag.CodeSem+"002", fmt.Sprintf("unsupported type %q", p.Type.Name), p.Type.Span)
				t = types.Type{Kind: types.Unknown}
			}
			paramTypes = append(paramTypes, t)
		}

		retType := types.Type{Kind: types.Void}
		if fn.ReturnType != nil {
			t, ok := types.Lookup(fn.ReturnType.Name)
			if !ok {
				a.addErr(diag.CodeSem+"002", fmt.Sprintf("unsupported type %q", fn.ReturnType.Name), fn.ReturnType.Span)
				t = types.Type{Kind: types.Unknown}
			}
			retType = t
		}

		sym := Symbol{
			Name:       fn.Name,
			Span:       fn.Span,
			IsFunction: true,
			ParamTypes: paramTypes,
			ReturnType: retType,
		}
		if !a.scope.DeclareGlobal(sym) {
			a.addErr(diag.CodeSem+"003", fmt.Sprintf("function %q already defined", fn.Name), fn.Span)
		}
	}
}
