package backend

import "github.com/neuro-lang/neuroc/ast"

// EvalExpression evaluates one standalone type-checked expression in an
// empty environment — the eval subcommand's path into the interpreter.
// The expression must have been analyzed into the SemanticInfo this
// interpreter was built with.
func (it *Interpreter) EvalExpression(expr ast.Expr) (Value, error) {
	return it.evalExpr(expr, NewEnvironment(nil))
}
