package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/neuro-lang/neuroc/ast"
)

// ignoreSpans compares ASTs structurally: the printer does not reproduce
// byte offsets, only shape.
var ignoreSpans = cmp.Options{
	cmpopts.IgnoreFields(ast.FuncDecl{}, "Span"),
	cmpopts.IgnoreFields(ast.Param{}, "Span"),
	cmpopts.IgnoreFields(ast.TypeExpr{}, "Span"),
	cmpopts.IgnoreFields(ast.VarDecl{}, "Span"),
	cmpopts.IgnoreFields(ast.Assign{}, "Span"),
	cmpopts.IgnoreFields(ast.Return{}, "Span"),
	cmpopts.IgnoreFields(ast.If{}, "Span"),
	cmpopts.IgnoreFields(ast.While{}, "Span"),
	cmpopts.IgnoreFields(ast.ForRange{}, "Span"),
	cmpopts.IgnoreFields(ast.Break{}, "Span"),
	cmpopts.IgnoreFields(ast.Continue{}, "Span"),
	cmpopts.IgnoreFields(ast.ExprStmt{}, "Span"),
	cmpopts.IgnoreFields(ast.Literal{}, "Span"),
	cmpopts.IgnoreFields(ast.Ident{}, "Span"),
	cmpopts.IgnoreFields(ast.Unary{}, "Span"),
	cmpopts.IgnoreFields(ast.Binary{}, "Span"),
	cmpopts.IgnoreFields(ast.Call{}, "Span"),
	cmpopts.IgnoreFields(ast.Paren{}, "Span"),
}

// Parse -> print -> parse must reproduce the same tree, spans aside.
func TestPrintParseRoundTrip(t *testing.T) {
	sources := []string{
		`fn main() -> i32 { return 42 }`,
		`fn add(a: i32, b: i32) -> i32 { a + b }`,
		`fn grouping() -> i32 { return (1 + 2) * 3 - -4 }`,
		`fn branches(x: i32) -> i32 {
			if x > 10 {
				return 1
			} else if x > 5 {
				return 2
			} else {
				return 3
			}
		}`,
		`fn loops() -> i32 {
			mut total = 0
			for i in 0..10 {
				if i % 2 == 0 { continue }
				total = total + i
			}
			while total > 100 {
				total = total - 1
				break
			}
			return total
		}`,
		`fn strings() { let greeting: string = "hi\n\t\"there\"" }`,
		`fn logic(a: bool, b: bool) -> bool { return !a && (b || a != b) }`,
		`fn floats() -> f64 { val x = 1.5; x * 2.0 }`,
	}

	for _, src := range sources {
		first, err := Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		printed := ast.Print(first)
		second, err := Parse(printed)
		if err != nil {
			t.Fatalf("re-parse of printed source failed: %v\nprinted:\n%s", err, printed)
		}
		if diff := cmp.Diff(first, second, ignoreSpans); diff != "" {
			t.Errorf("round trip changed the tree (-first +second):\n%s\nprinted:\n%s", diff, printed)
		}
	}
}
