package parser

import (
	"testing"

	"github.com/neuro-lang/neuroc/ast"
)

func TestParseSimpleReturn(t *testing.T) {
	prog, err := Parse(`fn main() -> i32 { return 42 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn := prog.Items[0]
	if fn.Name != "main" {
		t.Fatalf("expected function named main, got %q", fn.Name)
	}
	if fn.ReturnType == nil || fn.ReturnType.Name != "i32" {
		t.Fatalf("expected return type i32, got %+v", fn.ReturnType)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected Return statement, got %T", fn.Body[0])
	}
	lit, ok := ret.Value.(*ast.Literal)
	if !ok || lit.Text != "42" {
		t.Fatalf("expected literal 42, got %+v", ret.Value)
	}
}

func TestParseBothKeywordAliasFamilies(t *testing.T) {
	sources := []string{
		`fn add(a: i32, b: i32) -> i32 { let sum = a + b; return sum }`,
		`func add(a: i32, b: i32) -> i32 { val sum = a + b; return sum }`,
	}
	for _, src := range sources {
		if _, err := Parse(src); err != nil {
			t.Fatalf("unexpected error for %q: %v", src, err)
		}
	}
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	prog, err := Parse(`fn main() -> i32 { return 1 - 2 - 3 + 4 * 5 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret := prog.Items[0].Body[0].(*ast.Return)
	top, ok := ret.Value.(*ast.Binary)
	if !ok || top.Op != ast.Add {
		t.Fatalf("expected top-level '+', got %+v", ret.Value)
	}
	left, ok := top.Left.(*ast.Binary)
	if !ok || left.Op != ast.Sub {
		t.Fatalf("expected left '-' subtree, got %+v", top.Left)
	}
	leftLeft, ok := left.Left.(*ast.Binary)
	if !ok || leftLeft.Op != ast.Sub {
		t.Fatalf("expected (1-2)-3 left-associative grouping, got %+v", left.Left)
	}
	right, ok := top.Right.(*ast.Binary)
	if !ok || right.Op != ast.Mul {
		t.Fatalf("expected right '*' subtree for precedence, got %+v", top.Right)
	}
}

func TestParseIfElseIfElse(t *testing.T) {
	prog, err := Parse(`fn main() -> i32 {
		if x > 5 {
			return 1
		} else if x > 0 {
			return 2
		} else {
			return 3
		}
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifStmt, ok := prog.Items[0].Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected If statement, got %T", prog.Items[0].Body[0])
	}
	if len(ifStmt.ElseIf) != 1 {
		t.Fatalf("expected 1 else-if, got %d", len(ifStmt.ElseIf))
	}
	if ifStmt.Else == nil {
		t.Fatal("expected a final else block")
	}
}

func TestParseForRange(t *testing.T) {
	prog, err := Parse(`fn main() -> i32 {
		for i in 0..10 {
			continue
		}
		return 0
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	forStmt, ok := prog.Items[0].Body[0].(*ast.ForRange)
	if !ok {
		t.Fatalf("expected ForRange statement, got %T", prog.Items[0].Body[0])
	}
	if forStmt.Var != "i" {
		t.Fatalf("expected loop variable i, got %q", forStmt.Var)
	}
}

func TestParseImplicitReturn(t *testing.T) {
	prog, err := Parse(`fn add(a: i32, b: i32) -> i32 { a + b }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stmt, ok := prog.Items[0].Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected trailing ExprStmt, got %T", prog.Items[0].Body[0])
	}
	if _, ok := stmt.X.(*ast.Binary); !ok {
		t.Fatalf("expected binary expr, got %T", stmt.X)
	}
}

func TestParseCallExpression(t *testing.T) {
	prog, err := Parse(`fn main() -> i32 { add(20, 22) }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stmt := prog.Items[0].Body[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.Call)
	if !ok {
		t.Fatalf("expected Call, got %T", stmt.X)
	}
	if call.Callee != "add" || len(call.Args) != 2 {
		t.Fatalf("unexpected call shape: %+v", call)
	}
}

func TestParseDuplicateParameterError(t *testing.T) {
	_, err := Parse(`fn f(a: i32, a: i32) -> i32 { return a }`)
	if err == nil {
		t.Fatal("expected a duplicate parameter error")
	}
}

func TestParseUnclosedBlockError(t *testing.T) {
	_, err := Parse(`fn f() -> i32 { return 1`)
	if err == nil {
		t.Fatal("expected an unclosed delimiter error")
	}
}

func TestParseMaxNestingDepth(t *testing.T) {
	src := "fn f() -> i32 { return "
	for i := 0; i < 300; i++ {
		src += "("
	}
	src += "1"
	for i := 0; i < 300; i++ {
		src += ")"
	}
	src += " }"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected a max-nesting-depth error")
	}
}

func TestParseEmptySource(t *testing.T) {
	prog, err := Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Items) != 0 {
		t.Fatalf("expected zero items, got %d", len(prog.Items))
	}
}
