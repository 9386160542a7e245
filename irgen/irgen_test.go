package irgen_test

import (
	"strings"
	"testing"

	"github.com/neuro-lang/neuroc/irgen"
	"github.com/neuro-lang/neuroc/parser"
	"github.com/neuro-lang/neuroc/sema"
)

func mustEmit(t *testing.T, src string) string {
	t.Helper()
	prog, perr := parser.Parse(src)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	info, serr := sema.Analyze(prog)
	if serr != nil {
		t.Fatalf("unexpected semantic error: %s", serr.Message)
	}
	ir, ierr := irgen.Emit(prog, info, "test")
	if ierr != nil {
		t.Fatalf("unexpected irgen error: %s", ierr.Message)
	}
	return ir
}

func TestEmitDefinesEveryFunction(t *testing.T) {
	ir := mustEmit(t, `
		fn double(x: i32) -> i32 { x * 2 }
		fn log(x: i32) {}
	`)
	if !strings.Contains(ir, "define i32 @double(i32 %x) {") {
		t.Fatalf("expected a define for double, got:\n%s", ir)
	}
	if !strings.Contains(ir, "define void @log(i32 %x) {") {
		t.Fatalf("expected a define for log, got:\n%s", ir)
	}
}

func TestEmitVoidFunctionReturnsVoid(t *testing.T) {
	ir := mustEmit(t, `fn noop() {}`)
	if !strings.Contains(ir, "ret void") {
		t.Fatalf("expected a ret void, got:\n%s", ir)
	}
}

func TestEmitImplicitReturn(t *testing.T) {
	ir := mustEmit(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	if !strings.Contains(ir, "ret i32") {
		t.Fatalf("expected a ret i32 for the implicit return, got:\n%s", ir)
	}
	if !strings.Contains(ir, "add i32") {
		t.Fatalf("expected an add instruction, got:\n%s", ir)
	}
}

func TestEmitStringLiteralProducesGlobal(t *testing.T) {
	ir := mustEmit(t, `fn greet() -> string { return "hi" }`)
	if !strings.Contains(ir, "@.str.0") {
		t.Fatalf("expected a deduplicated string global, got:\n%s", ir)
	}
	if !strings.Contains(ir, `constant [3 x i8] c"hi\00"`) {
		t.Fatalf("expected a NUL-terminated byte array constant, got:\n%s", ir)
	}
}

func TestEmitDedupesRepeatedStringLiterals(t *testing.T) {
	ir := mustEmit(t, `
		fn a() -> string { return "same" }
		fn b() -> string { return "same" }
	`)
	if strings.Count(ir, "@.str.0 = private") != 1 {
		t.Fatalf("expected exactly one definition of the shared string global, got:\n%s", ir)
	}
	if strings.Contains(ir, "@.str.1") {
		t.Fatalf("expected no second string global for an identical literal, got:\n%s", ir)
	}
}

func TestEmitIfElseBothReturnOmitsJoinBlock(t *testing.T) {
	ir := mustEmit(t, `
		fn abs(x: i32) -> i32 {
			if x < 0 {
				return -x
			} else {
				return x
			}
		}
	`)
	if strings.Contains(ir, "if.end") {
		t.Fatalf("expected the join block to be omitted when both arms terminate, got:\n%s", ir)
	}
}

func TestEmitWhileLoopStructure(t *testing.T) {
	ir := mustEmit(t, `
		fn countdown(n: i32) -> i32 {
			mut x: i32 = n;
			while x > 0 {
				x = x - 1;
			}
			return x;
		}
	`)
	for _, want := range []string{"while.header", "while.body", "while.exit"} {
		if !strings.Contains(ir, want) {
			t.Fatalf("expected label %q in output, got:\n%s", want, ir)
		}
	}
}

func TestEmitBoolCrossesTheI1I8MemoryBoundary(t *testing.T) {
	ir := mustEmit(t, `
		fn isPositive(x: i32) -> bool {
			mut flag: bool = x > 0;
			return flag;
		}
	`)
	if !strings.Contains(ir, "flag.") {
		t.Fatalf("expected a named alloca for flag, got:\n%s", ir)
	}
	if !strings.Contains(ir, "zext i1") {
		t.Fatalf("expected a zext i1 ... to i8 storing into the bool alloca, got:\n%s", ir)
	}
	if !strings.Contains(ir, "trunc i8") {
		t.Fatalf("expected a trunc i8 ... to i1 loading from the bool alloca, got:\n%s", ir)
	}
	if !strings.Contains(ir, "ret i1") {
		t.Fatalf("expected the function to return an i1 SSA value, got:\n%s", ir)
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	src := `
		fn add(a: i32, b: i32) -> i32 { a + b }
		fn greet() -> string { "hi" }
		fn farewell() -> string { "bye" }
	`
	first := mustEmit(t, src)
	second := mustEmit(t, src)
	if first != second {
		t.Fatal("expected emitting the same program twice to be byte-identical")
	}
}

func TestEmitRejectsStringConcatenation(t *testing.T) {
	prog, perr := parser.Parse(`fn cat(a: string, b: string) -> string { return a + b }`)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	info, serr := sema.Analyze(prog)
	if serr != nil {
		t.Fatalf("unexpected semantic error: %s", serr.Message)
	}
	if _, ierr := irgen.Emit(prog, info, "test"); ierr == nil {
		t.Fatal("expected irgen to reject string concatenation")
	}
}
