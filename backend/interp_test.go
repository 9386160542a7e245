package backend

import (
	"testing"

	"github.com/neuro-lang/neuroc/parser"
	"github.com/neuro-lang/neuroc/sema"
)

// runMain analyzes src and interprets its main function.
func runMain(t *testing.T, src string) int64 {
	t.Helper()
	prog, perr := parser.Parse(src)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	info, serr := sema.Analyze(prog)
	if serr != nil {
		t.Fatalf("sema error: %v", serr)
	}
	it := NewInterpreter(prog, info)
	code, output, err := it.Run("main")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(output) != 0 {
		t.Fatalf("unexpected output: %v", output)
	}
	return code
}

func TestRunArithmeticAndCalls(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{
			"nested calls",
			`fn double(x: i32) -> i32 { x * 2 }
			 fn main() -> i32 { double(double(10)) + 2 }`,
			42,
		},
		{
			"shadowing across blocks",
			`fn main() -> i32 {
				let x = 1
				if true {
					let x = 10
					if x != 10 { return 99 }
				}
				return x
			}`,
			1,
		},
		{
			"unary operators",
			`fn main() -> i32 { val t = !false; if t { return -(-7) } return 0 }`,
			7,
		},
		{
			"i8 wraps on overflow",
			`fn main() -> i32 {
				let a: i8 = 127
				let b: i8 = a + 1
				if b < 0 { return 1 }
				return 0
			}`,
			1,
		},
		{
			"unsigned division and comparison",
			`fn main() -> i32 {
				let a: u8 = 200
				let b: u8 = a / 3
				if b == 66 && a > b { return 1 }
				return 0
			}`,
			1,
		},
		{
			"float math drives a branch",
			`fn main() -> i32 {
				let half: f64 = 1.0 / 2.0
				if half < 0.6 && half * 4.0 == 2.0 { return 1 }
				return 0
			}`,
			1,
		},
		{
			"string equality",
			`fn pick(name: string) -> i32 { if name == "neuro" { return 1 } return 0 }
			 fn main() -> i32 { pick("neuro") }`,
			1,
		},
		{
			"continue skips iterations",
			`fn main() -> i32 {
				mut total = 0
				for i in 0..10 {
					if i % 2 == 1 { continue }
					total = total + i
				}
				return total
			}`,
			20,
		},
		{
			"while with mutation",
			`fn main() -> i32 {
				mut n = 1
				while n < 100 { n = n * 3 }
				return n
			}`,
			243,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runMain(t, tt.src); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunDivisionByZeroAtRuntime(t *testing.T) {
	prog, perr := parser.Parse(`fn div(a: i32, b: i32) -> i32 { a / b } fn main() -> i32 { div(1, 0) }`)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	info, serr := sema.Analyze(prog)
	if serr != nil {
		t.Fatalf("sema error: %v", serr)
	}
	it := NewInterpreter(prog, info)
	if _, _, err := it.Run("main"); err == nil {
		t.Fatal("expected a runtime division-by-zero error")
	}
}

func TestRunMissingEntry(t *testing.T) {
	prog, _ := parser.Parse(`fn helper() -> i32 { 1 }`)
	info, serr := sema.Analyze(prog)
	if serr != nil {
		t.Fatalf("sema error: %v", serr)
	}
	it := NewInterpreter(prog, info)
	if _, _, err := it.Run("main"); err == nil {
		t.Fatal("expected an undefined-entry error")
	}
}
