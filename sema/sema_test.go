package sema_test

import (
	"strings"
	"testing"

	"github.com/neuro-lang/neuroc/parser"
	"github.com/neuro-lang/neuroc/sema"
)

func TestAnalyzeAcceptsValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"implicit return", `fn add(a: i32, b: i32) -> i32 { a + b }`},
		{"explicit return", `fn add(a: i32, b: i32) -> i32 { return a + b }`},
		{"void function", `fn log(x: i32) { let y = x; }`},
		{"call between functions", `
			fn double(x: i32) -> i32 { x * 2 }
			fn quad(x: i32) -> i32 { double(double(x)) }
		`},
		{"if/else all paths return", `
			fn abs(x: i32) -> i32 {
				if x < 0 {
					return -x
				} else {
					return x
				}
			}
		`},
		{"for-range loop", `
			fn sum(n: i32) -> i32 {
				mut total: i32 = 0;
				for i in 0..n {
					total = total + i;
				}
				return total;
			}
		`},
		{"float literal widening", `fn f() -> f64 { let x: f64 = 3; return x }`},
		{"break and continue inside nested loop blocks", `
			fn scan(n: i32) -> i32 {
				mut total: i32 = 0;
				while total < n {
					for i in 0..n {
						if i == 7 { continue }
						if total > 100 { break }
						total = total + i;
					}
				}
				return total;
			}
		`},
		{"string concatenation", `fn greet(name: string) -> string { "hi " + name }`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog, perr := parser.Parse(tc.src)
			if perr != nil {
				t.Fatalf("unexpected parse error: %v", perr)
			}
			if _, err := sema.Analyze(prog); err != nil {
				t.Fatalf("unexpected semantic error: %s", err.Message)
			}
		})
	}
}

func TestAnalyzeRejectsInvalidPrograms(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"undefined variable", `fn f() -> i32 { return x }`, "SEM006"},
		{"undefined function", `fn f() -> i32 { return g() }`, "SEM020"},
		{"assign to immutable", `fn f() -> i32 { let x = 1; x = 2; return x }`, "SEM008"},
		{"duplicate variable in same scope", `fn f() -> i32 { let x = 1; let x = 2; return x }`, "SEM005"},
		{"type mismatch on annotation", `fn f() -> i32 { let x: bool = 1; return 0 }`, "SEM024"},
		{"missing return value", `fn f() -> i32 { return }`, "SEM009"},
		{"return value in void function", `fn f() { return 1 }`, "SEM010"},
		{"argument count mismatch", `
			fn add(a: i32, b: i32) -> i32 { a + b }
			fn f() -> i32 { return add(1) }
		`, "SEM022"},
		{"void used as value", `
			fn log(x: i32) {}
			fn f() -> i32 { return log(1) }
		`, "SEM023"},
		{"string minus", `fn f() -> string { return "a" - "b" }`, "SEM017"},
		{"negate unsigned", `fn f(x: u32) -> u32 { return -x }`, "SEM014"},
		{"bool ordering comparison", `fn f() -> bool { return true < false }`, "SEM016"},
		{"integer literal out of range", `fn f() -> i8 { return 1000 }`, "SEM012"},
		{"missing return on some path", `
			fn f(x: i32) -> i32 {
				if x > 0 {
					return 1
				}
			}
		`, "SEM025"},
		{"unreachable statement", `
			fn f() -> i32 {
				return 1
				let x = 2
			}
		`, "SEM026"},
		{"break outside of loop", `fn f() { break }`, "SEM027"},
		{"continue outside of loop", `fn f() { continue }`, "SEM027"},
		{"break outside of loop in a nested block", `
			fn f(x: i32) {
				if x > 0 {
					break
				}
			}
		`, "SEM027"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog, perr := parser.Parse(tc.src)
			if perr != nil {
				t.Fatalf("unexpected parse error: %v", perr)
			}
			_, err := sema.Analyze(prog)
			if err == nil {
				t.Fatalf("expected a semantic error containing %s, got none", tc.wantErr)
			}
			if !strings.Contains(err.Code, tc.wantErr) {
				t.Fatalf("expected error code %s, got %s (%s)", tc.wantErr, err.Code, err.Message)
			}
		})
	}
}

func TestAnalyzeRecordsImplicitReturnFlag(t *testing.T) {
	prog, perr := parser.Parse(`fn add(a: i32, b: i32) -> i32 { a + b }`)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	info, err := sema.Analyze(prog)
	if err != nil {
		t.Fatalf("unexpected semantic error: %s", err.Message)
	}
	if !info.ImplicitReturn[prog.Items[0]] {
		t.Fatal("expected ImplicitReturn to be recorded for the trailing expression")
	}
}

func TestAnalyzeTracksExpressionTypes(t *testing.T) {
	prog, perr := parser.Parse(`fn add(a: i32, b: i32) -> i32 { return a + b }`)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	info, err := sema.Analyze(prog)
	if err != nil {
		t.Fatalf("unexpected semantic error: %s", err.Message)
	}
	if len(info.ExprTypes) == 0 {
		t.Fatal("expected at least one resolved expression type")
	}
}
