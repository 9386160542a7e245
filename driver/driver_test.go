package driver

import (
	"strings"
	"testing"
)

// The end-to-end programs a working pipeline must run correctly, executed
// through the interpreter so the tests need no external toolchain.
func TestRunJITScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{
			"simple return",
			`func main() -> i32 { return 42 }`,
			42,
		},
		{
			"arithmetic with locals",
			`func main() -> i32 { val a:i32=10; val b:i32=5; val sum:i32=a+b; val diff:i32=a-b; val prod:i32=a*b; return sum+diff+prod }`,
			70,
		},
		{
			"function call and implicit return",
			`func add(a:i32,b:i32)->i32{a+b} func main()->i32{ add(20,22) }`,
			42,
		},
		{
			"if/else branch",
			`func main()->i32{ val x:i32=10; if x>5 { return 100 } return 50 }`,
			100,
		},
		{
			"recursion",
			`func fact(n:i32)->i32{ if n<=1 { return 1 } else { return n*fact(n-1) } } func main()->i32{ fact(5) }`,
			120,
		},
		{
			"while loop with break",
			`fn main() -> i32 {
				mut i = 0
				mut total = 0
				while true {
					if i >= 10 { break }
					total = total + i
					i = i + 1
				}
				return total
			}`,
			45,
		},
		{
			"for range loop",
			`fn main() -> i32 {
				mut total = 0
				for i in 1..5 {
					total = total + i
				}
				return total
			}`,
			10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("test.nr", tt.src)
			res, err := c.RunJIT()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.ExitCode != tt.want {
				t.Errorf("exit code = %d, want %d", res.ExitCode, tt.want)
			}
			if len(res.Output) != 0 {
				t.Errorf("unexpected output: %v", res.Output)
			}
		})
	}
}

func TestCheckTypeError(t *testing.T) {
	c := New("test.nr", `func main()->i32{ val x:i32 = true; return x }`)
	err := c.Check()
	if err == nil {
		t.Fatal("expected a type error")
	}
	if !strings.Contains(err.Render(c.SourceMap), "type mismatch") {
		t.Errorf("diagnostic = %q, want a type mismatch", err.Render(c.SourceMap))
	}
}

func TestCheckEmptyAndCommentOnlySource(t *testing.T) {
	for _, src := range []string{"", "// just a comment\n/* and\na block */\n"} {
		c := New("test.nr", src)
		if err := c.Check(); err != nil {
			t.Errorf("source %q: unexpected error: %v", src, err)
		}
		if len(c.Program.Items) != 0 {
			t.Errorf("source %q: expected zero items", src)
		}
	}
}

func TestEmitIRGatedOnSemanticError(t *testing.T) {
	c := New("test.nr", `fn main() -> i32 { return missing }`)
	if _, err := c.EmitIR(); err == nil {
		t.Fatal("expected emission to be gated on the semantic error")
	}
}

func TestModuleName(t *testing.T) {
	c := New("/path/to/program.nr", "")
	if got := c.ModuleName(); got != "program" {
		t.Errorf("ModuleName() = %q, want program", got)
	}
}

func TestEvalExpression(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"10 % 3", "1"},
		{"1.5 + 2.25", "3.75"},
		{"3 > 2 && 1 != 2", "true"},
		{"!true", "false"},
		{`"foo" + "bar"`, "foobar"},
		{"-5", "-5"},
	}
	for _, tt := range tests {
		got, err := EvalExpression(tt.src)
		if err != nil {
			t.Errorf("EvalExpression(%q): unexpected error: %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EvalExpression(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestEvalExpressionErrors(t *testing.T) {
	for _, src := range []string{"missing", "1 + true", "1 +"} {
		if _, err := EvalExpression(src); err == nil {
			t.Errorf("EvalExpression(%q): expected an error", src)
		}
	}
}
