package backend

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/neuro-lang/neuroc/irgen"
	"github.com/neuro-lang/neuroc/parser"
	"github.com/neuro-lang/neuroc/sema"
)

func requireTools(t *testing.T) *AOTCompiler {
	t.Helper()
	aot, err := NewAOTCompiler()
	if err != nil {
		var notFound *ToolNotFoundError
		if errors.As(err, &notFound) {
			t.Skipf("skipping: %v", err)
		}
		t.Fatalf("unexpected error resolving tools: %v", err)
	}
	return aot
}

func TestAOTCompileAndRun(t *testing.T) {
	aot := requireTools(t)

	prog, perr := parser.Parse(`fn main() -> i32 { return 42 }`)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	info, serr := sema.Analyze(prog)
	if serr != nil {
		t.Fatalf("sema error: %v", serr)
	}
	ir, ierr := irgen.Emit(prog, info, "answer")
	if ierr != nil {
		t.Fatalf("emit error: %v", ierr)
	}

	scratch := t.TempDir()
	out := filepath.Join(t.TempDir(), "answer")
	exePath, err := aot.Compile(context.Background(), ir, "answer", scratch, out, 0)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	cmd := exec.Command(exePath)
	err = cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 42 {
		t.Fatalf("expected exit code 42, got %v", err)
	}
}

func TestAOTSubprocessFailureCarriesStderrAndCommand(t *testing.T) {
	aot := requireTools(t)

	scratch := t.TempDir()
	out := filepath.Join(scratch, "broken")
	_, err := aot.Compile(context.Background(), "this is not LLVM IR\n", "broken", scratch, out, 0)
	if err == nil {
		t.Fatal("expected llc to reject malformed IR")
	}
	var sub *SubprocessError
	if !errors.As(err, &sub) {
		t.Fatalf("expected a SubprocessError, got %T: %v", err, err)
	}
	if sub.CommandLine == "" || sub.Stderr == "" {
		t.Errorf("SubprocessError missing context: %+v", sub)
	}
}

func TestAOTCancelledContext(t *testing.T) {
	aot := requireTools(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scratch := t.TempDir()
	_, err := aot.Compile(ctx, "; empty\n", "m", scratch, filepath.Join(scratch, "m"), 0)
	if err == nil {
		t.Fatal("expected a cancelled compile to fail")
	}
}
