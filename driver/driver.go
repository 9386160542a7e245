// Package driver orchestrates one compilation: it sequences the pipeline
// stages over a single source buffer, entering each stage only when the
// previous one reported no error, and owns the scratch directory the
// backend writes its temporary artifacts into.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/backend"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/irgen"
	"github.com/neuro-lang/neuroc/lexer"
	"github.com/neuro-lang/neuroc/parser"
	"github.com/neuro-lang/neuroc/sema"
	"github.com/neuro-lang/neuroc/sourcemap"
	"github.com/neuro-lang/neuroc/token"
)

// Compilation is one pipeline invocation over one source buffer. The
// source map lives here — scoped to this invocation, never process-wide —
// so every stage's diagnostics render against the same buffer.
type Compilation struct {
	SourceMap *sourcemap.Map
	Program   *ast.Program
	Info      *sema.SemanticInfo
}

// New prepares a compilation over src, identified by name (typically the
// source file path) in diagnostics.
func New(name, src string) *Compilation {
	return &Compilation{SourceMap: sourcemap.New(name, src)}
}

// NewFromFile reads path and prepares a compilation over its contents.
func NewFromFile(path string) (*Compilation, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return New(path, string(src)), nil
}

// ModuleName derives the emitted module's name from the source file stem.
func (c *Compilation) ModuleName() string {
	base := filepath.Base(c.SourceMap.Name())
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *Compilation) source() string {
	return c.SourceMap.Text(sourcemap.Span{Start: 0, End: c.SourceMap.Len()})
}

// Tokenize runs the lexer alone, for the tokenize subcommand.
func (c *Compilation) Tokenize() ([]token.Token, *diag.Diagnostic) {
	return lexer.Tokenize(c.source())
}

// Parse runs lex + parse and caches the program.
func (c *Compilation) Parse() (*ast.Program, *diag.Diagnostic) {
	if c.Program != nil {
		return c.Program, nil
	}
	prog, err := parser.Parse(c.source())
	if err != nil {
		return nil, err
	}
	c.Program = prog
	return prog, nil
}

// Check runs lex + parse + semantic analysis, caching both results. It is
// the gate every code-producing operation passes through first.
func (c *Compilation) Check() *diag.Diagnostic {
	if c.Info != nil {
		return nil
	}
	prog, err := c.Parse()
	if err != nil {
		return err
	}
	info, err := sema.Analyze(prog)
	if err != nil {
		return err
	}
	c.Info = info
	return nil
}

// EmitIR runs the pipeline through IR emission and returns the module text.
func (c *Compilation) EmitIR() (string, *diag.Diagnostic) {
	if err := c.Check(); err != nil {
		return "", err
	}
	return irgen.Emit(c.Program, c.Info, c.ModuleName())
}

// Build compiles the source ahead-of-time into an executable at outPath.
// Temporary artifacts live in a per-build scratch directory under the
// system temp root, keyed by a fresh uuid, and are removed whether the
// build succeeds or fails; the executable appears at outPath only on
// success, via rename.
func (c *Compilation) Build(ctx context.Context, outPath string, optLevel int) (string, error) {
	ir, diagErr := c.EmitIR()
	if diagErr != nil {
		return "", diagErr
	}

	aot, err := backend.NewAOTCompiler()
	if err != nil {
		return "", err
	}

	scratch := filepath.Join(os.TempDir(), "neuroc-"+uuid.New().String())
	if err := os.Mkdir(scratch, 0o755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	return aot.Compile(ctx, ir, c.ModuleName(), scratch, outPath, optLevel)
}

// RunResult is what executing a program produced, whichever backend ran it.
type RunResult struct {
	ExitCode int64
	Output   []string
	// JIT reports that the tree-walking interpreter ran the program because
	// the external toolchain was unavailable.
	JIT bool
}

// Run compiles and executes the program's main function. When llc or a C
// linker is missing it falls back to the interpreter; any other build
// failure is returned as-is.
func (c *Compilation) Run(ctx context.Context, optLevel int) (*RunResult, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}

	exePath, err := c.Build(ctx, filepath.Join(os.TempDir(), "neuroc-run-"+uuid.New().String()), optLevel)
	if err != nil {
		var notFound *backend.ToolNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		return c.runJIT()
	}
	defer os.Remove(exePath)
	return runExecutable(ctx, exePath)
}

// RunJIT executes the program with the tree-walking interpreter
// unconditionally, for callers that never want subprocesses (eval, tests).
func (c *Compilation) RunJIT() (*RunResult, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	return c.runJIT()
}

func (c *Compilation) runJIT() (*RunResult, error) {
	it := backend.NewInterpreter(c.Program, c.Info)
	code, output, err := it.Run("main")
	if err != nil {
		return nil, err
	}
	return &RunResult{ExitCode: code, Output: output, JIT: true}, nil
}

// runExecutable runs the built program and captures its exit code and
// stdout lines. A non-negative exit code is the program's own return
// value; failures to start the process at all surface as errors.
func runExecutable(ctx context.Context, exePath string) (*RunResult, error) {
	cmd := exec.CommandContext(ctx, exePath)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %q: %w", exePath, err)
		}
		code = exitErr.ExitCode()
	}
	var lines []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return &RunResult{ExitCode: int64(code), Output: lines}, nil
}

// EvalExpression analyzes and evaluates one standalone expression, the eval
// subcommand's whole pipeline. The expression is wrapped in a synthetic
// void function so the analyzer's normal three passes check it with no
// expected type; the interpreter then evaluates the bare expression.
func EvalExpression(src string) (string, *diag.Diagnostic) {
	expr, err := parser.ParseExpression(src)
	if err != nil {
		return "", err
	}

	wrapper := &ast.FuncDecl{
		Name: "main",
		Body: []ast.Stmt{&ast.ExprStmt{X: expr, Span: expr.Pos()}},
		Span: expr.Pos(),
	}
	prog := &ast.Program{Items: []*ast.FuncDecl{wrapper}}
	info, err := sema.Analyze(prog)
	if err != nil {
		return "", err
	}

	it := backend.NewInterpreter(prog, info)
	v, evalErr := it.EvalExpression(expr)
	if evalErr != nil {
		return "", &diag.Diagnostic{Severity: diag.Error, Message: evalErr.Error()}
	}
	return v.String(), nil
}
