package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ToolNotFoundError reports that a required external tool (llc or a C
// linker) is not on PATH. The run command checks for it with errors.As and
// falls back to the tree-walking interpreter.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Tool)
}

// SubprocessError reports a failed llc or linker invocation, carrying the
// exact command line and the child's stderr.
type SubprocessError struct {
	CommandLine string
	Stderr      string
	Err         error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("subprocess failed: %s: %v", e.CommandLine, e.Err)
	if e.Stderr != "" {
		msg += "\n" + strings.TrimRight(e.Stderr, "\n")
	}
	return msg
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// linkers, in preference order. The first one found on PATH links.
var linkers = []string{"clang", "gcc", "cc"}

// AOTCompiler turns emitted IR into a host executable by shelling out to
// llc and a C toolchain driver.
type AOTCompiler struct {
	llc    string
	linker string
}

// NewAOTCompiler resolves the external tools once. It returns a
// *ToolNotFoundError if llc or every candidate linker is missing.
func NewAOTCompiler() (*AOTCompiler, error) {
	llc, err := exec.LookPath("llc")
	if err != nil {
		return nil, &ToolNotFoundError{Tool: "llc"}
	}
	for _, cand := range linkers {
		if path, err := exec.LookPath(cand); err == nil {
			return &AOTCompiler{llc: llc, linker: path}, nil
		}
	}
	return nil, &ToolNotFoundError{Tool: strings.Join(linkers, "/")}
}

// Compile writes ir to <scratchDir>/<moduleName>.ll, lowers it to an object
// with llc at the requested optimization level, links it, and moves the
// executable to outPath. The executable only ever appears at outPath
// complete: it is linked under the scratch directory and renamed in.
// Cancelling ctx kills whichever subprocess is in flight.
func (c *AOTCompiler) Compile(ctx context.Context, ir, moduleName, scratchDir, outPath string, optLevel int) (string, error) {
	llPath := filepath.Join(scratchDir, moduleName+".ll")
	objPath := filepath.Join(scratchDir, moduleName+".o")
	exePath := filepath.Join(scratchDir, moduleName)

	if err := os.WriteFile(llPath, []byte(ir), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", llPath, err)
	}

	if err := runTool(ctx, c.llc, fmt.Sprintf("-O%d", optLevel), "-filetype=obj", "-o", objPath, llPath); err != nil {
		return "", err
	}
	if err := runTool(ctx, c.linker, "-o", exePath, objPath); err != nil {
		return "", err
	}

	if err := moveFile(exePath, outPath); err != nil {
		return "", fmt.Errorf("failed to place executable at %q: %w", outPath, err)
	}
	return outPath, nil
}

// runTool runs one external command to completion under an errgroup whose
// context inherits the caller's deadline/cancellation; the child is killed
// when that context ends first.
func runTool(ctx context.Context, name string, args ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	g.Go(cmd.Run)
	if err := g.Wait(); err != nil {
		return &SubprocessError{
			CommandLine: name + " " + strings.Join(args, " "),
			Stderr:      stderr.String(),
			Err:         err,
		}
	}
	return nil
}

// moveFile renames src to dst. When they live on different filesystems and
// rename is not available, it copies src to a temporary file beside dst and
// renames that into place, so dst never holds a partial copy.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
