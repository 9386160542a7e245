// Package main implements the neuroc command-line compiler front-end: a
// thin adapter that parses arguments and calls into the driver package.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/sourcemap"
)

const versionBanner = "neuroc 0.1.0 — NEURO ahead-of-time compiler"

// exitCodeError carries a specific process exit code through cobra's error
// return, so run can propagate the program's own exit status.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if ec, ok := err.(*exitCodeError); ok {
			os.Exit(ec.code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "neuroc",
		Short:         "compiler for the NEURO language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCheckCommand(),
		newCompileCommand(),
		newBuildCommand(),
		newRunCommand(),
		newParseCommand(),
		newTokenizeCommand(),
		newLLVMCommand(),
		newEvalCommand(),
		newVersionCommand(),
	)
	return root
}

var severityColors = map[diag.Severity]*color.Color{
	diag.Error:   color.New(color.FgRed, color.Bold),
	diag.Warning: color.New(color.FgYellow),
	diag.Info:    color.New(color.FgCyan),
	diag.Hint:    color.New(color.FgHiBlack),
}

// reportDiagnostic renders d to stderr with a severity-colored prefix.
// Color only exists at this edge; the diag package renders plain text.
func reportDiagnostic(d *diag.Diagnostic, sm *sourcemap.Map) {
	line := d.Render(sm)
	if c, ok := severityColors[d.Severity]; ok {
		sev := d.Severity.String() + ":"
		c.Fprint(os.Stderr, sev)
		fmt.Fprintln(os.Stderr, line[len(sev):])
		return
	}
	fmt.Fprintln(os.Stderr, line)
}

// reportSummary prints the end-of-run error and warning counts of r; it
// prints nothing when r holds neither.
func reportSummary(r *diag.Report) {
	counts := r.CountBySeverity()
	if counts[diag.Error] == 0 && counts[diag.Warning] == 0 {
		return
	}
	msg := fmt.Sprintf("%d error(s), %d warning(s)", counts[diag.Error], counts[diag.Warning])
	if counts[diag.Error] > 0 {
		severityColors[diag.Error].Fprintln(os.Stderr, msg)
	} else {
		severityColors[diag.Warning].Fprintln(os.Stderr, msg)
	}
}
