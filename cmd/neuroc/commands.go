package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neuro-lang/neuroc/config"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/driver"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "parse and type-check source files without producing code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report diag.Report
			for _, path := range args {
				c, err := driver.NewFromFile(path)
				if err != nil {
					return err
				}
				if d := c.Check(); d != nil {
					reportDiagnostic(d, c.SourceMap)
					report.Add(*d)
					continue
				}
				fmt.Printf("%s: no errors found\n", path)
			}
			if report.HasErrors() {
				reportSummary(&report)
				return &exitCodeError{code: 1}
			}
			return nil
		},
	}
}

func newCompileCommand() *cobra.Command {
	var outPath string
	var optLevel int
	cmd := &cobra.Command{
		Use:   "compile <file>...",
		Short: "compile source files to executables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath != "" && len(args) > 1 {
				return fmt.Errorf("-o cannot be used with multiple source files")
			}
			for _, path := range args {
				c, err := driver.NewFromFile(path)
				if err != nil {
					return err
				}
				out := outPath
				if out == "" {
					out = c.ModuleName()
				}
				final, err := c.Build(context.Background(), out, optLevel)
				if err != nil {
					return renderIfDiagnostic(err, c)
				}
				fmt.Printf("compiled %s -> %s\n", path, final)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output executable path")
	cmd.Flags().IntVarP(&optLevel, "opt", "O", 0, "optimization level (0..3)")
	return cmd
}

func newBuildCommand() *cobra.Command {
	var outPath string
	var optLevel int
	var debug bool
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "build one source file, honoring neuro.toml if present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// neuro.toml's optimization level applies unless -O was given
			// explicitly; everything else in the config is ignored by the core.
			if !cmd.Flags().Changed("opt") {
				if cfg, err := config.Load("neuro.toml"); err == nil {
					optLevel, _ = cfg.OptLevel()
				}
			}

			c, err := driver.NewFromFile(args[0])
			if err != nil {
				return err
			}
			out := outPath
			if out == "" {
				out = c.ModuleName()
			}
			if debug {
				fmt.Printf("building %s (O%d) -> %s\n", args[0], optLevel, out)
			}
			final, err := c.Build(context.Background(), out, optLevel)
			if err != nil {
				return renderIfDiagnostic(err, c)
			}
			if debug {
				fmt.Printf("built %s\n", final)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output executable path")
	cmd.Flags().IntVarP(&optLevel, "opt", "O", 0, "optimization level (0..3)")
	cmd.Flags().BoolVar(&debug, "debug", false, "print build progress")
	return cmd
}

func newRunCommand() *cobra.Command {
	var optLevel int
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "compile and execute one source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := driver.NewFromFile(args[0])
			if err != nil {
				return err
			}
			res, err := c.Run(context.Background(), optLevel)
			if err != nil {
				return renderIfDiagnostic(err, c)
			}
			for _, line := range res.Output {
				fmt.Println(line)
			}
			fmt.Printf("Program exited with code: %d\n", res.ExitCode)
			if res.ExitCode != 0 {
				return &exitCodeError{code: int(res.ExitCode)}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&optLevel, "opt", "O", 0, "optimization level (0..3)")
	return cmd
}

func newParseCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "parse one source file and dump its AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := driver.NewFromFile(args[0])
			if err != nil {
				return err
			}
			prog, d := c.Parse()
			if d != nil {
				reportDiagnostic(d, c.SourceMap)
				return &exitCodeError{code: 1}
			}
			out, err := dumpProgram(prog, format)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func newTokenizeCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokenize <file>",
		Short: "lex one source file and dump its token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := driver.NewFromFile(args[0])
			if err != nil {
				return err
			}
			toks, d := c.Tokenize()
			if d != nil {
				reportDiagnostic(d, c.SourceMap)
				return &exitCodeError{code: 1}
			}
			out, err := dumpTokens(toks, c, format)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func newLLVMCommand() *cobra.Command {
	var outPath string
	var optLevel int
	cmd := &cobra.Command{
		Use:   "llvm <file>",
		Short: "emit LLVM IR for one source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := driver.NewFromFile(args[0])
			if err != nil {
				return err
			}
			// The emitted IR is identical at every optimization level; -O is
			// accepted for interface parity with compile/build, where it
			// selects llc's transforms.
			_ = optLevel
			ir, d := c.EmitIR()
			if d != nil {
				reportDiagnostic(d, c.SourceMap)
				return &exitCodeError{code: 1}
			}
			if outPath != "" {
				return os.WriteFile(outPath, []byte(ir), 0o644)
			}
			fmt.Print(ir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write IR to a file instead of stdout")
	cmd.Flags().IntVarP(&optLevel, "opt", "O", 0, "optimization level (0..3)")
	return cmd
}

func newEvalCommand() *cobra.Command {
	var fromFile string
	cmd := &cobra.Command{
		Use:   "eval [expression]",
		Short: "evaluate one expression and print its value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src string
			switch {
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("failed to read file %q: %w", fromFile, err)
				}
				src = strings.TrimSpace(string(data))
			case len(args) == 1:
				src = args[0]
			default:
				return fmt.Errorf("an expression or -f <file> is required")
			}
			result, d := driver.EvalExpression(src)
			if d != nil {
				reportDiagnostic(d, nil)
				return &exitCodeError{code: 1}
			}
			fmt.Println(result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "read the expression from a file")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(versionBanner)
			return nil
		},
	}
}

// renderIfDiagnostic renders a compiler diagnostic against c's source map
// before converting it to a silent non-zero exit; any other error (tooling,
// IO) is returned for main's generic rendering.
func renderIfDiagnostic(err error, c *driver.Compilation) error {
	if d, ok := err.(*diag.Diagnostic); ok {
		reportDiagnostic(d, c.SourceMap)
		return &exitCodeError{code: 1}
	}
	return err
}
