package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sflynlang/sflyn/internal/interp"
	"github.com/sflynlang/sflyn/internal/loader"
	"github.com/sflynlang/sflyn/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	evalExpr  string
	dumpAST   bool
	typeCheck bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Sflyn file or expression",
	Long: `Execute a Sflyn program from a file or inline expression.

Examples:
  # Run a script file
  sflyn run script.sf

  # Evaluate an inline expression
  sflyn run -e "print(\"Hello, World!\");"

  # Run with the parsed AST dumped first (for debugging)
  sflyn run --dump-ast script.sf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline code instead of reading from a file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before running (only when --type-check is on)")
	runCmd.Flags().BoolVar(&typeCheck, "type-check", true, "perform static type checking before execution")
}

func runScript(_ *cobra.Command, args []string) error {
	path, source, ld, err := resolveEntry(args)
	if err != nil {
		return err
	}

	if typeCheck {
		checker := semantic.NewChecker(ld)
		file, bag, err := checker.CheckEntry(path)
		if err != nil {
			return fmt.Errorf("type check failed: %w", err)
		}
		if !bag.Empty() {
			fmt.Fprint(os.Stderr, bag.Format(source))
			return fmt.Errorf("type checking failed with %d error(s)", len(bag.Items()))
		}
		if dumpAST {
			fmt.Println("AST:")
			for _, stmt := range file.Statements {
				fmt.Println(stmt.String())
			}
			fmt.Println()
		}
	}

	evaluator := interp.NewEvaluator(ld)
	if err := evaluator.EvalEntry(path); err != nil {
		if rerr, ok := err.(*interp.RuntimeError); ok {
			fmt.Fprintln(os.Stderr, rerr.ToDiagnostic().Render(source))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("execution failed")
	}
	return nil
}

// resolveEntry picks the inline-expression path or the file path, and
// returns the FileLoader that serves it plus its raw source (used only
// for diagnostic rendering).
func resolveEntry(args []string) (string, string, loader.FileLoader, error) {
	if evalExpr != "" {
		return "<eval>", evalExpr, newLiteralLoader("<eval>", evalExpr), nil
	}
	if len(args) != 1 {
		return "", "", nil, fmt.Errorf("either provide a file path or use -e flag for inline code")
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return abs, string(data), loader.NewOSLoader(), nil
}
