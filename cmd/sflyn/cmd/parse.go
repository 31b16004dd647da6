package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sflynlang/sflyn/internal/parser"
	"github.com/spf13/cobra"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Sflyn source and print its AST",
	Long: `Parse Sflyn source code and print the resulting syntax tree.

If no file is given, reads from stdin. Use -e to parse an inline
expression instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(_ *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case parseEval != "":
		input, filename = parseEval, "<eval>"
	case len(args) > 0:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input, filename = string(data), "<stdin>"
	}

	file, bag := parser.ParseFile(input, filename)
	if !bag.Empty() {
		fmt.Fprint(os.Stderr, bag.Format(input))
		return fmt.Errorf("parsing failed with %d error(s)", len(bag.Items()))
	}

	for _, stmt := range file.Statements {
		fmt.Println(stmt.String())
	}
	return nil
}
