// Command sflyn is the Sflyn language's CLI: lex, parse, and run Sflyn
// source files.
package main

import (
	"fmt"
	"os"

	"github.com/sflynlang/sflyn/cmd/sflyn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
