package maincmd

import (
	"context"
	"fmt"
	"go/token"
	"os"

	"github.com/mna/mainer"
	"github.com/tnediserp/sysy-compiler/lang/scanner"
)

// TokenizeFile runs SCAN alone and prints every token, one per line.
func TokenizeFile(_ context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	fset := token.NewFileSet()
	toks, err := scanner.ScanFile(fset, path, src)
	for _, tv := range toks {
		fmt.Fprintf(stdio.Stdout, "%s: %s", fset.Position(tv.Pos), tv.Tok)
		if tv.Lit != "" {
			fmt.Fprintf(stdio.Stdout, " %s", tv.Lit)
		}
		fmt.Fprintln(stdio.Stdout)
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
