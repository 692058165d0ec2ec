package maincmd

import (
	"context"
	"fmt"
	"go/token"
	"os"

	"github.com/mna/mainer"
	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/ctx"
	"github.com/tnediserp/sysy-compiler/lang/parser"
	"github.com/tnediserp/sysy-compiler/lang/scanner"
	"github.com/tnediserp/sysy-compiler/lang/sema"
)

// PrintAST runs PARSE and SEM and prints the resolved AST, one indented
// line per node, including the symbol/constant annotations SEM attaches.
func PrintAST(_ context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	fset := token.NewFileSet()
	cu, err := parser.ParseFile(fset, path, src)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return err
	}

	c := ctx.New(fset)
	if err := sema.Run(c, cu); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	printer := ast.Printer{Output: stdio.Stdout, Fset: fset}
	return printer.Print(cu)
}
