package maincmd

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"os"

	"github.com/mna/mainer"
	"github.com/tnediserp/sysy-compiler/lang/ctx"
	"github.com/tnediserp/sysy-compiler/lang/irgen"
	"github.com/tnediserp/sysy-compiler/lang/parser"
	"github.com/tnediserp/sysy-compiler/lang/scanner"
	"github.com/tnediserp/sysy-compiler/lang/sema"
)

// compileToIR runs SCAN, PARSE, SEM and EMIT, returning the textual Koopa
// IR. Every mode that needs IR (-koopa and -riscv) shares this.
func compileToIR(stdio mainer.Stdio, path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, err
	}

	fset := token.NewFileSet()
	cu, err := parser.ParseFile(fset, path, src)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return nil, err
	}

	c := ctx.New(fset)
	if err := sema.Run(c, cu); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, err
	}

	var buf bytes.Buffer
	if err := irgen.Emit(c, cu, &buf); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, err
	}
	return buf.Bytes(), nil
}

// EmitKoopaFile runs SCAN→PARSE→SEM→EMIT and writes the resulting Koopa IR
// text to outPath.
func EmitKoopaFile(_ context.Context, stdio mainer.Stdio, inPath, outPath string) error {
	ir, err := compileToIR(stdio, inPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, ir, 0o644); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
