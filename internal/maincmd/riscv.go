package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/tnediserp/sysy-compiler/lang/codegen"
	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

// EmitRiscvFile runs the full pipeline, SCAN→PARSE→SEM→EMIT→LOAD→FRAME→CG,
// and writes the resulting RISC-V assembly to outPath. FRAME's planning is
// driven lazily, per function, inside codegen.Generate.
func EmitRiscvFile(_ context.Context, stdio mainer.Stdio, inPath, outPath string) error {
	ir, err := compileToIR(stdio, inPath)
	if err != nil {
		return err
	}

	prog, err := koopa.Load(ir)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	defer out.Close()

	if err := codegen.Generate(prog, out); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
