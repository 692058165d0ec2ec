// Package maincmd implements the sysyc CLI surface on top of mainer: flag
// parsing, usage text, and dispatch to one of the four inspection/compile
// modes.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "sysyc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s <mode> <input-path> [-o <output-path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s <mode> <input-path> [-o <output-path>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiles a single SysY source file to Koopa IR or RISC-V assembly.

The <mode> is exactly one of:
       -koopa                    Emit textual Koopa IR to -o.
       -riscv                    Emit RISC-V assembly to -o.
       -ast                      Print the parsed and resolved AST.
       -tokens                   Print the token stream.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -o --output <path>        Output path for -koopa/-riscv.
`, binName)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Koopa  bool `flag:"koopa"`
	Riscv  bool `flag:"riscv"`
	AST    bool `flag:"ast"`
	Tokens bool `flag:"tokens"`

	Output string `flag:"o,output"`

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	modes := 0
	for _, on := range []bool{c.Koopa, c.Riscv, c.AST, c.Tokens} {
		if on {
			modes++
		}
	}
	if modes != 1 {
		return errors.New("exactly one of -koopa, -riscv, -ast, -tokens is required")
	}
	if len(c.args) != 1 {
		return errors.New("exactly one input path is required")
	}
	if (c.Koopa || c.Riscv) && c.Output == "" {
		return errors.New("-o <output-path> is required for -koopa/-riscv")
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	input := c.args[0]

	var err error
	switch {
	case c.Tokens:
		err = TokenizeFile(ctx, stdio, input)
	case c.AST:
		err = PrintAST(ctx, stdio, input)
	case c.Koopa:
		err = EmitKoopaFile(ctx, stdio, input, c.Output)
	case c.Riscv:
		err = EmitRiscvFile(ctx, stdio, input, c.Output)
	}
	if err != nil {
		// each mode takes care of printing its own errors
		return mainer.Failure
	}
	return mainer.Success
}
