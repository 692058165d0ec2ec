// Package codegen implements CG: the final pass that lowers a raw-IR
// Program (as FRAME has planned it) to textual RISC-V assembly. Like
// lang/irgen, it is a single bufio.Writer-backed pass that prints
// instruction text directly rather than building an intermediate assembly
// AST.
package codegen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tnediserp/sysy-compiler/lang/frame"
	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

// Generator writes RISC-V assembly for one loaded Koopa program.
type Generator struct {
	w  *bufio.Writer
	fn *koopa.Function
	f  *frame.Frame

	localCounter int // per-function synthetic branch-label counter
}

// Generate writes p's RISC-V assembly to w: a .data section for every
// global, then a .text section with one label block per defined function.
// Declared-only library functions contribute no code (they are linked from
// the runtime support object, not generated here).
func Generate(p *koopa.Program, w io.Writer) error {
	g := &Generator{w: bufio.NewWriter(w)}
	g.printf(".data\n")
	for _, gl := range p.Globals {
		g.emitGlobal(gl)
	}
	g.printf("\n.text\n")
	for _, fn := range p.Functions {
		if fn.Blocks == nil {
			continue
		}
		g.emitFunction(fn)
	}
	return g.w.Flush()
}

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(g.w, format, args...)
}

func (g *Generator) label(name string) {
	g.printf("%s:\n", name)
}

func asmName(irName string) string {
	return strings.TrimPrefix(irName, "@")
}

func asmLabel(fnName, blockName string) string {
	return fnName + "_" + blockName
}

func fitsImm12(n int) bool { return n >= -2048 && n <= 2047 }

// emitGlobal writes one global's .data entry: a zero-filled region for a
// zeroinit, or a flat .word list for an integer or nested-brace aggregate
// initializer (flattening is all .data needs; alignment within the region
// follows row-major order exactly as EMIT wrote it).
func (g *Generator) emitGlobal(gl koopa.Global) {
	name := asmName(gl.Name)
	g.printf(".globl %s\n%s:\n", name, name)
	if gl.Init == "zeroinit" {
		g.printf("  .zero %d\n", gl.Type.Size())
	} else {
		for _, v := range flattenInit(gl.Init) {
			g.printf("  .word %d\n", v)
		}
	}
	g.printf("\n")
}

// flattenInit parses a plain integer or a "{...}" nested-brace aggregate
// initializer text into its row-major flat word list.
func flattenInit(s string) []int {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		n, err := strconv.Atoi(s)
		if err != nil {
			panic(fmt.Sprintf("codegen: malformed initializer %q", s))
		}
		return []int{n}
	}
	inner := s[1 : len(s)-1]
	var out []int
	for _, part := range koopa.SplitTopLevel(inner) {
		out = append(out, flattenInit(part)...)
	}
	return out
}
