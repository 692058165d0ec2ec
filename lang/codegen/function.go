package codegen

import (
	"github.com/tnediserp/sysy-compiler/lang/frame"
	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

// emitFunction lowers one defined function: prologue, every block in
// order (each under its own asmLabel), no explicit epilogue call site
// skipped, since every reachable block ends in exactly one KReturn/KJump/
// KBranch per EMIT's well-formedness guarantee.
func (g *Generator) emitFunction(fn *koopa.Function) {
	g.fn = fn
	g.f = frame.Plan(fn)
	g.localCounter = 0

	name := fn.Name
	g.printf(".globl %s\n%s:\n", name, name)
	g.prologue()

	for _, b := range fn.Blocks {
		g.label(asmLabel(fn.Name, b.Name))
		for _, v := range b.Insts {
			g.emitInst(v)
		}
	}
	g.printf("\n")
}

func (g *Generator) prologue() {
	if g.f.Size > 0 {
		g.addSp(-g.f.Size)
	}
	if g.f.RASize == 4 {
		g.storeWordOff("ra", "sp", g.f.Size-4)
	}
}

// epilogue is emitted at every return site, not once at the function's
// textual end, since a function may return from several blocks.
func (g *Generator) epilogue() {
	if g.f.RASize == 4 {
		g.loadWordOff("ra", "sp", g.f.Size-4)
	}
	if g.f.Size > 0 {
		g.addSp(g.f.Size)
	}
	g.printf("  ret\n")
}

func (g *Generator) addSp(delta int) {
	if fitsImm12(delta) {
		g.printf("  addi sp, sp, %d\n", delta)
		return
	}
	g.li("t0", delta)
	g.printf("  add sp, sp, t0\n")
}

func (g *Generator) li(reg string, v int) {
	g.printf("  li %s, %d\n", reg, v)
}

// loadWordOff/storeWordOff/addAddr all fall back to materialising the
// offset in a scratch register when it does not fit the 12-bit signed
// immediate RISC-V's I-type/S-type encodings allow.
func (g *Generator) loadWordOff(dst, base string, off int) {
	if fitsImm12(off) {
		g.printf("  lw %s, %d(%s)\n", dst, off, base)
		return
	}
	g.li("t1", off)
	g.printf("  add t1, t1, %s\n", base)
	g.printf("  lw %s, 0(t1)\n", dst)
}

func (g *Generator) storeWordOff(src, base string, off int) {
	if fitsImm12(off) {
		g.printf("  sw %s, %d(%s)\n", src, off, base)
		return
	}
	g.li("t1", off)
	g.printf("  add t1, t1, %s\n", base)
	g.printf("  sw %s, 0(t1)\n", src)
}

func (g *Generator) addAddr(dst, base string, off int) {
	if fitsImm12(off) {
		g.printf("  addi %s, %s, %d\n", dst, base, off)
		return
	}
	g.li(dst, off)
	g.printf("  add %s, %s, %s\n", dst, dst, base)
}
