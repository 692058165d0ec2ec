package codegen

import (
	"fmt"

	"github.com/tnediserp/sysy-compiler/lang/frame"
	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

// emitInst lowers one raw-IR instruction per §4.6.2's value-lowering table.
func (g *Generator) emitInst(v *koopa.Value) {
	switch v.Kind {
	case koopa.KAlloc:
		// no code; the slot is already reserved by FRAME.

	case koopa.KLoad:
		g.loadBase(v.Args[0], "t5")
		g.printf("  lw t0, 0(t5)\n")
		g.storeResult(v, "t0")

	case koopa.KStore:
		g.loadOperand(v.Args[0], "t0")
		g.loadBase(v.Args[1], "t5")
		g.printf("  sw t0, 0(t5)\n")

	case koopa.KGetElemPtr, koopa.KGetPtr:
		g.loadBase(v.Args[0], "t0")
		g.loadOperand(v.Args[1], "t1")
		g.li("t2", v.Type.Elem.Size())
		g.printf("  mul t1, t1, t2\n")
		g.printf("  add t0, t0, t1\n")
		g.storeResult(v, "t0")

	case koopa.KBinary:
		g.loadOperand(v.Args[0], "t0")
		g.loadOperand(v.Args[1], "t1")
		g.emitBinaryOp(v.Op, "t0", "t1")
		g.storeResult(v, "t0")

	case koopa.KBranch:
		g.emitBranch(v)

	case koopa.KJump:
		g.emitJump(asmLabel(g.fn.Name, v.Target.Name))

	case koopa.KCall:
		g.emitCall(v)

	case koopa.KReturn:
		if len(v.Args) > 0 {
			g.loadOperand(v.Args[0], "a0")
		}
		g.epilogue()

	default:
		panic(fmt.Sprintf("codegen: unhandled instruction kind %v", v.Kind))
	}
}

// loadOperand loads v's plain i32 value into reg: a literal, an in-register
// or stack-spilled parameter, or a previously materialised result.
func (g *Generator) loadOperand(v *koopa.Value, reg string) {
	switch v.Kind {
	case koopa.KInteger:
		g.li(reg, v.IntVal)

	case koopa.KParam:
		class, real, pregnum := g.f.Resolve(v)
		switch class {
		case frame.InRegister:
			g.printf("  mv %s, a%d\n", reg, pregnum)
		case frame.OnCallerStack:
			g.loadWordOff(reg, "sp", real)
		default:
			panic("codegen: parameter resolved to an unexpected class")
		}

	case koopa.KGlobalAlloc:
		panic("codegen: a global is never used as a plain value operand")

	default:
		_, real, _ := g.f.Resolve(v)
		g.loadWordOff(reg, "sp", real)
	}
}

// loadBase computes the address a get-elem-ptr/get-ptr/load/store source
// or destination refers to, per §4.6.4's three-way source classification.
func (g *Generator) loadBase(v *koopa.Value, reg string) {
	switch v.Kind {
	case koopa.KAlloc:
		_, real, _ := g.f.Resolve(v)
		g.addAddr(reg, "sp", real)
	case koopa.KGlobalAlloc:
		g.printf("  la %s, %s\n", reg, asmName(v.Name))
	default:
		// v is itself a pointer-producing instruction or pointer parameter;
		// its materialised value already is the address.
		g.loadOperand(v, reg)
	}
}

func (g *Generator) storeResult(v *koopa.Value, reg string) {
	class, real, _ := g.f.Resolve(v)
	if class != frame.OnStack {
		panic("codegen: result value did not resolve to a stack slot")
	}
	g.storeWordOff(reg, "sp", real)
}

// emitBinaryOp maps a Koopa binary opcode to its RISC-V sequence, leaving
// the result in a, per §4.6.3.
func (g *Generator) emitBinaryOp(op, a, b string) {
	switch op {
	case "add", "sub", "mul", "div", "and", "or", "xor":
		g.printf("  %s %s, %s, %s\n", op, a, a, b)
	case "mod":
		g.printf("  rem %s, %s, %s\n", a, a, b)
	case "lt":
		g.printf("  slt %s, %s, %s\n", a, a, b)
	case "gt":
		g.printf("  sgt %s, %s, %s\n", a, a, b)
	case "le":
		g.printf("  sgt %s, %s, %s\n", a, a, b)
		g.printf("  seqz %s, %s\n", a, a)
	case "ge":
		g.printf("  slt %s, %s, %s\n", a, a, b)
		g.printf("  seqz %s, %s\n", a, a)
	case "eq":
		g.printf("  xor %s, %s, %s\n", a, a, b)
		g.printf("  seqz %s, %s\n", a, a)
	case "ne":
		g.printf("  xor %s, %s, %s\n", a, a, b)
		g.printf("  snez %s, %s\n", a, a)
	default:
		panic("codegen: unknown binary opcode " + op)
	}
}

// emitBranch lowers br as an indirect jump pair: a short-range conditional
// branch (within B-type reach) picks between two far jumps, each able to
// reach anywhere in the function regardless of how far apart its blocks
// end up, per §4.6.2's "branch" row.
func (g *Generator) emitBranch(v *koopa.Value) {
	g.loadOperand(v.Args[0], "t0")
	trueLbl := asmLabel(g.fn.Name, v.TargetTrue.Name)
	falseLbl := asmLabel(g.fn.Name, v.TargetFalse.Name)
	skip := g.nextLocalLabel()
	g.printf("  bnez t0, %s\n", skip)
	g.emitJump(falseLbl)
	g.label(skip)
	g.emitJump(trueLbl)
}

func (g *Generator) emitJump(label string) {
	g.printf("  la t0, %s\n", label)
	g.printf("  jalr x0, t0, 0\n")
}

func (g *Generator) nextLocalLabel() string {
	g.localCounter++
	return fmt.Sprintf(".L%s_%d", g.fn.Name, g.localCounter)
}

// emitCall places the first 8 arguments in a0..a7 and spills the rest to
// the saved-args region at the bottom of this frame's outgoing area, calls
// the callee, then spills a0 to the call's own slot if it returns a value.
func (g *Generator) emitCall(v *koopa.Value) {
	for i, arg := range v.Args {
		if i < 8 {
			g.loadOperand(arg, fmt.Sprintf("a%d", i))
		} else {
			g.loadOperand(arg, "t0")
			g.storeWordOff("t0", "sp", (i-8)*4)
		}
	}
	g.printf("  call %s\n", v.Callee)
	if v.Type.Kind != koopa.Unit {
		g.storeResult(v, "a0")
	}
}
