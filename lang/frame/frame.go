// Package frame implements FRAME: the per-function stack-layout planner
// that walks a loaded raw-IR function and assigns every materialised value
// a slot, in one pass that accumulates into a plan struct later queried
// per value.
package frame

import (
	"fmt"

	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

const wordSize = 4

// registerArgs is the number of incoming parameters passed in registers
// (a0..a7) rather than spilled to the caller's stack.
const registerArgs = 8

// Frame is one function's resolved stack layout.
type Frame struct {
	// Offset is the raw, pre-adjustment offset recorded for each
	// materialised value: local values get their allocation's byte offset
	// (>= 0); parameters get a sentinel (see Plan).
	Offset map[*koopa.Value]int

	RASize         int // 4 if the function makes any call, else 0
	SavedArgsSize  int // largest max(0, argc-8)*4 over every call site
	LocalsSize     int // running total of local allocation bytes
	Size           int // align16(RASize + SavedArgsSize + LocalsSize)
}

// Plan walks fn's instructions and produces its Frame. fn must be a defined
// function (fn.Blocks != nil).
func Plan(fn *koopa.Function) *Frame {
	f := &Frame{Offset: map[*koopa.Value]int{}}

	// parameter sentinels: the first 8 are "in register a<i>", sentinel
	// -4*i-4; the rest are on the caller's stack above our incoming sp,
	// sentinel < -32 encoding their offset there.
	for i, p := range fn.ParamValues {
		if i < registerArgs {
			f.Offset[p] = -4*i - 4
		} else {
			f.Offset[p] = -32 - 4*(i-registerArgs) - 4
		}
	}

	for _, b := range fn.Blocks {
		for _, v := range b.Insts {
			f.visit(v)
		}
	}

	f.Size = align16(f.RASize + f.SavedArgsSize + f.LocalsSize)
	return f
}

// visit assigns a local offset to v if it needs one, and updates the
// running call-site bookkeeping.
func (f *Frame) visit(v *koopa.Value) {
	switch v.Kind {
	case koopa.KReturn, koopa.KInteger, koopa.KStore, koopa.KJump, koopa.KBranch:
		// never materialised, per §4.5 step 1's exclusion list.
	case koopa.KAlloc:
		size := v.Type.Elem.Size()
		f.Offset[v] = f.LocalsSize
		f.LocalsSize += size
	default:
		f.Offset[v] = f.LocalsSize
		f.LocalsSize += wordSize
	}

	if v.Kind == koopa.KCall {
		f.RASize = 4
		if extra := len(v.Args) - registerArgs; extra > 0 {
			if spill := extra * wordSize; spill > f.SavedArgsSize {
				f.SavedArgsSize = spill
			}
		}
	}
}

func align16(n int) int {
	return (n + 15) &^ 15
}

// ClassKind distinguishes how a resolved offset addresses memory, for CG's
// load_addr/store dispatch.
type ClassKind uint8

const (
	OnStack     ClassKind = iota // offset(v) >= 0: a local, addressed from sp
	InRegister                   // offset(v) in [-32, -1]: an in-register parameter, a<k>
	OnCallerStack                // offset(v) < -32: parameter spilled in the caller's frame
)

// Resolve computes v's real stack address (relevant only when Class ==
// OnStack or OnCallerStack) and how it should be addressed, per §4.5's
// three-way real-offset rule.
func (f *Frame) Resolve(v *koopa.Value) (class ClassKind, real int, reg int) {
	off, ok := f.Offset[v]
	if !ok {
		panic(fmt.Sprintf("frame: value %v has no assigned slot", v.Name))
	}
	switch {
	case off >= 0:
		return OnStack, off + f.SavedArgsSize, 0
	case off >= -32:
		// sentinel -4*i-4 decodes to register index i = (-off-4)/4.
		return InRegister, 0, (-off - 4) / 4
	default:
		return OnCallerStack, f.Size - (off + 36), 0
	}
}
