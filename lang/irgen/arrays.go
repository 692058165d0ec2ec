package irgen

import (
	"fmt"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// emitFlatIndexAddr computes the per-dimension indices for flatIndex into
// an array of shape dims and emits a getelemptr chain from the named
// local/global base, returning the final pointer value reference. Used
// only for initializer stores, where every index is a compile-time
// constant.
func (e *Emitter) emitFlatIndexAddr(base string, dims []int, flatIndex int) string {
	idxs := unflattenIndex(dims, flatIndex)
	cur := "@" + base
	for _, idx := range idxs {
		t := e.c.NextTemp()
		e.printf("  %%%d = getelemptr %s, %d\n", t, cur, idx)
		cur = fmt.Sprintf("%%%d", t)
	}
	return cur
}

func unflattenIndex(dims []int, flat int) []int {
	idxs := make([]int, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		idxs[i] = flat % dims[i]
		flat /= dims[i]
	}
	return idxs
}

// arrayAddrChain walks lv's subscripts from the array/pointer's own IR
// name, returning the resulting address and whether every declared
// dimension was consumed (a fully-indexed scalar element) as opposed to a
// partial, decaying reference. For a VarArray/ConstArray base, the chain is
// a plain sequence of getelemptr. For a Ptr/ArgPtr base, the pointer's
// current value must first be loaded (it is itself stored in a stack
// slot), the first subscript uses getptr, and the rest use getelemptr.
func (e *Emitter) arrayAddrChain(lv *ast.LVal) (addr string, full bool) {
	dims := lv.SymDims
	switch lv.SymKind {
	case symtab.VarArray, symtab.ConstArray:
		cur := "@" + lv.SymIRName
		for _, idxExpr := range lv.Indices {
			idxVal := e.emitExpr(idxExpr)
			t := e.c.NextTemp()
			e.printf("  %%%d = getelemptr %s, %s\n", t, cur, idxVal)
			cur = fmt.Sprintf("%%%d", t)
		}
		return cur, len(lv.Indices) == len(dims)

	case symtab.Ptr, symtab.ArgPtr:
		t0 := e.c.NextTemp()
		e.printf("  %%%d = load @%s\n", t0, lv.SymIRName)
		cur := fmt.Sprintf("%%%d", t0)
		if len(lv.Indices) == 0 {
			return cur, false
		}
		idx0 := e.emitExpr(lv.Indices[0])
		t1 := e.c.NextTemp()
		e.printf("  %%%d = getptr %s, %s\n", t1, cur, idx0)
		cur = fmt.Sprintf("%%%d", t1)
		for _, idxExpr := range lv.Indices[1:] {
			idxVal := e.emitExpr(idxExpr)
			t := e.c.NextTemp()
			e.printf("  %%%d = getelemptr %s, %s\n", t, cur, idxVal)
			cur = fmt.Sprintf("%%%d", t)
		}
		return cur, len(lv.Indices) == len(dims)

	default:
		panic(fmt.Sprintf("irgen: array addressing on unexpected symbol kind %v", lv.SymKind))
	}
}

// emitLValArrayRead produces the value of lv's array/pointer use: a load of the
// addressed scalar if every dimension was indexed, otherwise the decayed
// address itself (with one more getelemptr …, 0 appended, per the "array
// decay" definition).
func (e *Emitter) emitLValArrayRead(lv *ast.LVal) string {
	addr, full := e.arrayAddrChain(lv)
	if full {
		t := e.c.NextTemp()
		e.printf("  %%%d = load %s\n", t, addr)
		return fmt.Sprintf("%%%d", t)
	}
	t := e.c.NextTemp()
	e.printf("  %%%d = getelemptr %s, 0\n", t, addr)
	return fmt.Sprintf("%%%d", t)
}

// emitLValAddr produces the address to store into for an assignment's
// target; lv must be fully indexed (a partially-indexed array/pointer is
// not a valid assignment target, rejected by SEM before this is reached for
// any lv whose kind is not a plain scalar).
func (e *Emitter) emitLValAddr(lv *ast.LVal) string {
	switch lv.SymKind {
	case symtab.VarScalar:
		return "@" + lv.SymIRName
	default:
		addr, _ := e.arrayAddrChain(lv)
		return addr
	}
}
