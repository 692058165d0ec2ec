package irgen

import (
	"fmt"

	"github.com/tnediserp/sysy-compiler/lang/ast"
)

// arrayType formats the Koopa type for an N-dimensional array, nesting
// "[T, size]" innermost-outward: dims=[2,3] (a[2][3]) yields "[[i32, 3],
// 2]", matching EMIT's §4.3.5 contract exactly.
func arrayType(dims []int) string {
	t := "i32"
	for i := len(dims) - 1; i >= 0; i-- {
		t = fmt.Sprintf("[%s, %d]", t, dims[i])
	}
	return t
}

// paramType formats a function parameter's Koopa type: "i32" for a scalar,
// or a pointer to the (possibly nested-array) element type for a
// pointer-decayed array parameter. dims[0] is the decayed, sizeless
// dimension and is never part of the formatted type.
func paramType(p *ast.FuncParam) string {
	if !p.IsArray {
		return "i32"
	}
	if len(p.ResolvedExtraDims) == 0 {
		return "*i32"
	}
	return "*" + arrayType(p.ResolvedExtraDims)
}

// elemType returns the Koopa type of one element of an array/pointer whose
// full declared dimension vector is dims, after consuming used indices of
// it (used is how many subscripts have already been applied).
func elemType(dims []int, used int) string {
	if used >= len(dims) {
		return "i32"
	}
	return arrayType(dims[used:])
}
