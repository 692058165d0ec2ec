package ast

import "go/token"

// InitVal is an initializer: either a scalar expression or a brace-enclosed
// list of (possibly nested) initializers. Exactly one of Scalar or Items is
// set.
type InitVal struct {
	LBrace token.Pos // zero for a scalar initializer
	Scalar Expr
	Items  []*InitVal
}

func (n *InitVal) Pos() token.Pos {
	if n.Scalar != nil {
		return n.Scalar.Pos()
	}
	return n.LBrace
}

func (n *InitVal) Walk(v Visitor) {
	if n.Scalar != nil {
		Walk(v, n.Scalar)
		return
	}
	for _, it := range n.Items {
		Walk(v, it)
	}
}

// IsList reports whether n is a brace-enclosed group rather than a scalar.
func (n *InitVal) IsList() bool { return n.Scalar == nil }

// zeroExpr synthesizes the literal 0 used to pad an initializer list out to
// its declared length. It needs no SEM pass: its ExprMeta is already a
// resolved compile-time constant.
func zeroExpr(at token.Pos) Expr {
	e := &NumberExpr{At: at, Value: 0}
	e.ExprMeta = ExprMeta{IsVar: false, Value: 0}
	return e
}

// ParseList implements the SysY brace-alignment rule: it flattens n (which
// must be a list, the root of a declaration's initializer) against the
// declared dimension vector dims, returning exactly product(dims) scalar
// expressions in row-major order, synthesizing zeroExpr for every position
// the initializer leaves implicit.
//
// The rule: while walking the items of a brace group whose remaining shape
// is dims, a nested brace at an offset of s scalars already emitted in this
// group opens a subarray whose shape is the longest proper suffix of dims
// (i.e. the smallest number of leading dimensions dropped, at least one)
// whose product divides s, so at s == 0 it is dims without its first
// dimension; fewer than that and the subgroup would straddle a dimension
// boundary.
func (n *InitVal) ParseList(dims []int) []Expr {
	if !n.IsList() {
		// a bare scalar initializing a scalar declaration: dims is empty.
		return []Expr{n.Scalar}
	}
	return flattenList(n, dims)
}

func flattenList(n *InitVal, dims []int) []Expr {
	total := product(dims)
	suffix := suffixProducts(dims)

	var out []Expr
	for _, item := range n.Items {
		if len(out) >= total {
			break // more initializers than the declared shape allows; ignore extras
		}
		if !item.IsList() {
			out = append(out, item.Scalar)
			continue
		}

		s := len(out)
		// smallest i>=1 such that suffix[i] divides s (suffix[len(dims)] == 1
		// always divides, so this always terminates).
		i := 1
		for i < len(suffix) && (s != 0 && s%suffix[i] != 0) {
			i++
		}
		sub := flattenList(item, dims[i:])
		out = append(out, sub...)
	}

	for len(out) < total {
		out = append(out, zeroExpr(n.Pos()))
	}
	return out
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}

// suffixProducts returns, for dims of length n, a slice of length n+1 where
// result[i] = product(dims[i:]), so result[n] == 1.
func suffixProducts(dims []int) []int {
	res := make([]int, len(dims)+1)
	res[len(dims)] = 1
	for i := len(dims) - 1; i >= 0; i-- {
		res[i] = res[i+1] * dims[i]
	}
	return res
}
