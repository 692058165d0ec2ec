package sema

import (
	"github.com/tnediserp/sysy-compiler/lang/ast"
)

// evalConstInt analyses e and requires it to fold to a compile-time
// constant, as ConstExp nodes demand (array dimension sizes).
func (a *analyzer) evalConstInt(e ast.Expr) int {
	a.expr(e)
	if e.Meta().IsVar {
		panic(a.errorf(e, "expected a constant expression"))
	}
	return e.Meta().Value
}

func (a *analyzer) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.NumberExpr:
		n.ExprMeta = ast.ExprMeta{IsVar: false, Value: n.Value}

	case *ast.UnaryExpr:
		a.expr(n.X)
		a.unaryExpr(n)

	case *ast.BinaryExpr:
		a.binaryExpr(n)

	case *ast.LVal:
		a.lval(n)

	case *ast.CallExpr:
		a.callExpr(n)

	default:
		panic("sema: unexpected expression node")
	}
}

func (a *analyzer) unaryExpr(n *ast.UnaryExpr) {
	if !n.X.Meta().IsVar {
		v := n.X.Meta().Value
		var res int
		switch n.Op {
		case ast.UnaryPlus:
			res = v
		case ast.UnaryMinus:
			res = -v
		case ast.UnaryNot:
			if v == 0 {
				res = 1
			} else {
				res = 0
			}
		}
		n.ExprMeta = ast.ExprMeta{IsVar: false, Value: res}
		return
	}
	n.ExprMeta = ast.ExprMeta{IsVar: true}
}

// binaryExpr folds constant binary expressions: &&/|| short-circuit at
// compile time when the left operand is already known, and the combined
// IsVar of a non-logical binary expression is L.IsVar || R.IsVar (not just
// the left operand, which would silently miss a variable right operand).
func (a *analyzer) binaryExpr(n *ast.BinaryExpr) {
	a.expr(n.L)

	if n.Op.IsLogical() {
		a.logicalExpr(n)
		return
	}

	a.expr(n.R)
	if n.L.Meta().IsVar || n.R.Meta().IsVar {
		n.ExprMeta = ast.ExprMeta{IsVar: true}
		return
	}
	n.ExprMeta = ast.ExprMeta{IsVar: false, Value: foldArith(n.Op, n.L.Meta().Value, n.R.Meta().Value)}
}

func (a *analyzer) logicalExpr(n *ast.BinaryExpr) {
	if !n.L.Meta().IsVar {
		lv := n.L.Meta().Value
		if n.Op == ast.LAnd && lv == 0 {
			n.ExprMeta = ast.ExprMeta{IsVar: false, Value: 0}
			return
		}
		if n.Op == ast.LOr && lv != 0 {
			n.ExprMeta = ast.ExprMeta{IsVar: false, Value: 1}
			return
		}
	}

	a.expr(n.R)
	if n.L.Meta().IsVar || n.R.Meta().IsVar {
		n.ExprMeta = ast.ExprMeta{IsVar: true}
		return
	}
	lb, rb := n.L.Meta().Value != 0, n.R.Meta().Value != 0
	var res bool
	if n.Op == ast.LAnd {
		res = lb && rb
	} else {
		res = lb || rb
	}
	v := 0
	if res {
		v = 1
	}
	n.ExprMeta = ast.ExprMeta{IsVar: false, Value: v}
}

// foldArith evaluates a non-logical binary operator over two known-constant
// operands. Division and modulo by zero fold to zero rather than trapping
// at compile time, matching the documented (if surprising) source
// behaviour rather than guessing at a stricter one.
func foldArith(op ast.BinaryOp, l, r int) int {
	switch op {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	case ast.Mul:
		return l * r
	case ast.Div:
		if r == 0 {
			return 0
		}
		return l / r
	case ast.Mod:
		if r == 0 {
			return 0
		}
		return l % r
	case ast.Lt:
		return boolInt(l < r)
	case ast.Gt:
		return boolInt(l > r)
	case ast.Le:
		return boolInt(l <= r)
	case ast.Ge:
		return boolInt(l >= r)
	case ast.Eq:
		return boolInt(l == r)
	case ast.Ne:
		return boolInt(l != r)
	default:
		panic("sema: unexpected binary op")
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// lval resolves an identifier use and caches its symbol kind, IR name and
// dimensions on lv. An unindexed scalar constant folds to its known value;
// every other use (a scalar variable, a pointer-variable dereference, a
// fully-indexed array element, or an array/pointer decaying to an address
// because fewer than DimCount indices were applied) is marked as a runtime
// value, and EMIT tells those cases apart from SymKind, SymDims and
// len(Indices).
func (a *analyzer) lval(lv *ast.LVal) {
	entry, _, ok := a.c.Syms.TryLookup(lv.Ident)
	if !ok {
		panic(a.errorf(lv, "undefined identifier %q", lv.Ident))
	}
	if entry.Kind.IsFunc() {
		panic(a.errorf(lv, "%q is a function, not a variable", lv.Ident))
	}

	for _, idx := range lv.Indices {
		a.expr(idx)
	}

	lv.SymKind = entry.Kind
	lv.SymIRName = entry.IRName
	lv.SymDims = entry.Dims

	if entry.Kind.IsConst() && !entry.Kind.IsArray() && len(lv.Indices) == 0 {
		// an unindexed scalar constant folds directly to its known value.
		lv.ExprMeta = ast.ExprMeta{IsVar: false, Value: entry.Value}
		return
	}
	// every other case (scalar variable, pointer dereference, array element
	// access, array/pointer decay) is materialized at runtime: EMIT always
	// walks SymKind/SymDims/len(Indices) itself to choose load vs.
	// getelemptr-chain vs. decay, even for a fully-indexed const array
	// element, for uniformity with VarArray.
	lv.ExprMeta = ast.ExprMeta{IsVar: true}
}

func (a *analyzer) callExpr(n *ast.CallExpr) {
	entry, ok := a.c.Syms.FindFunction(n.Ident)
	if !ok {
		panic(a.errorf(n, "undefined function %q", n.Ident))
	}
	if !entry.Kind.IsFunc() {
		panic(a.errorf(n, "%q is not a function", n.Ident))
	}
	n.FuncKind = entry.Kind
	for _, arg := range n.Args {
		a.expr(arg)
	}
	// a call always has side effects and must be emitted regardless of its
	// return kind, so it never folds to a constant even when void; EMIT's
	// emitCallExpr special-cases FuncVoid and allocates no temp for the
	// (absent) result.
	n.ExprMeta = ast.ExprMeta{IsVar: true}
}
