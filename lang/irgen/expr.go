package irgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// emitExpr emits whatever instructions e's value requires and returns a
// Koopa operand reference for the result: an integer literal, a "%n"
// temporary, or a "@name" global/local. A node SEM folded to a compile-time
// constant (Meta().IsVar == false) occupies no temporary and emits nothing,
// per the numbering rule that only runtime values consume a slot.
func (e *Emitter) emitExpr(expr ast.Expr) string {
	if !expr.Meta().IsVar {
		return strconv.Itoa(expr.Meta().Value)
	}
	switch n := expr.(type) {
	case *ast.UnaryExpr:
		return e.emitUnaryExpr(n)
	case *ast.BinaryExpr:
		return e.emitBinaryExpr(n)
	case *ast.LVal:
		return e.emitLVal(n)
	case *ast.CallExpr:
		return e.emitCallExpr(n)
	default:
		panic(fmt.Sprintf("irgen: unexpected runtime-valued expression %T", expr))
	}
}

func (e *Emitter) emitUnaryExpr(n *ast.UnaryExpr) string {
	x := e.emitExpr(n.X)
	switch n.Op {
	case ast.UnaryPlus:
		return x
	case ast.UnaryMinus:
		return e.emitBinaryOp("sub", "0", x)
	case ast.UnaryNot:
		return e.emitBinaryOp("eq", x, "0")
	default:
		panic("irgen: unknown unary operator")
	}
}

var binaryOpcode = [...]string{
	ast.Add: "add", ast.Sub: "sub", ast.Mul: "mul", ast.Div: "div", ast.Mod: "mod",
	ast.Lt: "lt", ast.Gt: "gt", ast.Le: "le", ast.Ge: "ge", ast.Eq: "eq", ast.Ne: "ne",
}

func (e *Emitter) emitBinaryExpr(n *ast.BinaryExpr) string {
	if n.Op.IsLogical() {
		return e.emitLogicalExpr(n)
	}
	l := e.emitExpr(n.L)
	r := e.emitExpr(n.R)
	return e.emitBinaryOp(binaryOpcode[n.Op], l, r)
}

func (e *Emitter) emitBinaryOp(op, l, r string) string {
	t := e.c.NextTemp()
	e.printf("  %%%d = %s %s, %s\n", t, op, l, r)
	return fmt.Sprintf("%%%d", t)
}

// emitLogicalExpr lowers a non-foldable && or || to short-circuit control
// flow over a spill slot, per the and_<n>/or_<n> scheme: the slot is
// pre-initialized to the short-circuiting value (0 for &&, 1 for ||), the
// left operand decides whether the right is evaluated at all, and the
// slot is reloaded as the expression's value once both branches rejoin.
func (e *Emitter) emitLogicalExpr(n *ast.BinaryExpr) string {
	l := e.emitExpr(n.L)
	if n.Op == ast.LAnd {
		k := e.c.NextAnd()
		slot := fmt.Sprintf("and_%d", k)
		trueLbl := fmt.Sprintf("and_true_%d", k)
		nextLbl := fmt.Sprintf("and_next_%d", k)
		e.printf("  @%s = alloc i32\n", slot)
		e.printf("  store 0, @%s\n", slot)
		e.printf("  br %s, %%%s, %%%s\n", l, trueLbl, nextLbl)
		e.label(trueLbl)
		r := e.emitExpr(n.R)
		rb := e.emitBinaryOp("ne", r, "0")
		e.printf("  store %s, @%s\n", rb, slot)
		e.printf("  jump %%%s\n", nextLbl)
		e.label(nextLbl)
		t := e.c.NextTemp()
		e.printf("  %%%d = load @%s\n", t, slot)
		return fmt.Sprintf("%%%d", t)
	}

	k := e.c.NextOr()
	slot := fmt.Sprintf("or_%d", k)
	falseLbl := fmt.Sprintf("or_false_%d", k)
	nextLbl := fmt.Sprintf("or_next_%d", k)
	e.printf("  @%s = alloc i32\n", slot)
	e.printf("  store 1, @%s\n", slot)
	e.printf("  br %s, %%%s, %%%s\n", l, nextLbl, falseLbl)
	e.label(falseLbl)
	r := e.emitExpr(n.R)
	rb := e.emitBinaryOp("ne", r, "0")
	e.printf("  store %s, @%s\n", rb, slot)
	e.printf("  jump %%%s\n", nextLbl)
	e.label(nextLbl)
	t := e.c.NextTemp()
	e.printf("  %%%d = load @%s\n", t, slot)
	return fmt.Sprintf("%%%d", t)
}

// emitLVal dispatches a variable/array/pointer use to the read it needs:
// a scalar load, a fully-indexed array/pointer element load, or a decayed
// sub-array/sub-pointer address.
func (e *Emitter) emitLVal(lv *ast.LVal) string {
	switch lv.SymKind {
	case symtab.VarScalar:
		t := e.c.NextTemp()
		e.printf("  %%%d = load @%s\n", t, lv.SymIRName)
		return fmt.Sprintf("%%%d", t)
	case symtab.VarArray, symtab.ConstArray, symtab.Ptr, symtab.ArgPtr:
		return e.emitLValArrayRead(lv)
	default:
		panic(fmt.Sprintf("irgen: lvalue use of unexpected symbol kind %v", lv.SymKind))
	}
}

func (e *Emitter) emitCallExpr(n *ast.CallExpr) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.emitExpr(a)
	}
	call := fmt.Sprintf("call @%s(%s)", n.Ident, strings.Join(args, ", "))
	if n.FuncKind == symtab.FuncVoid {
		e.printf("  %s\n", call)
		return ""
	}
	t := e.c.NextTemp()
	e.printf("  %%%d = %s\n", t, call)
	return fmt.Sprintf("%%%d", t)
}
