// Package ast defines the tagged AST node hierarchy produced by lang/parser
// and consumed by lang/sema and lang/irgen. Every syntactic category is its
// own Go type; the two passes that walk it (SEM and EMIT) use exhaustive
// type switches rather than virtual dispatch, per the "tagged sum, pattern
// matched" rewrite guidance for this kind of tree.
package ast

import (
	"go/token"

	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// Node is any node in the AST.
type Node interface {
	// Pos returns the position of the first token of the node.
	Pos() token.Pos
	// Walk visits the node's direct children with v.
	Walk(v Visitor)
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node. Every Expr carries an ExprMeta, filled in by
// SEM and read back by EMIT, in place of per-node virtual methods.
type Expr interface {
	Node
	exprNode()
	Meta() *ExprMeta
}

// LVal is an l-value use: a bare identifier or an indexed identifier. It
// satisfies Expr (an l-value can appear on the right-hand side of an
// assignment too, e.g. "x = y;").
type LVal struct {
	Ident   string
	IdentAt token.Pos
	Indices []Expr // zero or more subscripts, empty for a plain scalar use

	ExprMeta
}

func (n *LVal) Pos() token.Pos { return n.IdentAt }
func (n *LVal) Walk(v Visitor) {
	for _, idx := range n.Indices {
		Walk(v, idx)
	}
}
func (*LVal) exprNode()          {}
func (n *LVal) Meta() *ExprMeta  { return &n.ExprMeta }

// ExprMeta is the small struct embedded in every expression node, holding
// both the value descriptor from the data model ({is_var, value, temp})
// and the resolution info SEM caches for EMIT to use without re-resolving.
type ExprMeta struct {
	IsVar bool // true: a runtime SSA temporary; false: value holds a compile-time constant
	Value int  // folded constant value, meaningful only when !IsVar
	Temp  int  // not assigned: EMIT numbers SSA temporaries inline as it emits (see irgen.Emitter)

	// Resolution info, filled in by SEM for LVal nodes (a CallExpr keeps its
	// callee kind in its own FuncKind field).
	SymKind  symtab.Kind
	SymIRName string
	SymDims  []int // declared array dimensions, for LVal nodes naming an array/pointer symbol
}
