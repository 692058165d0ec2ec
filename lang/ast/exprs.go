package ast

import (
	"go/token"

	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// NumberExpr is an integer literal.
type NumberExpr struct {
	At    token.Pos
	Value int

	ExprMeta
}

func (n *NumberExpr) Pos() token.Pos  { return n.At }
func (n *NumberExpr) Walk(Visitor)    {}
func (*NumberExpr) exprNode()         {}
func (n *NumberExpr) Meta() *ExprMeta { return &n.ExprMeta }

// UnaryOp identifies a unary operator.
type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

// UnaryExpr is a unary-operator application: +x, -x or !x.
type UnaryExpr struct {
	OpPos token.Pos
	Op    UnaryOp
	X     Expr

	ExprMeta
}

func (n *UnaryExpr) Pos() token.Pos  { return n.OpPos }
func (n *UnaryExpr) Walk(v Visitor)  { Walk(v, n.X) }
func (*UnaryExpr) exprNode()         {}
func (n *UnaryExpr) Meta() *ExprMeta { return &n.ExprMeta }

// BinaryOp identifies a binary operator, both arithmetic/relational (which
// map directly to a Koopa binary opcode) and logical (&&, ||, which lower
// to short-circuit control flow instead).
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	LAnd
	LOr
)

var binaryOpNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Lt: "<", Gt: ">", Le: "<=", Ge: ">=", Eq: "==", Ne: "!=",
	LAnd: "&&", LOr: "||",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// IsLogical reports whether op is a short-circuiting logical operator.
func (op BinaryOp) IsLogical() bool { return op == LAnd || op == LOr }

// BinaryExpr is a binary-operator application.
type BinaryExpr struct {
	OpPos token.Pos
	Op    BinaryOp
	L, R  Expr

	ExprMeta
}

func (n *BinaryExpr) Pos() token.Pos  { return n.L.Pos() }
func (n *BinaryExpr) Walk(v Visitor)  { Walk(v, n.L); Walk(v, n.R) }
func (*BinaryExpr) exprNode()         {}
func (n *BinaryExpr) Meta() *ExprMeta { return &n.ExprMeta }

// CallExpr is a function-call expression.
type CallExpr struct {
	Ident   string
	IdentAt token.Pos
	Args    []Expr

	ExprMeta
	// FuncKind is the resolved callee symbol kind (FuncInt or FuncVoid),
	// cached by SEM for EMIT.
	FuncKind symtab.Kind
}

func (n *CallExpr) Pos() token.Pos { return n.IdentAt }
func (n *CallExpr) Walk(v Visitor) {
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (*CallExpr) exprNode()         {}
func (n *CallExpr) Meta() *ExprMeta { return &n.ExprMeta }
