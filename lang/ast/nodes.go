package ast

import (
	"go/token"

	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// CompUnit is the root of the AST: a SysY compilation unit, an ordered
// sequence of top-level declarations and function definitions. Order
// matters because a global const/var initializer may reference a
// previously declared global constant.
type CompUnit struct {
	Items []Node // each is *ConstDecl, *VarDecl or *FuncDef
}

func (n *CompUnit) Pos() token.Pos {
	if len(n.Items) == 0 {
		return token.NoPos
	}
	return n.Items[0].Pos()
}
func (n *CompUnit) Walk(v Visitor) {
	for _, it := range n.Items {
		Walk(v, it)
	}
}

// Def is a single declarator within a ConstDecl or VarDecl: an identifier,
// its array dimensions (empty for a scalar) and an optional initializer.
type Def struct {
	Ident   string
	IdentAt token.Pos
	Dims    []Expr // ConstExp dimension sizes, outermost first
	Init    *InitVal

	// ResolvedDims and FlatInit are filled in by SEM: the declared dimension
	// sizes folded to concrete ints, and (for an array with an initializer)
	// the brace-aligned, zero-padded scalar list EMIT writes element-wise.
	// SymIRName is the mangled IR name assigned to this definition.
	ResolvedDims []int
	FlatInit     []Expr
	SymIRName    string
}

func (n *Def) Pos() token.Pos { return n.IdentAt }
func (n *Def) Walk(v Visitor) {
	for _, d := range n.Dims {
		Walk(v, d)
	}
	if n.Init != nil {
		Walk(v, n.Init)
	}
}

// ConstDecl is "const int a = 1, b[2] = {...};".
type ConstDecl struct {
	At   token.Pos
	Defs []*Def
}

func (n *ConstDecl) Pos() token.Pos { return n.At }
func (n *ConstDecl) Walk(v Visitor) {
	for _, d := range n.Defs {
		Walk(v, d)
	}
}
func (*ConstDecl) stmtNode() {}

// VarDecl is "int a, b[2] = {...};" (no const keyword).
type VarDecl struct {
	At   token.Pos
	Defs []*Def
}

func (n *VarDecl) Pos() token.Pos { return n.At }
func (n *VarDecl) Walk(v Visitor) {
	for _, d := range n.Defs {
		Walk(v, d)
	}
}
func (*VarDecl) stmtNode() {}

// FuncParam is a single formal parameter. IsArray is true for a
// pointer-decayed array parameter ("int a[]" or "int a[][3]"); ExtraDims
// holds the dimensions after the first (empty) one.
type FuncParam struct {
	Ident     string
	IdentAt   token.Pos
	IsArray   bool
	ExtraDims []Expr

	ResolvedExtraDims []int

	// ArgIRName, SymIRName, SymKind and SymDims are filled in by SEM,
	// mirroring the ExprMeta cache on expression nodes (a FuncParam is not
	// itself an Expr, so it cannot embed ExprMeta, but EMIT needs the same
	// resolved-symbol information to emit the parameter).
	//
	// ArgIRName is the raw incoming SSA argument's name (arg_<id>_<n>),
	// used only in the function signature and the entry-block copy; every
	// later reference to the parameter inside the body goes through
	// SymIRName/SymKind instead (var_<id>_<n> or ptr_<id>_<n>), since that
	// is what SEM registers in the symbol table for the parameter's own
	// scope, per "parameters are treated uniformly with ordinary locals
	// thereafter".
	ArgIRName string
	SymIRName string
	SymKind   symtab.Kind
	SymDims   []int
}

func (n *FuncParam) Pos() token.Pos { return n.IdentAt }
func (n *FuncParam) Walk(v Visitor) {
	for _, d := range n.ExtraDims {
		Walk(v, d)
	}
}

// FuncDef is a function definition. RetVoid distinguishes "void f(...)"
// from "int f(...)".
type FuncDef struct {
	At      token.Pos
	RetVoid bool
	Ident   string
	IdentAt token.Pos
	Params  []*FuncParam
	Body    *Block
}

func (n *FuncDef) Pos() token.Pos { return n.At }
func (n *FuncDef) Walk(v Visitor) {
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}

// Block is "{ stmt... }"; each item is a Stmt (ConstDecl/VarDecl included,
// since a declaration is itself a kind of statement in a block).
type Block struct {
	LBrace, RBrace token.Pos
	Items          []Stmt
}

func (n *Block) Pos() token.Pos { return n.LBrace }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Items {
		Walk(v, s)
	}
}
func (*Block) stmtNode() {}
