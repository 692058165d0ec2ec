// Package sema implements the semantic pass (SEM): a single pre-pass over
// the AST that resolves identifiers against the symbol table, folds
// constant expressions, classifies l-value uses, and records array
// dimension vectors so EMIT can walk the tree without re-deriving any of
// this.
package sema

import (
	"fmt"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/ctx"
	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// analyzer holds the state needed across the single AST traversal: the
// context (symbol table, counters), the return kind of the function
// currently being analysed, and the stack of enclosing while loops (for
// break/continue linkage, independent of ctx.Context's label-only loop
// stack which EMIT drives instead).
type analyzer struct {
	c         *ctx.Context
	retVoid   bool
	whileStack []*ast.WhileStmt
}

// Run analyses cu in place, annotating every node's ExprMeta/ResolvedDims
// fields, and returns the first fatal error encountered, if any.
func Run(c *ctx.Context, cu *ast.CompUnit) (err error) {
	a := &analyzer{c: c}
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*ctx.Fatal); ok {
				err = f
				return
			}
			panic(r)
		}
	}()
	for _, item := range cu.Items {
		a.topLevel(item)
	}
	return nil
}

func (a *analyzer) errorf(n ast.Node, format string, args ...any) *ctx.Fatal {
	return ctx.Errorf(a.c.Fset, n.Pos(), format, args...)
}

func (a *analyzer) topLevel(item ast.Node) {
	switch n := item.(type) {
	case *ast.ConstDecl:
		a.declStmt(n.Defs, n, true, true)
	case *ast.VarDecl:
		a.declStmt(n.Defs, n, false, true)
	case *ast.FuncDef:
		a.funcDef(n)
	default:
		panic(fmt.Sprintf("sema: unexpected top-level node %T", item))
	}
}

func (a *analyzer) funcDef(n *ast.FuncDef) {
	if a.c.Syms.ExistsInScope(n.Ident) {
		panic(a.errorf(n, "function %q already declared", n.Ident))
	}
	kind := symtab.FuncInt
	if n.RetVoid {
		kind = symtab.FuncVoid
	}
	a.c.Syms.Add(n.Ident, symtab.Entry{Kind: kind, IRName: n.Ident})

	closeScope := a.c.PushScope()
	defer closeScope()
	a.c.EnterFunction()

	prevRetVoid := a.retVoid
	a.retVoid = n.RetVoid
	defer func() { a.retVoid = prevRetVoid }()

	for _, p := range n.Params {
		a.funcParam(p)
	}
	// function entry already pushed the scope parameters and the body share.
	for _, item := range n.Body.Items {
		a.stmt(item)
	}
}

// funcParam registers a parameter under the VarScalar/Ptr kind it behaves
// as inside the function body (it is copied to its own stack slot in the
// entry block so repeated reads/writes behave like any other local), while
// ArgIRName records the raw incoming SSA argument name used only for the
// function signature and that one copy instruction.
func (a *analyzer) funcParam(p *ast.FuncParam) {
	scopeID := a.c.Syms.CurrentScopeID()
	if !p.IsArray {
		p.ArgIRName = symtab.Mangle(symtab.ArgScalar, p.Ident, scopeID)
		entry := symtab.Entry{Kind: symtab.VarScalar}
		entry.IRName = symtab.Mangle(symtab.VarScalar, p.Ident, scopeID)
		a.c.Syms.Add(p.Ident, entry)
		p.SymKind, p.SymIRName = entry.Kind, entry.IRName
		return
	}

	p.ResolvedExtraDims = make([]int, len(p.ExtraDims))
	for i, d := range p.ExtraDims {
		p.ResolvedExtraDims[i] = a.evalConstInt(d)
	}

	dims := make([]int, 0, len(p.ResolvedExtraDims)+1)
	dims = append(dims, 0) // decayed first dimension has no fixed size
	dims = append(dims, p.ResolvedExtraDims...)

	p.ArgIRName = symtab.Mangle(symtab.ArgPtr, p.Ident, scopeID)
	entry := symtab.Entry{Kind: symtab.Ptr, DimCount: len(dims), Dims: dims}
	entry.IRName = symtab.Mangle(symtab.Ptr, p.Ident, scopeID)
	a.c.Syms.Add(p.Ident, entry)
	p.SymKind, p.SymIRName, p.SymDims = entry.Kind, entry.IRName, entry.Dims
}

// block analyses a nested compound statement, opening its own scope.
func (a *analyzer) block(b *ast.Block) {
	closeScope := a.c.PushScope()
	defer closeScope()
	for _, item := range b.Items {
		a.stmt(item)
	}
}

func (a *analyzer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ConstDecl:
		a.declStmt(n.Defs, n, true, false)
	case *ast.VarDecl:
		a.declStmt(n.Defs, n, false, false)
	case *ast.Block:
		a.block(n)
	case *ast.AssignStmt:
		a.assignStmt(n)
	case *ast.ExprStmt:
		if n.Expr != nil {
			a.expr(n.Expr)
		}
	case *ast.IfStmt:
		a.expr(n.Cond)
		a.stmt(n.Then)
		if n.Else != nil {
			a.stmt(n.Else)
		}
	case *ast.WhileStmt:
		a.expr(n.Cond)
		a.whileStack = append(a.whileStack, n)
		a.stmt(n.Body)
		a.whileStack = a.whileStack[:len(a.whileStack)-1]
	case *ast.BreakStmt:
		if len(a.whileStack) == 0 {
			panic(a.errorf(n, "break outside of a loop"))
		}
		n.Loop = a.whileStack[len(a.whileStack)-1]
	case *ast.ContinueStmt:
		if len(a.whileStack) == 0 {
			panic(a.errorf(n, "continue outside of a loop"))
		}
		n.Loop = a.whileStack[len(a.whileStack)-1]
	case *ast.ReturnStmt:
		if n.Expr != nil {
			if a.retVoid {
				panic(a.errorf(n, "void function must not return a value"))
			}
			a.expr(n.Expr)
		} else if !a.retVoid {
			// a bare "return;" in an int function is allowed by this
			// implementation (EMIT synthesizes "ret 0" only for the
			// implicit fall-off-the-end case); nothing further to check.
			_ = n
		}
	default:
		panic(fmt.Sprintf("sema: unexpected statement %T", s))
	}
}

func (a *analyzer) assignStmt(n *ast.AssignStmt) {
	a.lval(n.LVal)
	a.expr(n.RHS)
	if n.LVal.SymKind.IsConst() {
		panic(a.errorf(n, "cannot assign to constant %q", n.LVal.Ident))
	}
}
