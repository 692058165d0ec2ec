package sema

import (
	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// declStmt analyses a const/var declaration's definitions, in order (a
// later def's initializer may reference an earlier one in the same
// declaration, e.g. "const int a = 1, b = a + 1;").
func (a *analyzer) declStmt(defs []*ast.Def, declNode ast.Node, isConst, isGlobal bool) {
	for _, def := range defs {
		a.def(def, declNode, isConst, isGlobal)
	}
}

func (a *analyzer) def(def *ast.Def, declNode ast.Node, isConst, isGlobal bool) {
	if a.c.Syms.ExistsInScope(def.Ident) {
		panic(a.errorf(declNode, "%q already declared in this scope", def.Ident))
	}

	def.ResolvedDims = make([]int, len(def.Dims))
	for i, d := range def.Dims {
		def.ResolvedDims[i] = a.evalConstInt(d)
	}
	isArray := len(def.ResolvedDims) > 0

	scopeID := a.c.Syms.CurrentScopeID()
	var kind symtab.Kind
	switch {
	case isConst && isArray:
		kind = symtab.ConstArray
	case isConst && !isArray:
		kind = symtab.ConstScalar
	case !isConst && isArray:
		kind = symtab.VarArray
	default:
		kind = symtab.VarScalar
	}

	entry := symtab.Entry{
		Kind:     kind,
		DimCount: len(def.ResolvedDims),
		Dims:     def.ResolvedDims,
		IRName:   symtab.Mangle(kind, def.Ident, scopeID),
	}
	def.SymIRName = entry.IRName

	if isConst && def.Init == nil {
		panic(a.errorf(declNode, "const %q requires an initializer", def.Ident))
	}

	// a global declaration's initializer must be a compile-time constant
	// even without the const keyword, since EMIT writes it directly into
	// the "global @… = alloc …, <init>" literal; only local vars may take
	// a runtime-valued initializer.
	mustBeConst := isConst || isGlobal

	if def.Init != nil {
		if isArray {
			def.FlatInit = def.Init.ParseList(def.ResolvedDims)
			for _, e := range def.FlatInit {
				a.expr(e)
				if mustBeConst && e.Meta().IsVar {
					panic(a.errorf(declNode, "initializer for array %q is not a compile-time constant", def.Ident))
				}
			}
		} else {
			a.expr(def.Init.Scalar)
			if mustBeConst && def.Init.Scalar.Meta().IsVar {
				panic(a.errorf(declNode, "initializer for %q is not a compile-time constant", def.Ident))
			}
			if isConst {
				entry.Value = def.Init.Scalar.Meta().Value
			}
		}
	}

	a.c.Syms.Add(def.Ident, entry)
}
