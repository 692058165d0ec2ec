package irgen

import (
	"strconv"
	"strings"

	"github.com/tnediserp/sysy-compiler/lang/ast"
)

// emitGlobalDecl writes one or more "global @name = alloc type, init" lines
// for a top-level const/var declaration.
func (e *Emitter) emitGlobalDecl(defs []*ast.Def) {
	for _, def := range defs {
		if len(def.ResolvedDims) == 0 {
			e.emitGlobalScalar(def)
		} else {
			e.emitGlobalArray(def)
		}
	}
}

func (e *Emitter) emitGlobalScalar(def *ast.Def) {
	init := "zeroinit"
	if def.Init != nil {
		init = strconv.Itoa(def.Init.Scalar.Meta().Value)
	}
	e.printf("global @%s = alloc i32, %s\n", def.SymIRName, init)
}

func (e *Emitter) emitGlobalArray(def *ast.Def) {
	ty := arrayType(def.ResolvedDims)
	init := "zeroinit"
	if def.FlatInit != nil {
		vals := make([]int, len(def.FlatInit))
		for i, it := range def.FlatInit {
			vals[i] = it.Meta().Value
		}
		init = nestAggregate(def.ResolvedDims, vals)
	}
	e.printf("global @%s = alloc %s, %s\n", def.SymIRName, ty, init)
}

// nestAggregate formats a flat, row-major value list as a Koopa nested
// brace aggregate matching dims, e.g. dims=[2,3], vals=[1..6] yields
// "{{1, 2, 3}, {4, 5, 6}}".
func nestAggregate(dims []int, vals []int) string {
	if len(dims) <= 1 {
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = strconv.Itoa(v)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	stride := 1
	for _, d := range dims[1:] {
		stride *= d
	}
	parts := make([]string, dims[0])
	for i := 0; i < dims[0]; i++ {
		parts[i] = nestAggregate(dims[1:], vals[i*stride:(i+1)*stride])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// emitParamProlog writes the entry-block copy of an incoming argument into
// its own stack slot: "alloc ...", "store @arg_..., @var_...".
func (e *Emitter) emitParamProlog(p *ast.FuncParam) {
	ty := "i32"
	if p.IsArray {
		ty = paramType(p)
	}
	e.printf("  @%s = alloc %s\n", p.SymIRName, ty)
	e.printf("  store @%s, @%s\n", p.ArgIRName, p.SymIRName)
}

// emitLocalDecl emits one or more definitions of a block-scoped const/var
// declaration: an alloc for each, followed by element-wise or single-value
// stores for any initializer present.
func (e *Emitter) emitLocalDecl(defs []*ast.Def) {
	for _, def := range defs {
		if len(def.ResolvedDims) == 0 {
			e.emitLocalScalar(def)
		} else {
			e.emitLocalArray(def)
		}
	}
}

func (e *Emitter) emitLocalScalar(def *ast.Def) {
	e.printf("  @%s = alloc i32\n", def.SymIRName)
	if def.Init != nil {
		v := e.emitExpr(def.Init.Scalar)
		e.printf("  store %s, @%s\n", v, def.SymIRName)
	}
}

func (e *Emitter) emitLocalArray(def *ast.Def) {
	ty := arrayType(def.ResolvedDims)
	name := def.SymIRName
	e.printf("  @%s = alloc %s\n", name, ty)
	if def.FlatInit == nil {
		return
	}
	for i, it := range def.FlatInit {
		v := e.emitExpr(it)
		addr := e.emitFlatIndexAddr(name, def.ResolvedDims, i)
		e.printf("  store %s, %s\n", v, addr)
	}
}
