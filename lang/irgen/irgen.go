// Package irgen implements EMIT: the second AST traversal that writes
// textual Koopa IR, using the symbol-table/constant information SEM cached
// on every node.
package irgen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/ctx"
)

// Emitter writes textual Koopa IR for one compilation unit. Unlike the
// source this is grounded on, there is no separate distribute_temps
// pre-pass: since emission already visits every expression depth-first,
// left-to-right, in exactly the order the numbering pass would, temp
// indices are assigned inline as each value is about to be used, which
// yields the identical strictly-increasing-in-traversal-order numbering.
type Emitter struct {
	c  *ctx.Context
	w  *bufio.Writer
	// curRetVoid is the return kind of the function currently being emitted.
	curRetVoid bool
}

// Emit writes cu's Koopa IR to w: the library decl preamble, then every
// global definition and function, interleaved in source order.
func Emit(c *ctx.Context, cu *ast.CompUnit, w io.Writer) error {
	e := &Emitter{c: c, w: bufio.NewWriter(w)}
	e.emitLibraryDecls()
	for _, item := range cu.Items {
		switch n := item.(type) {
		case *ast.ConstDecl:
			e.emitGlobalDecl(n.Defs)
		case *ast.VarDecl:
			e.emitGlobalDecl(n.Defs)
		case *ast.FuncDef:
			e.emitFuncDef(n)
		}
	}
	return e.w.Flush()
}

func (e *Emitter) printf(format string, args ...any) {
	fmt.Fprintf(e.w, format, args...)
}

// label writes a basic-block label line, e.g. "%then_0:".
func (e *Emitter) label(name string) {
	e.printf("%%%s:\n", name)
}

func (e *Emitter) emitLibraryDecls() {
	for _, d := range ctx.LibraryDecls() {
		if d.RetVoid {
			e.printf("decl @%s(%s)\n", d.Name, joinTypes(d.Params))
		} else {
			e.printf("decl @%s(%s): i32\n", d.Name, joinTypes(d.Params))
		}
	}
	e.printf("\n")
}

func joinTypes(types []string) string {
	s := ""
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += t
	}
	return s
}

func (e *Emitter) emitFuncDef(n *ast.FuncDef) {
	e.c.EnterFunction()
	e.curRetVoid = n.RetVoid

	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = fmt.Sprintf("@%s: %s", p.ArgIRName, paramType(p))
	}
	if n.RetVoid {
		e.printf("fun @%s(%s) {\n", n.Ident, joinParams(params))
	} else {
		e.printf("fun @%s(%s): i32 {\n", n.Ident, joinParams(params))
	}

	e.printf("%%entry:\n")
	for _, p := range n.Params {
		e.emitParamProlog(p)
	}
	e.emitBlockBody(n.Body)
	if !e.c.Returned {
		if n.RetVoid {
			e.printf("  ret\n")
		} else {
			e.printf("  ret 0\n")
		}
	}
	e.printf("}\n\n")
}

func joinParams(params []string) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s
}
