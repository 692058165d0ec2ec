// Package ctx defines the CompilerContext: the single mutable-state struct
// threaded through the semantic and emission passes in place of package
// globals, per the "thread a CompilerContext through the traversals"
// rewrite guidance.
package ctx

import (
	"fmt"
	"go/token"

	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

// Fatal is the single error type for all core compiler errors: name
// resolution, type/kind mismatches, initializer-shape errors. It carries a
// source position for diagnostic formatting.
type Fatal struct {
	Pos token.Position
	Msg string
}

func (e *Fatal) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// Errorf builds a *Fatal from fset/pos and a formatted message.
func Errorf(fset *token.FileSet, pos token.Pos, format string, args ...any) *Fatal {
	return &Fatal{Pos: fset.Position(pos), Msg: fmt.Sprintf(format, args...)}
}

// LoopLabels names the two block labels break/continue resolve to for one
// enclosing while loop.
type LoopLabels struct {
	Entry string // continue target
	End   string // break target
}

// Context threads SEM and EMIT's mutable state: the symbol table, every
// monotone label/temp counter, the "function has returned" flag and the
// loop-label stack. A single Context is created per compiled file and
// reused across SEM and EMIT. Only SEM pushes and pops scopes; EMIT pushes
// none and uses the IR names SEM cached on the AST nodes.
type Context struct {
	Fset *token.FileSet
	Syms *symtab.Stack

	tempCounter  int // per-function SSA temp counter, reset at function entry
	andCounter   int
	orCounter    int
	ifCounter    int
	whileCounter int
	remainCount  int // while_remain_<k> synthetic label counter, global

	Returned bool // suppresses emission of dead code after a terminator

	loopStack []LoopLabels
}

// New creates a Context with a fresh global-scope symbol table, pre-seeded
// with the eight SysY library function signatures.
func New(fset *token.FileSet) *Context {
	c := &Context{Fset: fset, Syms: symtab.New()}
	c.declareLibrary()
	return c
}

// libraryFuncs lists the SysY runtime functions every compilation unit sees
// without a user declaration: getint/getch/getarray return int, the rest
// are void.
var libraryFuncs = []struct {
	name    string
	retVoid bool
	params  []string // Koopa types, for the decl line
}{
	{"getint", false, nil},
	{"getch", false, nil},
	{"getarray", false, []string{"*i32"}},
	{"putint", true, []string{"i32"}},
	{"putch", true, []string{"i32"}},
	{"putarray", true, []string{"i32", "*i32"}},
	{"starttime", true, nil},
	{"stoptime", true, nil},
}

func (c *Context) declareLibrary() {
	for _, f := range libraryFuncs {
		kind := symtab.FuncVoid
		if !f.retVoid {
			kind = symtab.FuncInt
		}
		c.Syms.Add(f.name, symtab.Entry{Kind: kind, IRName: f.name})
	}
}

// LibraryDecl is one line of the top-of-program "decl @name(...): ret"
// (or "decl @name(...)" for void) preamble EMIT writes.
type LibraryDecl struct {
	Name    string
	Params  []string
	RetVoid bool
}

// LibraryDecls returns every predeclared library function's decl-line
// shape, in declaration order.
func LibraryDecls() []LibraryDecl {
	decls := make([]LibraryDecl, len(libraryFuncs))
	for i, f := range libraryFuncs {
		decls[i] = LibraryDecl{Name: f.name, Params: f.params, RetVoid: f.retVoid}
	}
	return decls
}

// EnterFunction resets per-function counters and the "returned" flag.
func (c *Context) EnterFunction() {
	c.tempCounter = 0
	c.Returned = false
}

// NextTemp returns the next SSA temporary index for the current function.
func (c *Context) NextTemp() int {
	n := c.tempCounter
	c.tempCounter++
	return n
}

// NextAnd, NextOr, NextIf, NextWhile and NextRemain hand out the monotone
// suffixes used to name short-circuit and control-flow labels.
func (c *Context) NextAnd() int    { n := c.andCounter; c.andCounter++; return n }
func (c *Context) NextOr() int     { n := c.orCounter; c.orCounter++; return n }
func (c *Context) NextIf() int     { n := c.ifCounter; c.ifCounter++; return n }
func (c *Context) NextWhile() int  { n := c.whileCounter; c.whileCounter++; return n }
func (c *Context) NextRemain() int { n := c.remainCount; c.remainCount++; return n }

// PushScope pushes a new symbol-table scope and returns a closer function
// that pops it. Call the closer with defer at every block/function entry so
// the scope is released on every exit path, including a panic-driven
// unwind.
func (c *Context) PushScope() func() {
	c.Syms.PushScope()
	return c.Syms.PopScope
}

// PushLoop records the label pair for a newly entered while loop; the
// returned closer pops it, to be deferred at loop exit.
func (c *Context) PushLoop(l LoopLabels) func() {
	c.loopStack = append(c.loopStack, l)
	return func() {
		c.loopStack = c.loopStack[:len(c.loopStack)-1]
	}
}

// CurrentLoop returns the innermost enclosing loop's labels. ok is false
// outside any loop (a SEM error: break/continue outside a while).
func (c *Context) CurrentLoop() (l LoopLabels, ok bool) {
	if len(c.loopStack) == 0 {
		return LoopLabels{}, false
	}
	return c.loopStack[len(c.loopStack)-1], true
}
