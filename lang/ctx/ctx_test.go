package ctx_test

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/ctx"
	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

func TestNewPredeclaresLibraryFunctions(t *testing.T) {
	c := ctx.New(token.NewFileSet())
	for _, name := range []string{"getint", "getch", "getarray", "putint", "putch", "putarray", "starttime", "stoptime"} {
		_, _, ok := c.Syms.TryLookup(name)
		assert.Truef(t, ok, "library function %s must be predeclared", name)
	}
	assert.Len(t, ctx.LibraryDecls(), 8)
}

func TestLoopStackTracksInnermostLoop(t *testing.T) {
	c := ctx.New(token.NewFileSet())
	_, ok := c.CurrentLoop()
	assert.False(t, ok, "no loop active yet")

	closeOuter := c.PushLoop(ctx.LoopLabels{Entry: "outer_entry", End: "outer_end"})
	closeInner := c.PushLoop(ctx.LoopLabels{Entry: "inner_entry", End: "inner_end"})

	l, ok := c.CurrentLoop()
	require.True(t, ok)
	assert.Equal(t, "inner_entry", l.Entry)
	assert.Equal(t, "inner_end", l.End)

	closeInner()
	l, ok = c.CurrentLoop()
	require.True(t, ok)
	assert.Equal(t, "outer_entry", l.Entry)

	closeOuter()
	_, ok = c.CurrentLoop()
	assert.False(t, ok)
}

func TestEnterFunctionResetsTempCounter(t *testing.T) {
	c := ctx.New(token.NewFileSet())
	c.EnterFunction()
	assert.Equal(t, 0, c.NextTemp())
	assert.Equal(t, 1, c.NextTemp())

	c.EnterFunction()
	assert.Equal(t, 0, c.NextTemp(), "temp counter resets per function")
}

func TestPushScopeCloserPopsExactlyOneScope(t *testing.T) {
	c := ctx.New(token.NewFileSet())
	close1 := c.PushScope()
	c.Syms.Add("x", symtab.Entry{Kind: symtab.VarScalar, IRName: "var_x"})
	_, _, ok := c.Syms.TryLookup("x")
	require.True(t, ok)

	close1()
	_, _, ok = c.Syms.TryLookup("x")
	assert.False(t, ok, "x should be out of scope after the closer runs")
}
