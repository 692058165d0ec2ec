package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/symtab"
)

func TestStackShadowing(t *testing.T) {
	s := symtab.New()
	require.Equal(t, 1, s.Depth())
	require.Equal(t, 0, s.CurrentScopeID())

	s.Add("x", symtab.Entry{Kind: symtab.VarScalar, IRName: "var_x_0"})

	closeInner := s.PushScope()
	require.Equal(t, 2, s.Depth())
	s.Add("x", symtab.Entry{Kind: symtab.ConstScalar, Value: 7, IRName: "var_x_1"})

	e, scope := s.Lookup("x")
	assert.Equal(t, symtab.ConstScalar, e.Kind)
	assert.Equal(t, 7, e.Value)
	assert.Equal(t, closeInner, scope)

	s.PopScope()
	require.Equal(t, 1, s.Depth())

	e, scope = s.Lookup("x")
	assert.Equal(t, symtab.VarScalar, e.Kind)
	assert.Equal(t, 0, scope)
}

func TestStackAddPanicsOnRedeclaration(t *testing.T) {
	s := symtab.New()
	s.Add("x", symtab.Entry{Kind: symtab.VarScalar})
	assert.Panics(t, func() {
		s.Add("x", symtab.Entry{Kind: symtab.VarScalar})
	})
}

func TestStackPopGlobalPanics(t *testing.T) {
	s := symtab.New()
	assert.Panics(t, s.PopScope)
}

func TestStackLookupUnresolvedPanics(t *testing.T) {
	s := symtab.New()
	assert.Panics(t, func() {
		s.Lookup("nope")
	})
	_, _, ok := s.TryLookup("nope")
	assert.False(t, ok)
}

func TestStackFindFunctionOnlyGlobalScope(t *testing.T) {
	s := symtab.New()
	s.Add("f", symtab.Entry{Kind: symtab.FuncInt, IRName: "f"})
	s.PushScope()
	s.Add("f", symtab.Entry{Kind: symtab.VarScalar, IRName: "var_f_1"})

	e, ok := s.FindFunction("f")
	require.True(t, ok)
	assert.Equal(t, symtab.FuncInt, e.Kind)
}

func TestMangle(t *testing.T) {
	cases := []struct {
		kind symtab.Kind
		want string
	}{
		{symtab.VarScalar, "var_x_3"},
		{symtab.ConstScalar, "var_x_3"},
		{symtab.VarArray, "arr_x_3"},
		{symtab.ConstArray, "arr_x_3"},
		{symtab.Ptr, "ptr_x_3"},
		{symtab.ArgScalar, "arg_x_3"},
		{symtab.ArgPtr, "arg_x_3"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, symtab.Mangle(c.kind, "x", 3))
	}
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, symtab.FuncInt.IsFunc())
	assert.True(t, symtab.FuncVoid.IsFunc())
	assert.False(t, symtab.VarScalar.IsFunc())

	assert.True(t, symtab.ConstArray.IsArray())
	assert.True(t, symtab.VarArray.IsArray())
	assert.False(t, symtab.Ptr.IsArray())

	assert.True(t, symtab.ConstScalar.IsConst())
	assert.True(t, symtab.ConstArray.IsConst())
	assert.False(t, symtab.VarScalar.IsConst())
}
