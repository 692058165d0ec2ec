package sema_test

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/ctx"
	"github.com/tnediserp/sysy-compiler/lang/parser"
	"github.com/tnediserp/sysy-compiler/lang/sema"
)

func run(t *testing.T, src string) (*ast.CompUnit, error) {
	t.Helper()
	fset := token.NewFileSet()
	cu, err := parser.ParseFile(fset, "t.sy", []byte(src))
	require.NoError(t, err)
	c := ctx.New(fset)
	return cu, sema.Run(c, cu)
}

func TestConstFolding(t *testing.T) {
	cu, err := run(t, `
const int N = 3 + 4 * 2;
int arr[N];
void main() { return; }
`)
	require.NoError(t, err)

	constDecl := cu.Items[0].(*ast.ConstDecl)
	assert.Equal(t, 11, constDecl.Defs[0].Init.Scalar.Meta().Value)

	varDecl := cu.Items[1].(*ast.VarDecl)
	require.Len(t, varDecl.Defs[0].ResolvedDims, 1)
	assert.Equal(t, 11, varDecl.Defs[0].ResolvedDims[0])
}

func TestDivModByConstantZeroFoldsToZero(t *testing.T) {
	cu, err := run(t, `
const int A = 5 / 0;
const int B = 5 % 0;
void main() { return; }
`)
	require.NoError(t, err)
	declA := cu.Items[0].(*ast.ConstDecl)
	declB := cu.Items[1].(*ast.ConstDecl)
	assert.Equal(t, 0, declA.Defs[0].Init.Scalar.Meta().Value)
	assert.Equal(t, 0, declB.Defs[0].Init.Scalar.Meta().Value)
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	_, err := run(t, `
void main() {
  break;
}
`)
	assert.Error(t, err)
}

func TestAssignToConstantIsAnError(t *testing.T) {
	_, err := run(t, `
const int N = 1;
void main() {
  N = 2;
}
`)
	assert.Error(t, err)
}

func TestArrayParamDecaysToPointer(t *testing.T) {
	cu, err := run(t, `
int sum(int a[], int n) {
  return a[0] + n;
}
void main() { return; }
`)
	require.NoError(t, err)
	fn := cu.Items[0].(*ast.FuncDef)
	param := fn.Params[0]
	assert.True(t, param.IsArray)
	assert.NotEmpty(t, param.SymIRName)
	require.Len(t, param.SymDims, 1)
	assert.Equal(t, 0, param.SymDims[0], "decayed leading dimension has no fixed size")
}

func TestUndefinedIdentifierIsAnError(t *testing.T) {
	_, err := run(t, `
void main() {
  x = 1;
}
`)
	assert.Error(t, err)
}
