package parser_test

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/ast"
	"github.com/tnediserp/sysy-compiler/lang/parser"
)

const src = `
const int N = 10;
int arr[N];

int add(int a, int b) {
  return a + b;
}

void main() {
  int i = 0;
  while (i < N) {
    if (arr[i] > 0) {
      i = i + 1;
    } else {
      break;
    }
  }
  return;
}
`

func TestParseFileTopLevelShape(t *testing.T) {
	fset := token.NewFileSet()
	cu, err := parser.ParseFile(fset, "t.sy", []byte(src))
	require.NoError(t, err)
	require.Len(t, cu.Items, 4)

	_, ok := cu.Items[0].(*ast.ConstDecl)
	assert.True(t, ok, "item 0 should be a const decl")

	_, ok = cu.Items[1].(*ast.VarDecl)
	assert.True(t, ok, "item 1 should be a var decl")

	addDef, ok := cu.Items[2].(*ast.FuncDef)
	require.True(t, ok, "item 2 should be a func def")
	assert.Equal(t, "add", addDef.Ident)
	assert.False(t, addDef.RetVoid)
	require.Len(t, addDef.Params, 2)
	assert.Equal(t, "a", addDef.Params[0].Ident)

	mainDef, ok := cu.Items[3].(*ast.FuncDef)
	require.True(t, ok, "item 3 should be a func def")
	assert.Equal(t, "main", mainDef.Ident)
	assert.True(t, mainDef.RetVoid)
	require.Len(t, mainDef.Body.Items, 2)

	whileStmt, ok := mainDef.Body.Items[1].(*ast.WhileStmt)
	require.True(t, ok, "main's second statement should be a while loop")
	ifStmt, ok := whileStmt.Body.(*ast.Block).Items[0].(*ast.IfStmt)
	require.True(t, ok, "while body's first statement should be an if")
	assert.NotNil(t, ifStmt.Else)
}

func TestParseFileReportsSyntaxError(t *testing.T) {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "t.sy", []byte("int main() { return 1 }"))
	assert.Error(t, err)
}
