package irgen_test

import (
	"bytes"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/ctx"
	"github.com/tnediserp/sysy-compiler/lang/irgen"
	"github.com/tnediserp/sysy-compiler/lang/koopa"
	"github.com/tnediserp/sysy-compiler/lang/parser"
	"github.com/tnediserp/sysy-compiler/lang/sema"
)

const src = `
int arr[3] = {1, 2, 3};

int sum(int n, int a[]) {
  int i = 0;
  int s = 0;
  while (i < n) {
    if (a[i] > 0) {
      s = s + a[i];
    }
    i = i + 1;
  }
  return s;
}

void main() {
  putint(sum(3, arr));
  return;
}
`

// compile runs SCAN, PARSE, SEM and EMIT end to end and returns the Koopa
// IR text, failing the test on any error.
func compile(t *testing.T) string {
	t.Helper()
	fset := token.NewFileSet()
	cu, err := parser.ParseFile(fset, "t.sy", []byte(src))
	require.NoError(t, err)

	c := ctx.New(fset)
	require.NoError(t, sema.Run(c, cu))

	var buf bytes.Buffer
	require.NoError(t, irgen.Emit(c, cu, &buf))
	return buf.String()
}

func TestEmitProducesLoadableIR(t *testing.T) {
	ir := compile(t)

	p, err := koopa.Load([]byte(ir))
	require.NoError(t, err, "EMIT's own output must round-trip through LOAD:\n%s", ir)

	sumFn, ok := p.FindFunction("sum")
	require.True(t, ok)
	assert.NotNil(t, sumFn.Blocks)
	assert.Equal(t, 2, len(sumFn.ParamValues))

	mainFn, ok := p.FindFunction("main")
	require.True(t, ok)
	assert.NotNil(t, mainFn.Blocks)

	// the eight library functions are pre-declared so LOAD never has to
	// special-case an unresolved callee.
	for _, lib := range []string{"getint", "getch", "getarray", "putint", "putch", "putarray", "starttime", "stoptime"} {
		fn, ok := p.FindFunction(lib)
		require.Truef(t, ok, "library function %s must be declared", lib)
		assert.Nil(t, fn.Blocks)
	}

	require.Len(t, p.Globals, 1)
	assert.Equal(t, "{1, 2, 3}", p.Globals[0].Init)
}
