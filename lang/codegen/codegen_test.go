package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/codegen"
	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

const sampleIR = `
decl @getint(): i32
decl @putint(i32)

global @g = alloc i32, zeroinit

fun @main(): i32 {
%entry:
  @x = alloc i32
  store 0, @x
  %0 = load @x
  %1 = call @getint()
  %2 = add %0, %1
  store %2, @x
  %3 = load @x
  %4 = gt %3, 0
  br %4, %pos, %neg
%pos:
  call @putint(%3)
  jump %end
%neg:
  call @putint(0)
  jump %end
%end:
  ret %3
}
`

func TestGenerateSmoke(t *testing.T) {
	p, err := koopa.Load([]byte(sampleIR))
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, codegen.Generate(p, &out))
	asm := out.String()

	assert.Contains(t, asm, ".data")
	assert.Contains(t, asm, ".globl g\ng:\n  .zero 4\n")
	assert.Contains(t, asm, ".text")
	assert.Contains(t, asm, ".globl main\nmain:\n")
	assert.Contains(t, asm, "call getint")
	assert.Contains(t, asm, "call putint")
	assert.Contains(t, asm, "sgt")
	assert.Contains(t, asm, "ret\n")
	// declared-only library functions contribute no code of their own.
	assert.NotContains(t, asm, "getint:\n")
}
