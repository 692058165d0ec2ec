package koopa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

const sampleIR = `
decl @getint(): i32
decl @putint(i32)

global @g = alloc [i32, 2], {1, 2}

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

const wantDump = `decl @getint(): i32
decl @putint(i32)

global @g = alloc [i32, 2], {1, 2}
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

func TestLoadShape(t *testing.T) {
	p, err := koopa.Load([]byte(sampleIR))
	require.NoError(t, err)

	require.Len(t, p.Globals, 1)
	assert.Equal(t, "@g", p.Globals[0].Name)
	assert.Equal(t, "{1, 2}", p.Globals[0].Init)

	fn, ok := p.FindFunction("main")
	require.True(t, ok)
	require.NotNil(t, fn.Blocks)
	require.Len(t, fn.Blocks, 4)
	assert.Equal(t, "entry", fn.Blocks[0].Name)

	getint, ok := p.FindFunction("getint")
	require.True(t, ok)
	assert.Nil(t, getint.Blocks)

	branch := fn.Blocks[0].Insts[len(fn.Blocks[0].Insts)-1]
	require.Equal(t, koopa.KBranch, branch.Kind)
	assert.Equal(t, "pos", branch.TargetTrue.Name)
	assert.Equal(t, "neg", branch.TargetFalse.Name)
	// both branch targets are the same *BasicBlock the later label line
	// opened, not a second, disconnected shell.
	assert.Same(t, fn.Blocks[1], branch.TargetTrue)
	assert.Same(t, fn.Blocks[2], branch.TargetFalse)
}

func TestLoadDumpRoundTrip(t *testing.T) {
	p, err := koopa.Load([]byte(sampleIR))
	require.NoError(t, err)
	assert.Equal(t, wantDump, koopa.Dump(p))
}

func TestLoadDumpIsAFixedPoint(t *testing.T) {
	p, err := koopa.Load([]byte(sampleIR))
	require.NoError(t, err)
	once := koopa.Dump(p)

	p2, err := koopa.Load([]byte(once))
	require.NoError(t, err)
	twice := koopa.Dump(p2)

	assert.Equal(t, once, twice)
}
