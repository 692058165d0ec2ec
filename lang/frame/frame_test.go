package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/frame"
	"github.com/tnediserp/sysy-compiler/lang/koopa"
)

const sampleIR = `
decl @getint(): i32

fun @f(@arg_n_1: i32, @arg_b_1: i32, @arg_c_1: i32, @arg_d_1: i32, @arg_e_1: i32, @arg_f_1: i32, @arg_g_1: i32, @arg_h_1: i32, @arg_i_1: i32) : i32 {
%entry:
  @x = alloc i32
  store 0, @x
  %0 = call @getint()
  %1 = add %0, @arg_i_1
  ret %1
}
`

func TestPlanParamSentinels(t *testing.T) {
	p, err := koopa.Load([]byte(sampleIR))
	require.NoError(t, err)
	fn, ok := p.FindFunction("f")
	require.True(t, ok)

	f := frame.Plan(fn)

	// the first 8 parameters arrive in a0..a7.
	for i, pv := range fn.ParamValues[:8] {
		class, _, reg := f.Resolve(pv)
		assert.Equalf(t, frame.InRegister, class, "param %d", i)
		assert.Equalf(t, i, reg, "param %d", i)
	}

	// the 9th parameter was spilled onto the caller's stack.
	class, real, _ := f.Resolve(fn.ParamValues[8])
	assert.Equal(t, frame.OnCallerStack, class)
	assert.Equal(t, f.Size, real)
}

func TestPlanLocalsAndCallBookkeeping(t *testing.T) {
	p, err := koopa.Load([]byte(sampleIR))
	require.NoError(t, err)
	fn, ok := p.FindFunction("f")
	require.True(t, ok)

	f := frame.Plan(fn)

	assert.Equal(t, 4, f.RASize)
	assert.Equal(t, 0, f.SavedArgsSize)
	assert.Equal(t, 0, f.Size%16, "frame size must be 16-byte aligned")

	entry := fn.Blocks[0]
	allocX := entry.Insts[0]
	call := entry.Insts[2]
	add := entry.Insts[3]

	classX, offX, _ := f.Resolve(allocX)
	assert.Equal(t, frame.OnStack, classX)

	classCall, offCall, _ := f.Resolve(call)
	assert.Equal(t, frame.OnStack, classCall)
	assert.NotEqual(t, offX, offCall)

	classAdd, _, _ := f.Resolve(add)
	assert.Equal(t, frame.OnStack, classAdd)
}
