package input

import (
	"duel/object"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeSetsOneBitPerControl(t *testing.T) {
	assert.Equal(t, Input(0), Encode(Raw{}))
	assert.Equal(t, Up, Encode(Raw{Up: true}))
	assert.Equal(t, Down, Encode(Raw{Down: true}))
	assert.Equal(t, Left, Encode(Raw{Left: true}))
	assert.Equal(t, Right, Encode(Raw{Right: true}))
	assert.Equal(t, Fire, Encode(Raw{Fire: true}))
	assert.Equal(t, Input(0x1f), Encode(Raw{Up: true, Down: true, Left: true, Right: true, Fire: true}))
}

func TestDecodeAxes(t *testing.T) {
	cases := []struct {
		in   Input
		want object.Vector
	}{
		{Up, object.Vector{X: 0, Y: 1}},
		{Down, object.Vector{X: 0, Y: -1}},
		{Right, object.Vector{X: 1, Y: 0}},
		{Left, object.Vector{X: -1, Y: 0}},
		{0, object.Zero},
	}
	for _, c := range cases {
		dir, fire := Decode(c.in)
		assert.Equal(t, c.want, dir, "input %05b", c.in)
		assert.False(t, fire)
	}
}

func TestOpposingFlagsCancel(t *testing.T) {
	dir, _ := Decode(Up | Down)
	assert.Equal(t, object.Zero, dir)

	dir, _ = Decode(Left | Right)
	assert.Equal(t, object.Zero, dir)

	dir, _ = Decode(Up | Down | Right)
	assert.Equal(t, object.Vector{X: 1, Y: 0}, dir)
}

func TestDiagonalIsUnitLength(t *testing.T) {
	dir, fire := Decode(Up | Left | Fire)
	require.True(t, fire)
	l := math.Sqrt(2)
	assert.Equal(t, -1/l, dir.X)
	assert.Equal(t, 1/l, dir.Y)
	assert.InDelta(t, 1, dir.Length(), 1e-15)
}

func TestDecodeIgnoresHighBits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := Input(rapid.Byte().Draw(t, "input"))
		dir, fire := Decode(in)
		lowDir, lowFire := Decode(in & 0x1f)
		if dir != lowDir || fire != lowFire {
			t.Fatalf("high bits changed decode of %08b", in)
		}
		if l := dir.Length(); dir != object.Zero && math.Abs(l-1) > 1e-15 {
			t.Fatalf("direction of %08b has length %v", in, l)
		}
	})
}
