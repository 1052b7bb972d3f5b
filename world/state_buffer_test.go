package world

import (
	"duel/input"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateBuffer(t *testing.T) {
	tuning := DefaultTuning()
	buffer := NewStateBuffer(4)
	require.Equal(t, NilFrame, buffer.CurrentFrame())
	require.Equal(t, NilFrame, buffer.OldestFrame())
	_, ok := buffer.Current()
	require.False(t, ok)

	s := NewState(5, tuning)
	buffer.Add(s, nil)
	checksums := []uint64{Checksum(s)}
	for i := 0; i < 9; i++ {
		in := inputs(input.Input(i), input.Fire)
		s = Step(s, in, frame, tuning)
		buffer.Add(s, in)
		checksums = append(checksums, Checksum(s))
	}

	assert.Equal(t, int64(9), buffer.CurrentFrame())
	assert.Equal(t, int64(6), buffer.OldestFrame())
	_, ok = buffer.At(5)
	assert.False(t, ok)
	_, ok = buffer.At(10)
	assert.False(t, ok)

	for f := int64(6); f <= 9; f++ {
		sum, ok := buffer.Checksum(f)
		require.True(t, ok)
		assert.Equal(t, checksums[f], sum)
	}
	in, ok := buffer.Inputs(8)
	require.True(t, ok)
	assert.Equal(t, inputs(7, input.Fire), in)

	current, ok := buffer.Current()
	require.True(t, ok)
	assert.Equal(t, checksums[9], Checksum(Load(current)))

	replayed := []uint64{}
	require.True(t, buffer.Replay(6, frame, tuning, func(s State) {
		replayed = append(replayed, Checksum(s))
	}))
	assert.Equal(t, checksums[7:], replayed)
	assert.False(t, buffer.Replay(2, frame, tuning, func(State) {}))

	assert.Panics(t, func() { buffer.Add(s, nil) }, "frames must be consecutive")

	buffer.Clear()
	assert.Equal(t, NilFrame, buffer.CurrentFrame())
	_, ok = buffer.Checksum(9)
	assert.False(t, ok)
}
