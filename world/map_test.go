package world

import (
	"duel/object"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGenerateIsReproducible(t *testing.T) {
	tuning := DefaultTuning()
	a := Generate(0xdeadbeef, tuning)
	b := Generate(0xdeadbeef, tuning)
	require.Equal(t, a, b)

	c := Generate(0xdeadbeef+1, tuning)
	assert.NotEqual(t, a, c)
}

func TestGenerateStaysInsideArena(t *testing.T) {
	tuning := DefaultTuning()
	half := tuning.halfSize()
	limit := tuning.playerLimit()

	rapid.Check(t, func(t *rapid.T) {
		layout := Generate(rapid.Uint64().Draw(t, "seed"), tuning)
		if len(layout.Obstacles) != tuning.ObstacleCount {
			t.Fatalf("got %d obstacles", len(layout.Obstacles))
		}
		for i, o := range layout.Obstacles {
			e := o.HalfExtents
			if e.X < 0.5 || e.Y < 0.5 || e.X > float64(tuning.ArenaSize/4)/2 || e.Y > float64(tuning.ArenaSize/4)/2 {
				t.Fatalf("obstacle %d has extents %v", i, e)
			}
			if o.Position.X-e.X < -half || o.Position.X+e.X > half ||
				o.Position.Y-e.Y < -half || o.Position.Y+e.Y > half {
				t.Fatalf("obstacle %d at %v pokes out of the arena", i, o.Position)
			}
			// Walls sit on the cell grid.
			edge := o.Position.X - e.X + half
			if edge != float64(int(edge)) {
				t.Fatalf("obstacle %d is off-grid: %v", i, o.Position)
			}
		}
		for h, s := range layout.Spawns {
			if s.X < -limit || s.X >= limit || s.Y < -limit || s.Y >= limit {
				t.Fatalf("spawn %d at %v is outside the arena interior", h, s)
			}
		}
	})
}

func TestGenerateWithoutObstacles(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ObstacleCount = 0
	layout := Generate(3, tuning)
	assert.Empty(t, layout.Obstacles)
	assert.NotEqual(t, layout.Spawns[0], layout.Spawns[1])
}

func TestGenerateRejectsTinyArena(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ArenaSize = 7
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*InvariantError)
		assert.True(t, ok, "panicked with %T", r)
	}()
	Generate(1, tuning)
}

func TestObstacleContainsIsStrict(t *testing.T) {
	o := Obstacle{HalfExtents: object.Vector{X: 1, Y: 2}}
	assert.True(t, o.Contains(object.Vector{X: 0.99, Y: -1.99}))
	assert.False(t, o.Contains(object.Vector{X: 1, Y: 0}))
	assert.False(t, o.Contains(object.Vector{X: 0, Y: -2}))
}
