package world

import "duel/object"

// Obstacle is an axis-aligned wall. The set is replaced wholesale at the start
// of every round.
type Obstacle struct {
	Position    object.Vector
	HalfExtents object.Vector
}

// offset returns the per-axis distance from the obstacle's edges to p,
// mirrored into the first quadrant. Both components negative means p is
// strictly inside.
func (o Obstacle) offset(p object.Vector) object.Vector {
	return p.Sub(o.Position).Abs().Sub(o.HalfExtents)
}

func (o Obstacle) Contains(p object.Vector) bool {
	d := o.offset(p)
	return d.X < 0 && d.Y < 0
}

// Layout is one round's map: walls plus a spawn point per handle.
type Layout struct {
	Obstacles []Obstacle
	Spawns    [NumPlayers]object.Vector
}

// Generate builds the layout for seed. The draw order is fixed: every
// obstacle (width, height, corner x, corner y) and then the spawn points in
// handle order. Changing the order changes every map.
//
// Spawn points may overlap walls or each other. That is known and kept,
// since "fixing" it would change the layout of every existing seed.
func Generate(seed uint64, t Tuning) Layout {
	if err := t.Validate(); err != nil {
		invariant("map generator: %v", err)
	}

	rng := NewRand(seed)
	size := t.ArenaSize
	half := t.halfSize()
	maxBox := size / 4

	layout := Layout{
		Obstacles: make([]Obstacle, 0, t.ObstacleCount),
	}
	for i := 0; i < t.ObstacleCount; i++ {
		width := rng.IntRange(1, maxBox)
		height := rng.IntRange(1, maxBox)

		// Sample the minimum corner so the wall always fits without
		// clamping.
		cellX := rng.IntRange(0, size-width+1)
		cellY := rng.IntRange(0, size-height+1)

		halfExtents := object.Vector{X: float64(width) / 2, Y: float64(height) / 2}
		layout.Obstacles = append(layout.Obstacles, Obstacle{
			Position: object.Vector{
				X: float64(cellX) + halfExtents.X - half,
				Y: float64(cellY) + halfExtents.Y - half,
			},
			HalfExtents: halfExtents,
		})
	}

	limit := t.playerLimit()
	for i := range layout.Spawns {
		layout.Spawns[i] = object.Vector{
			X: rng.Float64Range(-limit, limit),
			Y: rng.Float64Range(-limit, limit),
		}
	}
	return layout
}
