package world

import (
	"cmp"
	"duel/object"
)

// Bullet travels in a straight line until it leaves the arena or hits
// something. Owner and SpawnFrame together identify it: a player fires at
// most once per frame.
type Bullet struct {
	Owner      Handle
	SpawnFrame int64
	Position   object.Vector
	Direction  object.Vector
}

func (b Bullet) outOfBounds(limit float64) bool {
	return b.Position.X <= -limit || b.Position.X >= limit ||
		b.Position.Y <= -limit || b.Position.Y >= limit
}

func compareBullets(a, b Bullet) int {
	if c := cmp.Compare(a.SpawnFrame, b.SpawnFrame); c != 0 {
		return c
	}
	return cmp.Compare(a.Owner, b.Owner)
}
