package world

import "duel/object"

type Player struct {
	Handle   Handle
	Position object.Vector
	// Facing is the last nonzero movement direction.
	Facing object.Vector
	// Distance only feeds animation; nothing in the simulation reads it.
	Distance    float64
	BulletReady bool
}

var defaultFacing = object.Vector{X: -1, Y: 0}

func newPlayer(h Handle, spawn object.Vector) Player {
	return Player{
		Handle:      h,
		Position:    spawn,
		Facing:      defaultFacing,
		BulletReady: true,
	}
}
