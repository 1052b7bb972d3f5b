// Package input packs a player's physical controls into the one-byte code that
// is exchanged between peers and replayed by the simulation.
package input

import "duel/object"

// Input is the symbolic per-frame input of one player. Only the low five bits
// are meaningful; the rest are ignored on decode.
type Input uint8

const (
	Up Input = 1 << iota
	Down
	Left
	Right
	Fire
)

// Raw is the state of the physical controls at polling time. It never enters
// the replayed path; Encode turns it into an Input first.
type Raw struct {
	Up, Down, Left, Right, Fire bool
}

func Encode(r Raw) Input {
	var in Input
	if r.Up {
		in |= Up
	}
	if r.Down {
		in |= Down
	}
	if r.Left {
		in |= Left
	}
	if r.Right {
		in |= Right
	}
	if r.Fire {
		in |= Fire
	}
	return in
}

// Decode returns the unit movement direction (or zero) and the fire flag.
func Decode(in Input) (object.Vector, bool) {
	return in.Direction(), in.Fire()
}

// Direction sums the unit contribution of every pressed direction and
// normalizes the result. Opposing directions cancel.
func (in Input) Direction() object.Vector {
	var d object.Vector
	if in&Up != 0 {
		d.Y += 1
	}
	if in&Down != 0 {
		d.Y -= 1
	}
	if in&Right != 0 {
		d.X += 1
	}
	if in&Left != 0 {
		d.X -= 1
	}
	return d.Normalize()
}

func (in Input) Fire() bool {
	return in&Fire != 0
}
