package world

import "duel/object"

// resolveObstacleCollisions pushes players out of walls. Every wall is
// visited for every player, since two walls can pin a player at once.
func resolveObstacleCollisions(s *State, t Tuning) {
	for i := range s.Players {
		p := &s.Players[i]
		for _, o := range s.Obstacles {
			p.Position = pushOut(p.Position, t.PlayerRadius, o)
		}
	}
}

// pushOut treats the player as a box of half-size r against the wall and, on
// overlap, moves it out along the axis that needs the smaller correction.
func pushOut(pos object.Vector, r float64, o Obstacle) object.Vector {
	toPlayer := pos.Sub(o.Position)
	// Mirror into the first quadrant; gap is the per-axis clearance between
	// the player's edge and the wall's edge, negative when penetrating.
	gap := toPlayer.Abs().Sub(o.HalfExtents).Sub(object.Vector{X: r, Y: r})
	if gap.X > 0 || gap.Y > 0 {
		return pos
	}

	if gap.X > gap.Y {
		pos.X -= object.Signum(toPlayer.X) * gap.X
	} else {
		pos.Y -= object.Signum(toPlayer.Y) * gap.Y
	}
	return pos
}

func insideObstacle(obstacles []Obstacle, p object.Vector) bool {
	for _, o := range obstacles {
		if o.Contains(p) {
			return true
		}
	}
	return false
}
