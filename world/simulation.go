package world

import (
	"duel/input"
	"duel/object"
	"time"
)

// Step advances s by one frame and returns the result. s is left untouched,
// so the caller may keep it as a snapshot.
//
// inputs is indexed by handle and must cover every live player. The stages
// run in a fixed order because later stages read what earlier ones wrote:
// movement, wall push-out, reload, firing, bullet movement, bullet removal,
// deaths. They only run during a round; the round timer runs last, in every
// phase.
func Step(s State, inputs []input.Input, dt time.Duration, t Tuning) State {
	if dt < 0 {
		invariant("negative frame delta %v", dt)
	}
	next := s.Clone()
	next.Frame++
	ending := next.Phase == RoundEnding

	if next.Phase == InRound {
		for _, p := range next.Players {
			if int(p.Handle) >= len(inputs) {
				invariant("frame %d: no input for handle %d", next.Frame, p.Handle)
			}
		}
		secs := dt.Seconds()
		movePlayers(&next, inputs, secs, t)
		resolveObstacleCollisions(&next, t)
		reloadBullets(&next, inputs)
		fireBullets(&next, inputs, t)
		moveBullets(&next, secs, t)
		destroyBullets(&next, t)
		killPlayers(&next, t)
	}

	tickRound(&next, ending, dt, t)
	return next
}

func movePlayers(s *State, inputs []input.Input, dt float64, t Tuning) {
	limit := t.playerLimit()
	for i := range s.Players {
		p := &s.Players[i]
		direction := inputs[p.Handle].Direction()
		if direction == object.Zero {
			continue
		}
		p.Facing = direction

		delta := direction.Scale(float64(t.PlayerSpeed * dt))
		p.Position = p.Position.Add(delta).Clamp(limit)
		p.Distance += delta.Length()
	}
}

// reloadBullets re-arms a player on any frame the fire button is up. There
// is no cooldown timer: holding fire yields exactly one shot.
func reloadBullets(s *State, inputs []input.Input) {
	for i := range s.Players {
		p := &s.Players[i]
		if !inputs[p.Handle].Fire() {
			p.BulletReady = true
		}
	}
}

func fireBullets(s *State, inputs []input.Input, t Tuning) {
	for i := range s.Players {
		p := &s.Players[i]
		if !inputs[p.Handle].Fire() || !p.BulletReady {
			continue
		}
		s.Bullets = append(s.Bullets, Bullet{
			Owner:      p.Handle,
			SpawnFrame: s.Frame,
			Position:   p.Position.Add(p.Facing.Scale(t.PlayerRadius + t.BulletRadius)),
			Direction:  p.Facing,
		})
		p.BulletReady = false
	}
}

func moveBullets(s *State, dt float64, t Tuning) {
	step := float64(t.BulletSpeed * dt)
	for i := range s.Bullets {
		b := &s.Bullets[i]
		b.Position = b.Position.Add(b.Direction.Scale(step))
	}
}

// destroyBullets drops bullets that reached the arena edge (inclusive) or
// entered a wall. The bounds check goes first and short-circuits.
func destroyBullets(s *State, t Tuning) {
	limit := t.halfSize()
	kept := s.Bullets[:0]
	for _, b := range s.Bullets {
		if b.outOfBounds(limit) || insideObstacle(s.Obstacles, b.Position) {
			continue
		}
		kept = append(kept, b)
	}
	s.Bullets = kept
}

// killPlayers removes every player touched by a bullet and credits the
// opponent once per death, however many bullets hit. Every lethal bullet is
// consumed. Both players may die on the same frame.
func killPlayers(s *State, t Tuning) {
	lethal := t.PlayerRadius + t.BulletRadius
	spent := make([]bool, len(s.Bullets))

	alive := s.Players[:0]
	for _, p := range s.Players {
		dead := false
		for j, b := range s.Bullets {
			if object.Distance(p.Position, b.Position) < lethal {
				spent[j] = true
				dead = true
			}
		}
		if !dead {
			alive = append(alive, p)
			continue
		}
		s.Scores[p.Handle.Opponent()]++
		s.Phase = RoundEnding
		s.RoundTimer = 0
	}
	s.Players = alive

	kept := s.Bullets[:0]
	for j, b := range s.Bullets {
		if !spent[j] {
			kept = append(kept, b)
		}
	}
	s.Bullets = kept
}
