package world

import (
	"duel/object"
	"duel/wire"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Snapshot is a saved State. It shares no memory with the state it was taken
// from or with states later loaded from it.
type Snapshot struct {
	state State
}

func Save(s State) Snapshot {
	return Snapshot{state: s.Clone()}
}

func Load(snap Snapshot) State {
	return snap.state.Clone()
}

func (snap Snapshot) Frame() int64 {
	return snap.state.Frame
}

// Wire layout, protobuf compatible:
//
//	State    { 1 frame sint64, 2 session fixed64, 3 phase uint32, 4 round_timer_ns sint64,
//	           5 score uint32 (repeated, by handle), 6 players Player, 7 bullets Bullet,
//	           8 obstacles Obstacle }
//	Player   { 1 handle uint32, 2 position Vector, 3 facing Vector, 4 distance double, 5 bullet_ready bool }
//	Bullet   { 1 owner uint32, 2 spawn_frame sint64, 3 position Vector, 4 direction Vector }
//	Obstacle { 1 position Vector, 2 half_extents Vector }
//	Vector   { 1 x double, 2 y double }
const (
	stateFrame      protowire.Number = 1
	stateSession    protowire.Number = 2
	statePhase      protowire.Number = 3
	stateRoundTimer protowire.Number = 4
	stateScore      protowire.Number = 5
	statePlayer     protowire.Number = 6
	stateBullet     protowire.Number = 7
	stateObstacle   protowire.Number = 8
)

func (snap Snapshot) MarshalBinary() ([]byte, error) {
	s := snap.state
	var b []byte
	b = wire.AppendSint64(b, stateFrame, s.Frame)
	b = wire.AppendFixed64(b, stateSession, s.Session)
	b = wire.AppendUvarint(b, statePhase, uint64(s.Phase))
	b = wire.AppendSint64(b, stateRoundTimer, int64(s.RoundTimer))
	for _, score := range s.Scores {
		b = wire.AppendUvarint(b, stateScore, uint64(score))
	}
	for _, p := range s.Players {
		var m []byte
		m = wire.AppendUvarint(m, 1, uint64(p.Handle))
		m = appendVector(m, 2, p.Position)
		m = appendVector(m, 3, p.Facing)
		m = wire.AppendFixed64(m, 4, math.Float64bits(p.Distance))
		m = wire.AppendBool(m, 5, p.BulletReady)
		b = wire.AppendMessage(b, statePlayer, m)
	}
	for _, bl := range s.Bullets {
		var m []byte
		m = wire.AppendUvarint(m, 1, uint64(bl.Owner))
		m = wire.AppendSint64(m, 2, bl.SpawnFrame)
		m = appendVector(m, 3, bl.Position)
		m = appendVector(m, 4, bl.Direction)
		b = wire.AppendMessage(b, stateBullet, m)
	}
	for _, o := range s.Obstacles {
		var m []byte
		m = appendVector(m, 1, o.Position)
		m = appendVector(m, 2, o.HalfExtents)
		b = wire.AppendMessage(b, stateObstacle, m)
	}
	return b, nil
}

func (snap *Snapshot) UnmarshalBinary(data []byte) error {
	var s State
	scores := 0
	err := wire.Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case stateFrame:
			v, n, err := wire.ConsumeSint64(typ, b)
			s.Frame = v
			return n, err
		case stateSession:
			v, n, err := wire.ConsumeFixed64(typ, b)
			s.Session = v
			return n, err
		case statePhase:
			v, n, err := wire.ConsumeVarint(typ, b)
			s.Phase = Phase(v)
			return n, err
		case stateRoundTimer:
			v, n, err := wire.ConsumeSint64(typ, b)
			s.RoundTimer = time.Duration(v)
			return n, err
		case stateScore:
			v, n, err := wire.ConsumeVarint(typ, b)
			if err != nil {
				return n, err
			}
			if scores >= NumPlayers {
				return n, fmt.Errorf("more than %d scores", NumPlayers)
			}
			s.Scores[scores] = uint32(v)
			scores++
			return n, nil
		case statePlayer:
			m, n, err := wire.ConsumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			p, err := decodePlayer(m)
			s.Players = append(s.Players, p)
			return n, err
		case stateBullet:
			m, n, err := wire.ConsumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			bl, err := decodeBullet(m)
			s.Bullets = append(s.Bullets, bl)
			return n, err
		case stateObstacle:
			m, n, err := wire.ConsumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			o, err := decodeObstacle(m)
			s.Obstacles = append(s.Obstacles, o)
			return n, err
		}
		return wire.Skip(num, typ, b)
	})
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := validate(s); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	snap.state = s
	return nil
}

// validate rejects decoded states that Step could never have produced, so a
// bad dump fails here rather than as a panic frames later.
func validate(s State) error {
	if s.Frame < 0 {
		return fmt.Errorf("negative frame %d", s.Frame)
	}
	if s.Phase > RoundEnding {
		return fmt.Errorf("unknown phase %d", s.Phase)
	}
	if s.RoundTimer < 0 {
		return fmt.Errorf("negative round timer %v", s.RoundTimer)
	}
	if len(s.Players) > NumPlayers {
		return fmt.Errorf("%d players", len(s.Players))
	}
	for i, p := range s.Players {
		if p.Handle < 0 || p.Handle >= NumPlayers {
			return fmt.Errorf("player handle %d out of range", p.Handle)
		}
		if i > 0 && p.Handle <= s.Players[i-1].Handle {
			return fmt.Errorf("player handle %d duplicated or out of order", p.Handle)
		}
		if !p.Position.IsFinite() || !p.Facing.IsFinite() || math.IsNaN(p.Distance) || math.IsInf(p.Distance, 0) {
			return fmt.Errorf("player %d has a non-finite field", p.Handle)
		}
	}
	for _, b := range s.Bullets {
		if b.Owner < 0 || b.Owner >= NumPlayers {
			return fmt.Errorf("bullet owner %d out of range", b.Owner)
		}
		if !b.Position.IsFinite() || !b.Direction.IsFinite() {
			return fmt.Errorf("bullet (%d, %d) has a non-finite field", b.SpawnFrame, b.Owner)
		}
	}
	for i, o := range s.Obstacles {
		if !o.Position.IsFinite() || !o.HalfExtents.IsFinite() {
			return fmt.Errorf("obstacle %d has a non-finite field", i)
		}
	}
	return nil
}

func decodePlayer(data []byte) (Player, error) {
	var p Player
	err := wire.Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := wire.ConsumeVarint(typ, b)
			p.Handle = Handle(v)
			return n, err
		case 2:
			return consumeVector(typ, b, &p.Position)
		case 3:
			return consumeVector(typ, b, &p.Facing)
		case 4:
			v, n, err := wire.ConsumeFixed64(typ, b)
			p.Distance = math.Float64frombits(v)
			return n, err
		case 5:
			v, n, err := wire.ConsumeVarint(typ, b)
			p.BulletReady = protowire.DecodeBool(v)
			return n, err
		}
		return wire.Skip(num, typ, b)
	})
	return p, err
}

func decodeBullet(data []byte) (Bullet, error) {
	var bl Bullet
	err := wire.Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := wire.ConsumeVarint(typ, b)
			bl.Owner = Handle(v)
			return n, err
		case 2:
			v, n, err := wire.ConsumeSint64(typ, b)
			bl.SpawnFrame = v
			return n, err
		case 3:
			return consumeVector(typ, b, &bl.Position)
		case 4:
			return consumeVector(typ, b, &bl.Direction)
		}
		return wire.Skip(num, typ, b)
	})
	return bl, err
}

func decodeObstacle(data []byte) (Obstacle, error) {
	var o Obstacle
	err := wire.Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeVector(typ, b, &o.Position)
		case 2:
			return consumeVector(typ, b, &o.HalfExtents)
		}
		return wire.Skip(num, typ, b)
	})
	return o, err
}

func appendVector(b []byte, num protowire.Number, v object.Vector) []byte {
	var m []byte
	m = wire.AppendFixed64(m, 1, math.Float64bits(v.X))
	m = wire.AppendFixed64(m, 2, math.Float64bits(v.Y))
	return wire.AppendMessage(b, num, m)
}

func consumeVector(typ protowire.Type, b []byte, v *object.Vector) (int, error) {
	m, n, err := wire.ConsumeBytes(typ, b)
	if err != nil {
		return 0, err
	}
	err = wire.Walk(m, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			x, n, err := wire.ConsumeFixed64(typ, b)
			v.X = math.Float64frombits(x)
			return n, err
		case 2:
			y, n, err := wire.ConsumeFixed64(typ, b)
			v.Y = math.Float64frombits(y)
			return n, err
		}
		return wire.Skip(num, typ, b)
	})
	return n, err
}
