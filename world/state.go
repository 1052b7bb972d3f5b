package world

import (
	"fmt"
	"slices"
	"time"
)

// NumPlayers is fixed: the arena is a duel.
const NumPlayers = 2

// Handle identifies the input slot that drives a player.
type Handle int

// Opponent returns the other player's handle.
func (h Handle) Opponent() Handle {
	return NumPlayers - 1 - h
}

type Phase uint8

const (
	// InRound is the zero value: players move, shoot and die.
	InRound Phase = iota
	// RoundEnding is the pause after a death before the next round starts.
	RoundEnding
)

func (p Phase) String() string {
	switch p {
	case InRound:
		return "in-round"
	case RoundEnding:
		return "round-ending"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Scores is indexed by handle. It survives rounds and only ever grows.
type Scores [NumPlayers]uint32

// State is everything the rollback scheduler snapshots. It holds no pointers
// and no maps; Clone gives an independent copy.
type State struct {
	Frame int64
	// Session is the seed agreed once at connection time.
	Session    uint64
	Phase      Phase
	RoundTimer time.Duration
	Scores     Scores

	// Players is ordered by handle.
	Players   []Player
	Bullets   []Bullet
	Obstacles []Obstacle
}

// NewState builds frame zero: an empty scoreboard and a freshly generated
// round.
func NewState(session uint64, t Tuning) State {
	s := State{Session: session}
	startRound(&s, t)
	return s
}

func (s State) Clone() State {
	s.Players = slices.Clone(s.Players)
	s.Bullets = slices.Clone(s.Bullets)
	s.Obstacles = slices.Clone(s.Obstacles)
	return s
}

// Player returns the live player driven by h, if any.
func (s *State) Player(h Handle) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].Handle == h {
			return &s.Players[i], true
		}
	}
	return nil, false
}

// InvariantError reports simulation state that can only come from a
// programming error. Continuing would silently desync, so it is raised with
// panic.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "world invariant violated: " + e.Msg
}

func invariant(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}
