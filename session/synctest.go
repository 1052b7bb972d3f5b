package session

import (
	"duel/input"
	"duel/world"
	"fmt"
	"time"
)

// DesyncError means re-simulating a frame from a restored snapshot produced a
// different state than the first time round.
type DesyncError struct {
	Frame    int64
	Local    uint64
	Replayed uint64
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("desync on frame %d: local checksum %X, replayed checksum %X", e.Frame, e.Local, e.Replayed)
}

// SyncTest runs both players locally. After every frame it rolls back
// CheckDistance frames, replays them with the recorded inputs and compares
// checksums. Any difference means the step function depends on something
// outside the state.
type SyncTest struct {
	CheckDistance int

	tuning world.Tuning
	dt     time.Duration
	state  world.State
	buffer *world.StateBuffer
}

func NewSyncTest(session uint64, t world.Tuning, checkDistance int) (*SyncTest, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("synctest tuning: %w", err)
	}
	if checkDistance < 0 {
		return nil, fmt.Errorf("synctest check distance %d is negative", checkDistance)
	}
	s := &SyncTest{
		CheckDistance: checkDistance,
		tuning:        t,
		dt:            t.FrameDuration,
		state:         world.NewState(session, t),
		buffer:        world.NewStateBuffer(checkDistance + 1),
	}
	s.buffer.Add(s.state, nil)
	return s, nil
}

func (s *SyncTest) Frame() int64 {
	return s.state.Frame
}

func (s *SyncTest) State() world.State {
	return s.state.Clone()
}

// Advance steps one frame with inputs (indexed by handle) and then checks the
// last CheckDistance frames.
func (s *SyncTest) Advance(inputs []input.Input) error {
	s.state = world.Step(s.state, inputs, s.dt, s.tuning)
	s.buffer.Add(s.state, inputs)

	if s.CheckDistance == 0 {
		return nil
	}
	from := max(s.state.Frame-int64(s.CheckDistance), s.buffer.OldestFrame())
	var desync *DesyncError
	s.buffer.Replay(from, s.dt, s.tuning, func(replayed world.State) {
		if desync != nil {
			return
		}
		local, _ := s.buffer.Checksum(replayed.Frame)
		if sum := world.Checksum(replayed); sum != local {
			desync = &DesyncError{Frame: replayed.Frame, Local: local, Replayed: sum}
		}
	})
	if desync != nil {
		return desync
	}
	return nil
}
