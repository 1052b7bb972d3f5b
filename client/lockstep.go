package client

import (
	"context"
	"duel/input"
	"duel/wire"
	"duel/world"
	"fmt"
	"log"
)

// Result summarises a finished run.
type Result struct {
	Frames   int64
	Checksum uint64
	Desyncs  int
}

// Lockstep steps the world only once both inputs for a frame are known.
// Local input is sent InputDelay frames ahead so the remote input is usually
// already waiting; the first InputDelay frames run with no input on either
// side. Every CheckInterval frames, and on the last frame, each side reports
// its checksum and compares it with the other's.
type Lockstep struct {
	InputDelay    int
	CheckInterval int

	peer   *Peer
	source InputSource
	tuning world.Tuning

	state   world.State
	buffer  *world.StateBuffer
	local   map[int64]input.Input
	remote  map[int64]input.Input
	reports map[int64]uint64

	last      int64
	confirmed bool
	desyncs   int
}

func NewLockstep(peer *Peer, source InputSource, t world.Tuning, inputDelay, checkInterval int) *Lockstep {
	return &Lockstep{
		InputDelay:    max(inputDelay, 0),
		CheckInterval: max(checkInterval, 1),
		peer:          peer,
		source:        source,
		tuning:        t,
		buffer:        world.NewStateBuffer(2*max(inputDelay, 0) + 64),
	}
}

// Run plays frames frames and returns once the other peer has confirmed the
// last one.
func (l *Lockstep) Run(ctx context.Context, frames int64) (Result, error) {
	if frames < 1 {
		return Result{}, fmt.Errorf("lockstep needs at least one frame, got %d", frames)
	}
	if err := l.tuning.Validate(); err != nil {
		return Result{}, fmt.Errorf("lockstep tuning: %w", err)
	}
	l.state = world.NewState(l.peer.SessionSeed(), l.tuning)
	l.buffer.Clear()
	l.buffer.Add(l.state, nil)
	l.local = make(map[int64]input.Input)
	l.remote = make(map[int64]input.Input)
	l.reports = make(map[int64]uint64)
	l.last = frames
	l.confirmed = false
	l.desyncs = 0

	delay := int64(l.InputDelay)
	handle := l.peer.Handle
	for f := int64(1); f <= frames; f++ {
		if target := f + delay; target <= frames {
			in := input.Encode(l.source.Poll(target))
			l.local[target] = in
			err := l.peer.Send(ctx, &wire.Message{Frame: &wire.Frame{
				Number: target,
				Handle: uint32(handle),
				Input:  uint8(in),
			}})
			if err != nil {
				return Result{}, fmt.Errorf("send frame %d: %w", target, err)
			}
		}

		inputs := make([]input.Input, world.NumPlayers)
		if f > delay {
			if err := l.await(ctx, func() bool { _, ok := l.remote[f]; return ok }); err != nil {
				return Result{}, fmt.Errorf("await frame %d: %w", f, err)
			}
			inputs[handle] = l.local[f]
			inputs[handle.Opponent()] = l.remote[f]
			delete(l.local, f)
			delete(l.remote, f)
		}
		l.advance(inputs)

		if f%int64(l.CheckInterval) == 0 || f == frames {
			sum, _ := l.buffer.Checksum(f)
			err := l.peer.Send(ctx, &wire.Message{Report: &wire.Report{Frame: f, Checksum: sum}})
			if err != nil {
				return Result{}, fmt.Errorf("send report %d: %w", f, err)
			}
		}
		l.checkReports()
	}

	// The run is over once the other side's final report has been compared.
	if err := l.await(ctx, func() bool { return l.confirmed }); err != nil {
		return Result{}, fmt.Errorf("await final report: %w", err)
	}
	return Result{
		Frames:   l.state.Frame,
		Checksum: world.Checksum(l.state),
		Desyncs:  l.desyncs,
	}, nil
}

func (l *Lockstep) advance(inputs []input.Input) {
	prev := l.state.Phase
	l.state = world.Step(l.state, inputs, l.tuning.FrameDuration, l.tuning)
	l.buffer.Add(l.state, inputs)

	switch {
	case prev == world.InRound && l.state.Phase == world.RoundEnding:
		log.Printf("frame %d: round over, scores %v", l.state.Frame, l.state.Scores)
	case prev == world.RoundEnding && l.state.Phase == world.InRound:
		log.Printf("frame %d: round started", l.state.Frame)
	}
}

// await handles messages from the other peer until done reports true.
func (l *Lockstep) await(ctx context.Context, done func() bool) error {
	for !done() {
		m, err := l.peer.Next(ctx)
		if err != nil {
			return err
		}
		switch {
		case m.Frame != nil:
			if world.Handle(m.Frame.Handle) != l.peer.Handle.Opponent() {
				return fmt.Errorf("frame %d from handle %d", m.Frame.Number, m.Frame.Handle)
			}
			l.remote[m.Frame.Number] = input.Input(m.Frame.Input)
		case m.Report != nil:
			l.reports[m.Report.Frame] = m.Report.Checksum
			l.checkReports()
		default:
			log.Printf("match %s: ignoring %+v", l.peer.Match, m)
		}
	}
	return nil
}

// checkReports compares every remote checksum for a frame already simulated
// here. A mismatch is logged and counted; the run carries on.
func (l *Lockstep) checkReports() {
	for frame, remote := range l.reports {
		if frame > l.state.Frame {
			continue
		}
		delete(l.reports, frame)
		if frame == l.last {
			l.confirmed = true
		}
		local, ok := l.buffer.Checksum(frame)
		if !ok {
			log.Printf("frame %d is no longer buffered, skipping checksum", frame)
			continue
		}
		if local != remote {
			l.desyncs++
			log.Printf("Desync on frame %d. Local checksum: %X, remote checksum: %X", frame, local, remote)
		}
	}
}
