package world

import (
	"duel/input"
	"slices"
	"time"
)

const NilFrame int64 = -1

type frameRecord struct {
	frame    int64
	snapshot Snapshot
	checksum uint64
	// inputs are the inputs that produced this frame from the previous one.
	inputs []input.Input
}

// StateBuffer is a ring of the most recent frames: a snapshot, its checksum
// and the inputs that led to it. Frames must be added in order.
type StateBuffer struct {
	records      []frameRecord
	currentFrame int64
}

func NewStateBuffer(maxCapacity int) *StateBuffer {
	if maxCapacity < 1 {
		invariant("state buffer capacity %d", maxCapacity)
	}
	b := &StateBuffer{records: make([]frameRecord, maxCapacity)}
	b.Clear()
	return b
}

func (b *StateBuffer) Clear() {
	for i := range b.records {
		b.records[i] = frameRecord{frame: NilFrame}
	}
	b.currentFrame = NilFrame
}

func (b *StateBuffer) slot(frame int64) *frameRecord {
	return &b.records[frame%int64(len(b.records))]
}

// Add stores s, which must be the frame right after the current one (or any
// frame when the buffer is empty).
func (b *StateBuffer) Add(s State, inputs []input.Input) {
	if b.currentFrame != NilFrame && s.Frame != b.currentFrame+1 {
		invariant("state buffer: adding frame %d after %d", s.Frame, b.currentFrame)
	}
	if s.Frame < 0 {
		invariant("state buffer: negative frame %d", s.Frame)
	}
	*b.slot(s.Frame) = frameRecord{
		frame:    s.Frame,
		snapshot: Save(s),
		checksum: Checksum(s),
		inputs:   slices.Clone(inputs),
	}
	b.currentFrame = s.Frame
}

func (b *StateBuffer) CurrentFrame() int64 {
	return b.currentFrame
}

// OldestFrame is the earliest frame still held, or NilFrame.
func (b *StateBuffer) OldestFrame() int64 {
	if b.currentFrame == NilFrame {
		return NilFrame
	}
	oldest := b.currentFrame - int64(len(b.records)) + 1
	for f := max(oldest, 0); f <= b.currentFrame; f++ {
		if b.slot(f).frame == f {
			return f
		}
	}
	return NilFrame
}

func (b *StateBuffer) record(frame int64) (*frameRecord, bool) {
	if frame < 0 || frame > b.currentFrame {
		return nil, false
	}
	r := b.slot(frame)
	if r.frame != frame {
		return nil, false
	}
	return r, true
}

func (b *StateBuffer) At(frame int64) (Snapshot, bool) {
	r, ok := b.record(frame)
	if !ok {
		return Snapshot{}, false
	}
	return r.snapshot, true
}

func (b *StateBuffer) Checksum(frame int64) (uint64, bool) {
	r, ok := b.record(frame)
	if !ok {
		return 0, false
	}
	return r.checksum, true
}

func (b *StateBuffer) Inputs(frame int64) ([]input.Input, bool) {
	r, ok := b.record(frame)
	if !ok {
		return nil, false
	}
	return slices.Clone(r.inputs), true
}

func (b *StateBuffer) Current() (Snapshot, bool) {
	return b.At(b.currentFrame)
}

// Replay restores frame from and re-simulates up to the current frame with
// the recorded inputs, calling visit with every re-simulated state. It
// returns false when from is no longer buffered.
func (b *StateBuffer) Replay(from int64, dt time.Duration, t Tuning, visit func(State)) bool {
	snap, ok := b.At(from)
	if !ok {
		return false
	}
	s := Load(snap)
	for f := from + 1; f <= b.currentFrame; f++ {
		r, ok := b.record(f)
		if !ok {
			invariant("state buffer: frame %d missing during replay", f)
		}
		s = Step(s, r.inputs, dt, t)
		visit(s)
	}
	return true
}
