package client

import (
	"duel/input"
	"duel/world"
)

// InputSource produces the local player's keys for a frame.
type InputSource interface {
	Poll(frame int64) input.Raw
}

// Bot holds random keys for a random number of frames. Its choices come from
// its own seed, so a run can be reproduced offline.
type Bot struct {
	rng   *world.Rand
	held  input.Raw
	until int64
}

func NewBot(seed uint64) *Bot {
	return &Bot{rng: world.NewRand(seed)}
}

func (b *Bot) Poll(frame int64) input.Raw {
	if frame < b.until {
		return b.held
	}
	b.held = input.Raw{
		Up:    b.coin(),
		Down:  b.coin(),
		Left:  b.coin(),
		Right: b.coin(),
		// Releasing fire now and then reloads.
		Fire: b.rng.Uint64n(3) > 0,
	}
	b.until = frame + int64(b.rng.IntRange(4, 30))
	return b.held
}

func (b *Bot) coin() bool {
	return b.rng.Uint64n(2) == 1
}
