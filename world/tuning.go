package world

import (
	"errors"
	"fmt"
	"time"
)

// Tuning holds the gameplay constants. Every peer must run with the same
// values; they are not part of the snapshot.
type Tuning struct {
	// ArenaSize is the side of the square arena in grid cells. The arena is
	// centred on the origin.
	ArenaSize     int
	ObstacleCount int

	PlayerRadius float64
	PlayerSpeed  float64
	BulletRadius float64
	BulletSpeed  float64

	RoundEndDuration time.Duration
	FrameDuration    time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		ArenaSize:        41,
		ObstacleCount:    20,
		PlayerRadius:     0.5,
		PlayerSpeed:      6,
		BulletRadius:     0.025,
		BulletSpeed:      20,
		RoundEndDuration: time.Second,
		FrameDuration:    time.Second / 60,
	}
}

// Validate checks the preconditions of the map generator and the step
// function. It is cheap, but it is meant to run once at startup.
func (t Tuning) Validate() error {
	var errs []error
	if t.ArenaSize < 8 {
		errs = append(errs, fmt.Errorf("arena size %d is below 8 cells", t.ArenaSize))
	}
	if t.ObstacleCount < 0 {
		errs = append(errs, fmt.Errorf("obstacle count %d is negative", t.ObstacleCount))
	}
	if !(t.PlayerRadius > 0) || !(t.BulletRadius > 0) {
		errs = append(errs, fmt.Errorf("radii must be positive (player %v, bullet %v)", t.PlayerRadius, t.BulletRadius))
	}
	if t.PlayerRadius*2 >= float64(t.ArenaSize) {
		errs = append(errs, fmt.Errorf("player radius %v does not fit in arena %d", t.PlayerRadius, t.ArenaSize))
	}
	if !(t.PlayerSpeed >= 0) || !(t.BulletSpeed > 0) {
		errs = append(errs, fmt.Errorf("invalid speeds (player %v, bullet %v)", t.PlayerSpeed, t.BulletSpeed))
	}
	if t.RoundEndDuration <= 0 || t.FrameDuration <= 0 {
		errs = append(errs, errors.New("durations must be positive"))
	}
	return errors.Join(errs...)
}

func (t Tuning) halfSize() float64 {
	return float64(t.ArenaSize) / 2
}

// playerLimit is the largest coordinate a player centre may reach.
func (t Tuning) playerLimit() float64 {
	return t.halfSize() - t.PlayerRadius
}
