package world

import "time"

// tickRound advances the round-end pause. The timer only counts frames that
// began in RoundEnding, so the frame of the death itself is not counted.
func tickRound(s *State, ending bool, dt time.Duration, t Tuning) {
	if !ending {
		return
	}
	s.RoundTimer += dt
	if s.RoundTimer >= t.RoundEndDuration {
		startRound(s, t)
	}
}

// startRound enters InRound: old players and bullets go, the map is
// regenerated from the round seed and both players respawn.
func startRound(s *State, t Tuning) {
	layout := Generate(RoundSeed(s.Scores, s.Session), t)

	s.Phase = InRound
	s.RoundTimer = 0
	s.Obstacles = layout.Obstacles
	s.Bullets = nil
	s.Players = make([]Player, 0, NumPlayers)
	for h, spawn := range layout.Spawns {
		s.Players = append(s.Players, newPlayer(Handle(h), spawn))
	}
}
