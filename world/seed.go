package world

// RoundSeed derives the map seed for the next round from state every peer
// already agrees on: the score total and the session seed. No round counter
// has to be synchronized.
func RoundSeed(scores Scores, session uint64) uint64 {
	return (uint64(scores[0]) + uint64(scores[1])) ^ session
}
