package world

import (
	"duel/object"
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Checksum hashes every gameplay field of s for desync detection. Floats are
// hashed by bit pattern, never by their decimal text. Players are visited by
// handle and bullets by (spawn frame, owner), so the result does not depend
// on slice order. A non-finite float panics: NaN payloads are not canonical
// across producers.
func Checksum(s State) uint64 {
	h := hasher{d: xxhash.New()}

	h.putUint64(uint64(s.Frame))
	h.putUint64(s.Session)
	h.putUint64(uint64(s.Phase))
	h.putUint64(uint64(s.RoundTimer))
	for _, score := range s.Scores {
		h.putUint64(uint64(score))
	}

	players := slices.Clone(s.Players)
	slices.SortFunc(players, func(a, b Player) int { return int(a.Handle) - int(b.Handle) })
	h.putUint64(uint64(len(players)))
	for _, p := range players {
		h.putUint64(uint64(p.Handle))
		h.putVector("player position", p.Position)
		h.putVector("player facing", p.Facing)
		h.putFloat("player distance", p.Distance)
		h.putBool(p.BulletReady)
	}

	bullets := slices.Clone(s.Bullets)
	slices.SortFunc(bullets, compareBullets)
	h.putUint64(uint64(len(bullets)))
	for _, b := range bullets {
		h.putUint64(uint64(b.Owner))
		h.putUint64(uint64(b.SpawnFrame))
		h.putVector("bullet position", b.Position)
		h.putVector("bullet direction", b.Direction)
	}

	h.putUint64(uint64(len(s.Obstacles)))
	for _, o := range s.Obstacles {
		h.putVector("obstacle position", o.Position)
		h.putVector("obstacle extents", o.HalfExtents)
	}
	return h.d.Sum64()
}

type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (h *hasher) putUint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.d.Write(h.buf[:])
}

func (h *hasher) putBool(v bool) {
	if v {
		h.putUint64(1)
	} else {
		h.putUint64(0)
	}
}

func (h *hasher) putFloat(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		invariant("checksum: %s is %v", field, v)
	}
	h.putUint64(math.Float64bits(v))
}

func (h *hasher) putVector(field string, v object.Vector) {
	if !v.IsFinite() {
		invariant("checksum: %s is %v", field, v)
	}
	h.putUint64(math.Float64bits(v.X))
	h.putUint64(math.Float64bits(v.Y))
}
