// Package session holds what two peers must agree on before the first frame:
// who they are, the seed derived from that, and a self-check harness for the
// simulation.
package session

import (
	"encoding/binary"
	"fmt"

	"github.com/segmentio/ksuid"
)

// PeerID identifies one end of a connection for the lifetime of a match.
type PeerID struct {
	ksuid.KSUID
}

func NewPeerID() PeerID {
	return PeerID{ksuid.New()}
}

func ParsePeerID(s string) (PeerID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return PeerID{}, fmt.Errorf("peer id %q: %w", s, err)
	}
	return PeerID{id}, nil
}

// Fold XORs the id's bytes down to 64 bits, eight bytes at a time in
// big-endian order. The trailing partial chunk is zero padded on the right.
func (p PeerID) Fold() uint64 {
	var folded uint64
	b := p.Bytes()
	for len(b) > 0 {
		var chunk [8]byte
		n := copy(chunk[:], b)
		folded ^= binary.BigEndian.Uint64(chunk[:])
		b = b[n:]
	}
	return folded
}

// Seed combines the ids of every peer in the session. XOR makes it
// independent of the order the ids are listed in, so each peer can compute it
// from its own view of the connection.
func Seed(ids ...PeerID) uint64 {
	var seed uint64
	for _, id := range ids {
		seed ^= id.Fold()
	}
	return seed
}

// RandomSeed is used when there is no remote peer to agree with.
func RandomSeed() uint64 {
	return NewPeerID().Fold()
}
