package world

import "math/bits"

// Rand is xoshiro256++ seeded through splitmix64. The algorithm is fixed here
// rather than borrowed from math/rand so that the output for a seed can never
// change under a toolchain upgrade; peers rebuilt with different Go versions
// still generate the same maps.
type Rand struct {
	s [4]uint64
}

func NewRand(seed uint64) *Rand {
	r := &Rand{}
	x := seed
	for i := range r.s {
		x += 0x9e3779b97f4a7c15
		z := x
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		r.s[i] = z ^ (z >> 31)
	}
	return r
}

func (r *Rand) Uint64() uint64 {
	s := &r.s
	result := bits.RotateLeft64(s[0]+s[3], 23) + s[0]
	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)
	return result
}

// Uint64n returns a uniform value in [0, n) using multiply-shift with
// rejection of the biased low range.
func (r *Rand) Uint64n(n uint64) uint64 {
	if n == 0 {
		invariant("Uint64n called with n == 0")
	}
	hi, lo := bits.Mul64(r.Uint64(), n)
	if lo < n {
		threshold := -n % n
		for lo < threshold {
			hi, lo = bits.Mul64(r.Uint64(), n)
		}
	}
	return hi
}

// IntRange returns a uniform value in [lo, hi).
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		invariant("empty range [%d, %d)", lo, hi)
	}
	return lo + int(r.Uint64n(uint64(hi-lo)))
}

// Float64 returns a uniform value in [0, 1) with 53 bits of precision.
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Float64Range returns a uniform value in [lo, hi).
func (r *Rand) Float64Range(lo, hi float64) float64 {
	return lo + float64((hi-lo)*r.Float64())
}
