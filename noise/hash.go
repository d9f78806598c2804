// Package noise implements the deterministic spatial hash, uniform PRNG, and
// fractal simplex noise that every other layer of the world builds on.
//
// Every function here is pure: identical inputs produce identical outputs
// regardless of call order, goroutine, or platform. No function in this
// package allocates beyond fixed-size stack values, and none can fail.
package noise

import "math"

// Hash constants fixed for cross-implementation agreement. Do not tune.
const (
	hashMulX    uint32 = 0x16573971
	hashMulY    uint32 = 0x27D4EB2F
	hashMul1    uint32 = 0x4BF9D121
	randIndexMul uint32 = 0x2C9277B5
	randMix     uint32 = 0x045D9F3B
)

// Hash2 deterministically hashes a 2D lattice cell under a seed.
//
//	h = seed
//	h ^= x * 0x16573971
//	h ^= y * 0x27D4EB2F
//	h ^= h >> 13
//	h *= 0x4BF9D121
//	h ^= h >> 16
func Hash2(x, y int32, seed uint32) uint32 {
	h := seed
	h ^= uint32(x) * hashMulX
	h ^= uint32(y) * hashMulY
	h ^= h >> 13
	h *= hashMul1
	h ^= h >> 16
	return h
}

// RandF32 derives a uniform float in [0,1) from a seed and a running index.
// Unlike Hash2 this is meant to be called with a monotonically increasing
// index (e.g. droplet ordinal, point ordinal within a tile) rather than a
// spatial coordinate.
func RandF32(seed, index uint32) float32 {
	h := seed ^ (index * randIndexMul)
	h = ((h >> 16) ^ h) * randMix
	h = ((h >> 16) ^ h) * randMix
	h = (h >> 16) ^ h
	r := float32(h) / 4294967296.0
	if r >= 1 {
		// float32(h) rounds up to 2^32 for the top 128 values of h.
		r = math.Nextafter32(1, 0)
	}
	return r
}
