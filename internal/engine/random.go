package engine

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// RandomSource returns a uniform value in [0,1). Every random decision the
// engine makes goes through one of these so tests can force outcomes.
type RandomSource func() float64

// DefaultRandom draws from the process-wide generator.
func DefaultRandom() RandomSource {
	return rand.Float64
}

// SeededRandom returns a reproducible source for replays and CLI runs.
func SeededRandom(seed uint64) RandomSource {
	// #nosec G404
	r := rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
	return r.Float64
}

func seedWord(seed uint64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// pick maps a draw onto an index in [0,n). Out-of-range draws from a
// misbehaving source are pinned to the nearest valid index.
func pick(r RandomSource, n int) int {
	i := int(r() * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
