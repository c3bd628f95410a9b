package mines

import (
	"hash/maphash"
	"math/rand/v2"
)

// NewRand returns a generator seeded from the runtime's hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}
