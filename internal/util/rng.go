package util

import "math/rand"

// New returns the battle RNG for seed. Seed 0 is treated as 1 so an unset
// seed still replays.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
