package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

func NewSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed returns a non-deterministic seed for runs that were not given one.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63)), nil
}

func EventSeed(base int64, eventNumber int) int64 {
	return base + int64(eventNumber)*1000003
}

func BoutSeed(eventSeed int64, slot int) int64 {
	return eventSeed*31 + int64(slot+1)*7919
}

func MonthSeed(base int64, year, monthIndex int) int64 {
	return base ^ int64(year*100+monthIndex)
}

// Uniform returns an integer in [lo, hi].
func Uniform(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// Chance reports whether a roll out of `outOf` lands under `in`.
func Chance(rng *rand.Rand, in, outOf int) bool {
	return rng.Intn(outOf) < in
}
