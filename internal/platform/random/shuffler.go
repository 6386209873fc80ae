// Package random provides the injectable randomness used by roster
// distribution.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// SeededShuffler is a goroutine-safe PCG-backed Shuffler. The same seed always
// yields the same sequence of permutations.
type SeededShuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededShuffler(seed uint64) *SeededShuffler {
	return &SeededShuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewShuffler seeds from crypto/rand unless seed is non-zero.
func NewShuffler(seed uint64) (*SeededShuffler, error) {
	if seed != 0 {
		return NewSeededShuffler(seed), nil
	}

	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return NewSeededShuffler(binary.LittleEndian.Uint64(b[:])), nil
}

func (s *SeededShuffler) Shuffle(n int, swap func(i, j int)) {
	if n < 2 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}
