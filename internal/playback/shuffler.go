package playback

import (
	"math/rand/v2"
	"sync"
)

// Shuffler produces display orderings. It is only ever applied to copies.
type Shuffler interface {
	Perm(n int) []int
}

// Shuffle returns a reordered copy of items. The input is left untouched.
func Shuffle[T any](s Shuffler, items []T) []T {
	out := make([]T, len(items))
	for i, p := range s.Perm(len(items)) {
		out[i] = items[p]
	}
	return out
}

type randShuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffler returns a Shuffler seeded from the runtime source.
func NewShuffler() Shuffler {
	return &randShuffler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededShuffler returns a reproducible Shuffler.
func NewSeededShuffler(seed uint64) Shuffler {
	return &randShuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *randShuffler) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Perm(n)
}

// identity keeps authored order; used where shuffling is switched off.
type identity struct{}

func NoShuffle() Shuffler {
	return identity{}
}

func (identity) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
