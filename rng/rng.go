package rng

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is an injectable, seedable pseudo-random generator. A single
// Source must never be shared between two concurrently-running chains
// (spec.md §5); replicate one Source per chain instead.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically from seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Rand exposes the underlying *rand.Rand for callers (e.g. gonum
// distributions) that need a rand.Source directly.
func (s *Source) Rand() *rand.Rand { return s.r }

// UniformInt returns a uniform integer in [lo, hi] inclusive.
func (s *Source) UniformInt(lo, hi int) int {
	if hi < lo {
		panic("rng: UniformInt requires hi >= lo")
	}
	return lo + s.r.Intn(hi-lo+1)
}

// UniformReal returns a uniform float64 in [lo, hi).
func (s *Source) UniformReal(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// Discrete draws an index in [0, len(weights)) with probability
// proportional to weights[i]. weights must be non-negative and sum to
// a positive value.
func (s *Source) Discrete(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("rng: Discrete requires a positive total weight")
	}
	target := s.r.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

// Poisson draws a Poisson(mu) sample via gonum's distuv, sharing this
// Source's underlying generator so draws remain reproducible.
func (s *Source) Poisson(mu float64) int {
	d := distuv.Poisson{Lambda: mu, Src: s.r}
	return int(d.Rand())
}

// Geometric draws a sample from a Geometric distribution over {0,1,2,...}
// with success probability p (mean (1-p)/p), via inverse-CDF sampling.
func (s *Source) Geometric(p float64) int {
	if p <= 0 || p > 1 {
		panic("rng: Geometric requires 0 < p <= 1")
	}
	if p == 1 {
		return 0
	}
	u := s.r.Float64()
	return int(math.Log(1-u) / math.Log(1-p))
}

// Shuffle performs a Fisher-Yates shuffle of data in place.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}
