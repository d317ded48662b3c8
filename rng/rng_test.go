package rng_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
)

func TestUniformIntBounds(t *testing.T) {
	s := rng.New(1)
	for i := 0; i < 1000; i++ {
		v := s.UniformInt(3, 7)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 7)
	}
}

func TestDiscreteRespectsZeroWeights(t *testing.T) {
	s := rng.New(2)
	weights := []float64{0, 0, 1, 0}
	for i := 0; i < 100; i++ {
		assert.Equal(t, 2, s.Discrete(weights))
	}
}

func TestDeterministicSeeding(t *testing.T) {
	a := rng.New(42)
	b := rng.New(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.UniformInt(0, 1000), b.UniformInt(0, 1000))
	}
}

func TestPoissonNonNegative(t *testing.T) {
	s := rng.New(3)
	for i := 0; i < 200; i++ {
		assert.GreaterOrEqual(t, s.Poisson(4.0), 0)
	}
}

func TestGeometricNonNegative(t *testing.T) {
	s := rng.New(4)
	for i := 0; i < 200; i++ {
		assert.GreaterOrEqual(t, s.Geometric(0.3), 0)
	}
}
