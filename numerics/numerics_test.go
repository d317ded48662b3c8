package numerics_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/graphinf/numerics"
	"github.com/stretchr/testify/assert"
)

func TestLogFactorialMatchesSmallValues(t *testing.T) {
	assert.InDelta(t, 0, numerics.LogFactorial(0), 1e-9)
	assert.InDelta(t, 0, numerics.LogFactorial(1), 1e-9)
	assert.InDelta(t, math.Log(120), numerics.LogFactorial(5), 1e-9)
}

func TestLogBinomialCoefficientBounds(t *testing.T) {
	assert.InDelta(t, math.Log(10), numerics.LogBinomialCoefficient(5, 2), 1e-9)
	assert.True(t, math.IsInf(numerics.LogBinomialCoefficient(5, 6), -1))
	assert.True(t, math.IsInf(numerics.LogBinomialCoefficient(5, -1), -1))
}

func TestLogMultisetCoefficientKnownValue(t *testing.T) {
	// multisets of size 2 from 3 bins: C(3+2-1,2) = C(4,2) = 6.
	assert.InDelta(t, math.Log(6), numerics.LogMultisetCoefficient(3, 2), 1e-9)
}

func TestLogMultinomialCoefficient(t *testing.T) {
	// 4!/(2!2!) = 6
	assert.InDelta(t, math.Log(6), numerics.LogMultinomialCoefficient(4, []int{2, 2}), 1e-9)
}

func TestLogPoissonPMFNormalizesApproximately(t *testing.T) {
	mu := 3.0
	sum := 0.0
	for k := 0; k < 200; k++ {
		sum += math.Exp(numerics.LogPoissonPMF(k, mu))
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestLogZeroTruncatedPoissonPMFNormalizes(t *testing.T) {
	mu := 2.0
	sum := 0.0
	for k := 1; k < 200; k++ {
		sum += math.Exp(numerics.LogZeroTruncatedPoissonPMF(k, mu))
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestLogQSmallKnownValues(t *testing.T) {
	// partitions of 5 into exactly 2 parts: {4,1},{3,2} -> 2
	assert.InDelta(t, math.Log(2), numerics.LogQ(5, 2), 1e-9)
	// partitions of n into exactly n parts: only {1,1,...,1} -> 1
	assert.InDelta(t, 0, numerics.LogQ(6, 6), 1e-9)
	assert.True(t, math.IsInf(numerics.LogQ(3, 5), -1))
}
