package prior_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockCountUniformRejectsInvalidBounds(t *testing.T) {
	_, err := prior.NewBlockCountUniform(0, 3)
	assert.ErrorIs(t, err, prior.ErrInvalidMove)

	_, err = prior.NewBlockCountUniform(4, 3)
	assert.ErrorIs(t, err, prior.ErrInvalidMove)
}

func TestBlockCountUniformLabelMoveRatio(t *testing.T) {
	p, err := prior.NewBlockCountUniform(1, 10)
	require.NoError(t, err)
	p.SetState(3)
	m := moves.LabelMove{AddedLabels: 1}
	before := p.LogLikelihood()
	ratio := p.GetLogJointRatioFromLabelMove(prior.NewVisitSet(), m)
	p.SetState(4)
	after := p.LogLikelihood()
	assert.InDelta(t, after-before, ratio, 1e-9)
}

func TestBlockCountPoissonSamplesNonZero(t *testing.T) {
	p := prior.NewBlockCountPoisson(2.0)
	source := rng.New(1)
	for i := 0; i < 50; i++ {
		p.Sample(source)
		assert.GreaterOrEqual(t, p.State(), 1)
	}
}

func TestNestedBlockCountDepthAndLevels(t *testing.T) {
	p := prior.NewNestedBlockCount(20)
	p.SetNestedState([]int{8, 3, 1})
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, 8, p.State())
	assert.Equal(t, 3, p.StateAtLevel(1))

	p.CreateNewLevel()
	assert.Equal(t, 4, p.Depth())
	p.DestroyLastLevel()
	assert.Equal(t, 3, p.Depth())
}

func TestNestedBlockCountLogLikelihoodRejectsNonDecreasing(t *testing.T) {
	p := prior.NewNestedBlockCount(20)
	ll := p.LogLikelihoodFromNestedState([]int{3, 5, 1})
	assert.True(t, math.IsInf(ll, -1))
}
