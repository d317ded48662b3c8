package prior_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/stretchr/testify/assert"
)

func TestEdgeCountDeltaRejectsOtherStates(t *testing.T) {
	p := prior.NewEdgeCountDelta(3)
	assert.Equal(t, 0.0, p.LogLikelihoodFromState(3))
	assert.True(t, math.IsInf(p.LogLikelihoodFromState(4), -1))
}

func TestEdgeCountDeltaGraphMoveRatio(t *testing.T) {
	p := prior.NewEdgeCountDelta(3)
	m := moves.GraphMove{AddedEdges: []moves.Edge{moves.NewEdge(0, 1)}}
	ratio := p.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), m)
	assert.True(t, math.IsInf(ratio, -1))

	balanced := moves.GraphMove{
		AddedEdges:   []moves.Edge{moves.NewEdge(0, 1)},
		RemovedEdges: []moves.Edge{moves.NewEdge(1, 2)},
	}
	assert.Equal(t, 0.0, p.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), balanced))
}

func TestEdgeCountPoissonLikelihoodMatchesRatio(t *testing.T) {
	p := prior.NewEdgeCountPoisson(4.0)
	p.SetState(4)
	m := moves.GraphMove{AddedEdges: []moves.Edge{moves.NewEdge(0, 1)}}
	before := p.LogLikelihood()
	ratio := p.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), m)
	p.ApplyGraphMove(m)
	after := p.LogLikelihood()
	assert.InDelta(t, after-before, ratio, 1e-9)
}

func TestEdgeCountExponentialApplyGraphMoveRejectsNegative(t *testing.T) {
	p := prior.NewEdgeCountExponential(2.0)
	p.SetState(0)
	m := moves.GraphMove{RemovedEdges: []moves.Edge{moves.NewEdge(0, 1)}}
	err := p.ApplyGraphMove(m)
	assert.ErrorIs(t, err, prior.ErrInvalidMove)
}
