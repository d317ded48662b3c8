package prior_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/stretchr/testify/assert"
)

func TestDegreeUniformLikelihoodMatchesRatio(t *testing.T) {
	graph := newTestGraph()
	// a Poisson parent, so the edge-adding move below has a finite joint ratio
	parent := prior.NewEdgeCountPoisson(5.0)
	parent.SetState(graph.GetTotalEdgeNumber())
	d := prior.NewDegreeUniform(graph, parent)

	m := moves.GraphMove{AddedEdges: []moves.Edge{moves.NewEdge(0, 2)}}
	before := d.GetLogJoint(prior.NewVisitSet())
	ratio := d.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), m)
	assert.NoError(t, parent.ApplyGraphMove(m))
	assert.NoError(t, d.ApplyGraphMove(m))
	after := d.GetLogJoint(prior.NewVisitSet())
	assert.InDelta(t, after-before, ratio, 1e-9)
}

func TestDegreeDeltaRejectsMismatch(t *testing.T) {
	graph := newTestGraph()
	parent := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())
	d0 := []int{2, 2, 2, 2, 2}
	d := prior.NewDegreeDelta(graph, parent, d0)
	ll := d.LogLikelihoodFromSequence([]int{1, 2, 2, 2, 2})
	assert.True(t, math.IsInf(ll, -1))
}

func TestDegreeUniformHyperFinite(t *testing.T) {
	graph := newTestGraph()
	parent := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())
	d := prior.NewDegreeUniformHyper(graph, parent)
	assert.False(t, d.LogLikelihood() > 0)
}
