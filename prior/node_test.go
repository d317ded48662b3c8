package prior_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/prior"
	"github.com/stretchr/testify/assert"
)

func TestVisitSetGuardsRepeatedAccess(t *testing.T) {
	visited := prior.NewVisitSet()
	ec := prior.NewEdgeCountDelta(5)
	first := ec.GetLogJoint(visited)
	second := ec.GetLogJoint(visited)
	assert.Equal(t, 0.0, first)
	assert.Equal(t, 0.0, second)
}

func TestVisitSetFreshPerTraversal(t *testing.T) {
	ec := prior.NewEdgeCountDelta(5)
	a := ec.GetLogJoint(prior.NewVisitSet())
	b := ec.GetLogJoint(prior.NewVisitSet())
	assert.Equal(t, a, b)
}

func TestVisitSetDedupesSharedParent(t *testing.T) {
	graph := newTestGraph()
	parent := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())
	a := prior.NewDegreeUniform(graph, parent)
	b := prior.NewDegreeUniform(graph, parent)

	visited := prior.NewVisitSet()
	total := a.GetLogJoint(visited) + b.GetLogJoint(visited)
	want := a.LogLikelihood() + b.LogLikelihood() + parent.GetLogJoint(prior.NewVisitSet())
	assert.InDelta(t, want, total, 1e-9)
}
