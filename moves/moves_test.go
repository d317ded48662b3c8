package moves_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/stretchr/testify/assert"
)

func TestNewEdgeCanonicalizes(t *testing.T) {
	assert.Equal(t, moves.Edge{U: 1, V: 3}, moves.NewEdge(3, 1))
	assert.Equal(t, moves.Edge{U: 2, V: 2}, moves.NewEdge(2, 2))
}

func TestGraphMoveInverseRoundTrips(t *testing.T) {
	m := moves.GraphMove{
		RemovedEdges: []moves.Edge{moves.NewEdge(0, 1)},
		AddedEdges:   []moves.Edge{moves.NewEdge(0, 3)},
	}
	inv := m.Inverse()
	assert.Equal(t, m.RemovedEdges, inv.AddedEdges)
	assert.Equal(t, m.AddedEdges, inv.RemovedEdges)
	assert.Equal(t, m, inv.Inverse())
}

func TestGraphMoveEdgeCountDelta(t *testing.T) {
	m := moves.GraphMove{
		RemovedEdges: []moves.Edge{moves.NewEdge(0, 1)},
		AddedEdges:   []moves.Edge{moves.NewEdge(0, 2), moves.NewEdge(1, 2)},
	}
	assert.Equal(t, 1, m.EdgeCountDelta())
}

func TestLabelMoveInverse(t *testing.T) {
	m := moves.LabelMove{Vertex: 4, PrevLabel: 1, NextLabel: 2, AddedLabels: 1, Level: 0}
	inv := m.Inverse()
	assert.Equal(t, moves.LabelMove{Vertex: 4, PrevLabel: 2, NextLabel: 1, AddedLabels: -1, Level: 0}, inv)
	assert.Equal(t, m, inv.Inverse())
}

func TestLabelMoveIsNull(t *testing.T) {
	assert.True(t, moves.LabelMove{PrevLabel: 2, NextLabel: 2}.IsNull())
	assert.False(t, moves.LabelMove{PrevLabel: 2, NextLabel: 3}.IsNull())
}
