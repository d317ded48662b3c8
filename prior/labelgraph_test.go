package prior_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelGraphRecomputeMatchesEdgeTotal(t *testing.T) {
	graph := newTestGraph()
	blockCount := prior.NewBlockCountDelta(2)
	block := prior.NewBlockUniform(5, blockCount)
	require.NoError(t, block.SetPartition([]int{0, 0, 0, 1, 1}, false))
	edgeCount := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())

	lg := prior.NewLabelGraphErdosRenyi(graph, block, edgeCount)
	total := 0.0
	m := lg.Matrix()
	for r := 0; r < lg.BlockCount(); r++ {
		for s := r; s < lg.BlockCount(); s++ {
			total += m.At(r, s)
		}
	}
	assert.Equal(t, float64(graph.GetTotalEdgeNumber()), total)
}

func TestLabelGraphGraphMoveRatioMatchesRecompute(t *testing.T) {
	graph := newTestGraph()
	blockCount := prior.NewBlockCountDelta(2)
	block := prior.NewBlockUniform(5, blockCount)
	require.NoError(t, block.SetPartition([]int{0, 0, 0, 1, 1}, false))
	// a Poisson edge count, so the edge-adding move below has a finite joint ratio
	edgeCount := prior.NewEdgeCountPoisson(5.0)
	edgeCount.SetState(graph.GetTotalEdgeNumber())
	lg := prior.NewLabelGraphErdosRenyi(graph, block, edgeCount)

	move := moves.GraphMove{AddedEdges: []moves.Edge{moves.NewEdge(2, 4)}}
	before := lg.GetLogJoint(prior.NewVisitSet())
	ratio := lg.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), move)

	require.NoError(t, graph.AddMultiedge(2, 4, 1))
	require.NoError(t, lg.ApplyGraphMove(move))
	require.NoError(t, edgeCount.ApplyGraphMove(move))
	after := lg.GetLogJoint(prior.NewVisitSet())

	assert.InDelta(t, after-before, ratio, 1e-9)
}

func TestLabelGraphPlantedPartitionWithinAcross(t *testing.T) {
	graph := newTestGraph()
	blockCount := prior.NewBlockCountDelta(2)
	block := prior.NewBlockUniform(5, blockCount)
	require.NoError(t, block.SetPartition([]int{0, 0, 0, 1, 1}, false))
	edgeCount := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())
	lg := prior.NewLabelGraphPlantedPartition(graph, block, edgeCount)
	ll := lg.LogLikelihood()
	assert.False(t, ll > 0)
}
