package prior_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/prior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelledDegreeUniformLikelihoodFinite(t *testing.T) {
	graph := newTestGraph()
	blockCount := prior.NewBlockCountDelta(2)
	block := prior.NewBlockUniform(5, blockCount)
	require.NoError(t, block.SetPartition([]int{0, 0, 0, 1, 1}, false))
	edgeCount := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())
	lg := prior.NewLabelGraphErdosRenyi(graph, block, edgeCount)

	ld := prior.NewLabelledDegreeUniform(graph, block, lg)
	assert.False(t, ld.LogLikelihood() > 0)
}

func TestLabelledDegreeUniformHyperLikelihoodFinite(t *testing.T) {
	graph := newTestGraph()
	blockCount := prior.NewBlockCountDelta(2)
	block := prior.NewBlockUniform(5, blockCount)
	require.NoError(t, block.SetPartition([]int{0, 0, 0, 1, 1}, false))
	edgeCount := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())
	lg := prior.NewLabelGraphErdosRenyi(graph, block, edgeCount)

	ld := prior.NewLabelledDegreeUniformHyper(graph, block, lg)
	assert.False(t, ld.LogLikelihood() > 0)
}
