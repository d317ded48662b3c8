package prior_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/prior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNestedLabelGraphErdosRenyiLevelsDecreaseInSize(t *testing.T) {
	graph := newTestGraph()
	count := prior.NewNestedBlockCount(5)
	count.SetNestedState([]int{3, 2, 1})
	nb := prior.NewNestedBlockUniform(5, count)
	require.NoError(t, nb.SetNestedPartition([][]int{
		{0, 0, 1, 1, 2},
		{0, 0, 1},
		{0},
	}, false))
	edgeCount := prior.NewEdgeCountDelta(graph.GetTotalEdgeNumber())

	nlg := prior.NewNestedLabelGraphErdosRenyi(graph, nb, edgeCount)
	assert.Equal(t, 3, nlg.Depth())
	assert.Equal(t, 3, nlg.BlockCountAtLevel(0))
	assert.Equal(t, 2, nlg.BlockCountAtLevel(1))
	assert.Equal(t, 1, nlg.BlockCountAtLevel(2))
	assert.False(t, nlg.LogLikelihood() > 0)
}
