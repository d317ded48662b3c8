package prior_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReducePartitionNormalizesLabels(t *testing.T) {
	got := prior.ReducePartition([]int{5, 5, 2, 2, 9})
	assert.Equal(t, []int{0, 0, 1, 1, 2}, got)
}

func TestBlockUniformSampleRespectsBlockCount(t *testing.T) {
	count := prior.NewBlockCountDelta(3)
	b := prior.NewBlockUniform(10, count)
	b.Sample(rng.New(2))
	for _, lbl := range b.Partition() {
		assert.GreaterOrEqual(t, lbl, 0)
		assert.Less(t, lbl, 3)
	}
}

func TestBlockUniformApplyLabelMoveUpdatesCounts(t *testing.T) {
	count := prior.NewBlockCountDelta(2)
	b := prior.NewBlockUniform(4, count)
	require.NoError(t, b.SetPartition([]int{0, 0, 1, 1}, false))
	require.NoError(t, b.ApplyLabelMove(moves.LabelMove{Vertex: 0, PrevLabel: 0, NextLabel: 1}))
	assert.Equal(t, 1, b.VertexCount(0))
	assert.Equal(t, 3, b.VertexCount(1))
}

func TestBlockDeltaRejectsLabelMove(t *testing.T) {
	count := prior.NewBlockCountDelta(2)
	b := prior.NewBlockDelta([]int{0, 0, 1}, count)
	err := b.ApplyLabelMove(moves.LabelMove{Vertex: 0, PrevLabel: 0, NextLabel: 1})
	assert.ErrorIs(t, err, prior.ErrDepletedMethod)
}

func TestBlockUniformHyperLogLikelihoodFinite(t *testing.T) {
	count := prior.NewBlockCountDelta(2)
	b := prior.NewBlockUniformHyper(6, count)
	b.Sample(rng.New(3))
	ll := b.LogLikelihood()
	assert.False(t, ll > 0)
}
