package model_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/model"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlantedPartitionSampleIsConsistent(t *testing.T) {
	m := model.NewPlantedPartition([]int{6, 6, 6}, 40, 0.85)
	source := rng.New(40)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestPlantedPartitionHighAssortativityFavoursWithinEdges(t *testing.T) {
	m := model.NewPlantedPartition([]int{10, 10}, 60, 0.9)
	source := rng.New(41)
	m.Sample(source)

	assert.GreaterOrEqual(t, m.WithinEdgeFraction(), 0.7)
}

func TestPlantedPartitionGraphMoveRoundTrip(t *testing.T) {
	sizes := []int{4, 4}
	m := model.NewPlantedPartition(sizes, 10, 0.8)
	source := rng.New(42)
	m.Sample(source)

	n := 8
	partition := make([]int, n)
	for v := 0; v < n; v++ {
		if v < 4 {
			partition[v] = 0
		} else {
			partition[v] = 1
		}
	}
	samePair := func(u, v, x, y int) bool {
		return (partition[u] == partition[x] && partition[v] == partition[y]) ||
			(partition[u] == partition[y] && partition[v] == partition[x])
	}

	var from, to [2]int
	found := false
	for u := 0; u < n && !found; u++ {
		for v := u + 1; v < n && !found; v++ {
			if m.Graph().EdgeMultiplicity(u, v) > 0 {
				from = [2]int{u, v}
				found = true
			}
		}
	}
	require.True(t, found, "expected at least one edge in the sampled graph")
	for u := 0; u < n && to == [2]int{}; u++ {
		for v := u + 1; v < n; v++ {
			if [2]int{u, v} != from && samePair(u, v, from[0], from[1]) {
				to = [2]int{u, v}
				break
			}
		}
	}
	require.NotEqual(t, [2]int{}, to, "expected a second pair with the same block signature")

	before := m.GetLogJoint()
	move := moves.GraphMove{
		AddedEdges:   []moves.Edge{moves.NewEdge(to[0], to[1])},
		RemovedEdges: []moves.Edge{moves.NewEdge(from[0], from[1])},
	}
	ratio := m.GetLogJointRatioFromGraphMove(move)
	require.NoError(t, m.ApplyGraphMove(move))
	after := m.GetLogJoint()
	assert.InDelta(t, after-before, ratio, 1e-6)

	require.NoError(t, m.ApplyGraphMove(move.Inverse()))
	assert.InDelta(t, before, m.GetLogJoint(), 1e-6)
	assert.NoError(t, m.CheckConsistency())
}
