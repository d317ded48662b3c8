package model_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/model"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func twoBlockMatrix() *mat.SymDense {
	m := mat.NewSymDense(2, nil)
	m.SetSym(0, 0, 6)
	m.SetSym(1, 1, 6)
	m.SetSym(0, 1, 2)
	return m
}

func TestStochasticBlockModelSampleIsConsistent(t *testing.T) {
	partition := []int{0, 0, 0, 0, 1, 1, 1, 1}
	m := model.NewStochasticBlockModel(partition, twoBlockMatrix(), false)
	source := rng.New(20)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestStochasticBlockModelGraphMoveRoundTrip(t *testing.T) {
	partition := []int{0, 0, 0, 1, 1, 1}
	matrix := mat.NewSymDense(2, nil)
	matrix.SetSym(0, 0, 2)
	matrix.SetSym(1, 1, 2)
	matrix.SetSym(0, 1, 1)
	m := model.NewStochasticBlockModel(partition, matrix, false)
	source := rng.New(21)
	m.Sample(source)

	// find an edge within block 0 {0,1,2} to swap for another pair in
	// the same block, so the frozen label graph's induced matrix is
	// unchanged by the move
	block0Pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	var from, to [2]int
	found := false
	for _, pair := range block0Pairs {
		if m.Graph().EdgeMultiplicity(pair[0], pair[1]) > 0 {
			from = pair
			found = true
			break
		}
	}
	require.True(t, found, "expected at least one edge within block 0")
	for _, pair := range block0Pairs {
		if pair != from {
			to = pair
			break
		}
	}

	before := m.GetLogJoint()
	move := moves.GraphMove{
		AddedEdges:   []moves.Edge{moves.NewEdge(to[0], to[1])},
		RemovedEdges: []moves.Edge{moves.NewEdge(from[0], from[1])},
	}
	ratio := m.GetLogJointRatioFromGraphMove(move)
	require.NoError(t, m.ApplyGraphMove(move))
	after := m.GetLogJoint()
	assert.InDelta(t, after-before, ratio, 1e-6)
	assert.NoError(t, m.CheckConsistency())

	require.NoError(t, m.ApplyGraphMove(move.Inverse()))
	assert.InDelta(t, before, m.GetLogJoint(), 1e-6)
}

func TestStochasticBlockModelFamilySampleIsConsistent(t *testing.T) {
	m, err := model.NewStochasticBlockModelFamily(12, 2, 4, 10.0, model.BlockVariantUniform, model.LabelGraphErdosRenyi, false)
	require.NoError(t, err)
	source := rng.New(22)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestStochasticBlockModelFamilyGraphMoveRoundTrip(t *testing.T) {
	m, err := model.NewStochasticBlockModelFamily(10, 2, 3, 8.0, model.BlockVariantUniform, model.LabelGraphErdosRenyi, false)
	require.NoError(t, err)
	source := rng.New(23)
	m.Sample(source)

	before := m.GetLogJoint()
	move := moves.GraphMove{AddedEdges: []moves.Edge{moves.NewEdge(0, 1)}}
	ratio := m.GetLogJointRatioFromGraphMove(move)
	require.NoError(t, m.ApplyGraphMove(move))
	after := m.GetLogJoint()
	assert.InDelta(t, after-before, ratio, 1e-6)

	require.NoError(t, m.ApplyGraphMove(move.Inverse()))
	assert.InDelta(t, before, m.GetLogJoint(), 1e-6)
	assert.NoError(t, m.CheckConsistency())
}

func TestStochasticBlockModelFamilyLabelMoveRoundTrip(t *testing.T) {
	m, err := model.NewStochasticBlockModelFamily(10, 2, 4, 8.0, model.BlockVariantUniform, model.LabelGraphErdosRenyi, false)
	require.NoError(t, err)
	source := rng.New(24)
	m.Sample(source)

	partition := m.Labels()
	v := 0
	prevLabel := partition[v]
	nextLabel := prevLabel
	for _, l := range partition {
		if l != prevLabel {
			nextLabel = l
			break
		}
	}
	if nextLabel == prevLabel {
		t.Skip("sampled partition has only one block")
	}

	before := m.GetLogJoint()
	move := moves.LabelMove{Vertex: v, PrevLabel: prevLabel, NextLabel: nextLabel}
	ratio := m.GetLogJointRatioFromLabelMove(move)
	require.NoError(t, m.ApplyLabelMove(move))
	after := m.GetLogJoint()
	assert.InDelta(t, after-before, ratio, 1e-6)

	require.NoError(t, m.ApplyLabelMove(move.Inverse()))
	assert.InDelta(t, before, m.GetLogJoint(), 1e-6)
}

func TestStochasticBlockModelFamilyPlantedPartitionVariant(t *testing.T) {
	m, err := model.NewStochasticBlockModelFamily(14, 2, 2, 16.0, model.BlockVariantUniformHyper, model.LabelGraphPlantedPartition, true)
	require.NoError(t, err)
	source := rng.New(25)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}
