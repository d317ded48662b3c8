package model_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/model"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNestedStochasticBlockModelFamilySampleIsConsistent(t *testing.T) {
	m := model.NewNestedStochasticBlockModelFamily(16, 14.0, model.BlockVariantUniform, false)
	source := rng.New(50)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
	assert.GreaterOrEqual(t, m.GetDepth(), 1)
}

func TestNestedStochasticBlockModelFamilyGraphMoveRoundTrip(t *testing.T) {
	m := model.NewNestedStochasticBlockModelFamily(12, 10.0, model.BlockVariantUniform, false)
	source := rng.New(51)
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

func TestNestedStochasticBlockModelFamilyReduceLabels(t *testing.T) {
	m := model.NewNestedStochasticBlockModelFamily(10, 8.0, model.BlockVariantUniform, true)
	source := rng.New(52)
	m.Sample(source)

	m.ReduceLabels()
	require.NoError(t, m.CheckConsistency())
}
