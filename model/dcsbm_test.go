package model_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/model"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegreeCorrectedSBMFamilySampleIsConsistent(t *testing.T) {
	m, err := model.NewDegreeCorrectedSBMFamily(16, 2, 4, 14.0,
		model.BlockVariantUniform, model.LabelGraphErdosRenyi, model.DegreeCorrectedUniform)
	require.NoError(t, err)
	source := rng.New(30)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestDegreeCorrectedSBMFamilyUniformHyperSampleIsConsistent(t *testing.T) {
	m, err := model.NewDegreeCorrectedSBMFamily(14, 2, 3, 12.0,
		model.BlockVariantUniformHyper, model.LabelGraphErdosRenyi, model.DegreeCorrectedUniformHyper)
	require.NoError(t, err)
	source := rng.New(31)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestDegreeCorrectedSBMFamilyGraphMoveRoundTrip(t *testing.T) {
	m, err := model.NewDegreeCorrectedSBMFamily(12, 2, 3, 10.0,
		model.BlockVariantUniform, model.LabelGraphErdosRenyi, model.DegreeCorrectedUniform)
	require.NoError(t, err)
	source := rng.New(32)
	m.Sample(source)

	before := m.GetLogJoint()
	move := moves.GraphMove{AddedEdges: []moves.Edge{moves.NewEdge(0, 0)}}
	ratio := m.GetLogJointRatioFromGraphMove(move)
	require.NoError(t, m.ApplyGraphMove(move))
	after := m.GetLogJoint()
	assert.InDelta(t, after-before, ratio, 1e-6)

	require.NoError(t, m.ApplyGraphMove(move.Inverse()))
	assert.InDelta(t, before, m.GetLogJoint(), 1e-6)
	assert.NoError(t, m.CheckConsistency())
}
