package model_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/model"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationUniformSampleIsConsistent(t *testing.T) {
	m := model.NewConfigurationUniform(10, 12)
	source := rng.New(10)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestConfigurationUniformHyperSampleIsConsistent(t *testing.T) {
	m := model.NewConfigurationUniformHyper(9, 10)
	source := rng.New(11)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestConfigurationDeltaFixesSequence(t *testing.T) {
	d0 := []int{2, 2, 2, 2, 2, 2}
	m := model.NewConfigurationDelta(d0)
	source := rng.New(12)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestConfigurationGraphMoveRoundTrip(t *testing.T) {
	m := model.NewConfigurationUniform(8, 8)
	source := rng.New(13)
	m.Sample(source)

	g := m.Graph()
	var u, v int
	found := false
	for a := 0; a < 8 && !found; a++ {
		for b := a + 1; b < 8; b++ {
			if g.Degree(a) > 0 && g.Degree(b) > 0 {
				u, v = a, b
				found = true
				break
			}
		}
	}
	require.True(t, found)

	before := m.GetLogJoint()
	move := moves.GraphMove{AddedEdges: []moves.Edge{moves.NewEdge(u, v)}}
	ratio := m.GetLogJointRatioFromGraphMove(move)
	require.NoError(t, m.ApplyGraphMove(move))
	after := m.GetLogJoint()
	assert.InDelta(t, after-before, ratio, 1e-6)

	require.NoError(t, m.ApplyGraphMove(move.Inverse()))
	assert.InDelta(t, before, m.GetLogJoint(), 1e-6)
}
