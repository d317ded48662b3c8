package model_test

import (
	"testing"

	"github.com/katalvlaran/graphinf/model"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNestedDegreeCorrectedSBMFamilySampleIsConsistent(t *testing.T) {
	m := model.NewNestedDegreeCorrectedSBMFamily(16, 14.0, model.BlockVariantUniform, model.DegreeCorrectedUniform)
	source := rng.New(60)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestNestedDegreeCorrectedSBMFamilyUniformHyperSampleIsConsistent(t *testing.T) {
	m := model.NewNestedDegreeCorrectedSBMFamily(14, 12.0, model.BlockVariantUniformHyper, model.DegreeCorrectedUniformHyper)
	source := rng.New(61)
	m.Sample(source)

	require.NoError(t, m.CheckConsistency())
	assert.True(t, m.IsCompatible(m.Graph()))
}

func TestNestedDegreeCorrectedSBMFamilyGraphMoveRoundTrip(t *testing.T) {
	m := model.NewNestedDegreeCorrectedSBMFamily(12, 10.0, model.BlockVariantUniform, model.DegreeCorrectedUniform)
	source := rng.New(62)
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

func TestNestedDegreeCorrectedSBMFamilyLabelMoveRoundTrip(t *testing.T) {
	n := 10
	m := model.NewNestedDegreeCorrectedSBMFamily(n, 9.0, model.BlockVariantUniform, model.DegreeCorrectedUniform)
	source := rng.New(63)
	m.Sample(source)

	partition := make([]int, n)
	counts := make(map[int]int)
	for v := 0; v < n; v++ {
		partition[v] = m.GetNestedLabel(v, 0)
		counts[partition[v]]++
	}

	v, next := -1, -1
	for u := 0; u < n && v < 0; u++ {
		if counts[partition[u]] < 2 {
			continue
		}
		for w := 0; w < n; w++ {
			if partition[w] != partition[u] {
				v, next = u, partition[w]
				break
			}
		}
	}
	if v < 0 {
		t.Skip("not enough distinct, non-singleton level-0 labels to exercise a non-trivial move")
	}
	move := moves.LabelMove{Vertex: v, PrevLabel: partition[v], NextLabel: next, Level: 0}

	before := m.GetLogJoint()
	ratio := m.GetLogJointRatioFromLabelMove(move)
	require.NoError(t, m.ApplyLabelMove(move))
	after := m.GetLogJoint()
	assert.InDelta(t, after-before, ratio, 1e-6)

	inverse := move.Inverse()
	reverseRatio := m.GetLogJointRatioFromLabelMove(inverse)
	require.NoError(t, m.ApplyLabelMove(inverse))
	assert.InDelta(t, before, m.GetLogJoint(), 1e-6)
	assert.InDelta(t, -ratio, reverseRatio, 1e-6)
	assert.NoError(t, m.CheckConsistency())
}
