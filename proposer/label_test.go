package proposer_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/graphinf/model"
	"github.com/katalvlaran/graphinf/proposer"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampledDCSBM(seed int64) *model.DegreeCorrectedSBMFamily {
	m, err := model.NewDegreeCorrectedSBMFamily(20, 2, 4, 18.0,
		model.BlockVariantUniform, model.LabelGraphErdosRenyi, model.DegreeCorrectedUniform)
	if err != nil {
		panic(err)
	}
	m.Sample(rng.New(seed))
	return m
}

func exerciseFlatProposer(t *testing.T, p proposer.LabelProposer) {
	m := sampledDCSBM(100)
	p.SetUpWithPrior(m)
	source := rng.New(101)

	for v := 0; v < 20; v++ {
		move := p.ProposeMove(v, source)
		fwd := p.GetLogProposalProb(move, false)
		require.False(t, math.IsNaN(fwd))
		require.NoError(t, p.ApplyLabelMove(move))

		bwd := p.GetLogProposalProb(move, true)
		require.False(t, math.IsNaN(bwd))
	}
}

func TestGibbsUniformLabelProposerProposesAndScores(t *testing.T) {
	exerciseFlatProposer(t, proposer.NewGibbsUniformLabelProposer())
}

func TestRestrictedUniformLabelProposerProposesAndScores(t *testing.T) {
	exerciseFlatProposer(t, proposer.NewRestrictedUniformLabelProposer(0.1))
}

func TestGibbsMixedLabelProposerProposesAndScores(t *testing.T) {
	exerciseFlatProposer(t, proposer.NewGibbsMixedLabelProposer(1.0))
}

func TestRestrictedMixedLabelProposerProposesAndScores(t *testing.T) {
	exerciseFlatProposer(t, proposer.NewRestrictedMixedLabelProposer(0.1, 1.0))
}

func TestRestrictedUniformLabelProposerNeverProposesEmptyLabelAsStandardMove(t *testing.T) {
	m := sampledDCSBM(200)
	p := proposer.NewRestrictedUniformLabelProposer(0.0) // force the standard branch only
	p.SetUpWithPrior(m)
	source := rng.New(201)

	for v := 0; v < 20; v++ {
		move := p.ProposeMove(v, source)
		assert.LessOrEqual(t, move.AddedLabels, 0)
		assert.Greater(t, m.VertexCount(move.NextLabel), 0)
	}
}

func TestRestrictedUniformLabelProposerReverseLogProbMatchesDirectCall(t *testing.T) {
	m := sampledDCSBM(300)
	p := proposer.NewRestrictedUniformLabelProposer(0.3)
	p.SetUpWithPrior(m)
	source := rng.New(301)

	move := p.ProposeMove(0, source)
	reverse := p.GetLogProposalProb(move, true)
	direct := p.GetLogProposalProb(move.Inverse(), false)
	assert.InDelta(t, direct, reverse, 1e-9)
}

func exerciseNestedProposer(t *testing.T, newFlat func() proposer.LabelProposer) {
	m := model.NewNestedDegreeCorrectedSBMFamily(20, 18.0, model.BlockVariantUniform, model.DegreeCorrectedUniform)
	m.Sample(rng.New(400))

	p := proposer.NewNestedLabelProposer(newFlat)
	p.SetUpWithPrior(m)
	source := rng.New(401)

	for i := 0; i < 20; i++ {
		move := p.ProposeMove(source)
		fwd := p.GetLogProposalProb(move, false)
		require.False(t, math.IsNaN(fwd))
		require.NoError(t, p.ApplyLabelMove(move))
	}
}

func TestNestedLabelProposerWithGibbsUniform(t *testing.T) {
	exerciseNestedProposer(t, func() proposer.LabelProposer { return proposer.NewGibbsUniformLabelProposer() })
}

func TestNestedLabelProposerWithRestrictedMixed(t *testing.T) {
	exerciseNestedProposer(t, func() proposer.LabelProposer {
		return proposer.NewRestrictedMixedLabelProposer(0.2, 1.0)
	})
}

func TestNestedLabelProposerAssignsLevel(t *testing.T) {
	m := model.NewNestedDegreeCorrectedSBMFamily(16, 14.0, model.BlockVariantUniform, model.DegreeCorrectedUniform)
	m.Sample(rng.New(402))

	p := proposer.NewNestedLabelProposer(func() proposer.LabelProposer { return proposer.NewGibbsUniformLabelProposer() })
	p.SetUpWithPrior(m)
	source := rng.New(403)

	move := p.ProposeMove(source)
	assert.GreaterOrEqual(t, move.Level, 0)
	assert.Less(t, move.Level, m.GetDepth())
}
