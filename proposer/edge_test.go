package proposer_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/proposer"
	"github.com/katalvlaran/graphinf/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toyMultigraph is the 4-vertex graph used by the hinge-flip worked
// scenarios: edges (0,1), a self-loop at 1, and a double edge (0,2).
func toyMultigraph() *multigraph.Graph {
	g := multigraph.NewGraph(4, multigraph.WithLoops())
	_ = g.AddMultiedge(0, 1, 1)
	_ = g.AddMultiedge(1, 1, 1)
	_ = g.AddMultiedge(0, 2, 2)
	return g
}

func TestHingeFlipUniformProposerLogRatioNormalMoves(t *testing.T) {
	p := proposer.NewHingeFlipUniformProposer()
	p.SetUpWithGraph(toyMultigraph())

	cases := []struct {
		name     string
		move     moves.GraphMove
		expected float64
	}{
		{"normalMove1", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 0, V: 1}}, AddedEdges: []moves.Edge{{U: 0, V: 3}}}, 0},
		{"normalMove2", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 0, V: 2}}, AddedEdges: []moves.Edge{{U: 0, V: 1}}}, 0},
		{"normalMove3", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 0, V: 2}}, AddedEdges: []moves.Edge{{U: 0, V: 3}}}, -math.Ln2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, p.GetLogProposalProbRatio(c.move), 1e-9)
		})
	}
}

func TestHingeFlipUniformProposerLogRatioLoopyMoves(t *testing.T) {
	p := proposer.NewHingeFlipUniformProposer()
	p.SetUpWithGraph(toyMultigraph())

	cases := []struct {
		name     string
		move     moves.GraphMove
		expected float64
	}{
		{"loopyMove1", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 1, V: 1}}, AddedEdges: []moves.Edge{{U: 1, V: 3}}}, -math.Ln2},
		{"loopyMove2", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 1, V: 1}}, AddedEdges: []moves.Edge{{U: 1, V: 0}}}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, p.GetLogProposalProbRatio(c.move), 1e-9)
		})
	}
}

func TestHingeFlipUniformProposerLogRatioSelfieMoves(t *testing.T) {
	p := proposer.NewHingeFlipUniformProposer()
	p.SetUpWithGraph(toyMultigraph())

	cases := []struct {
		name     string
		move     moves.GraphMove
		expected float64
	}{
		{"selfieMove1", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 0, V: 1}}, AddedEdges: []moves.Edge{{U: 0, V: 0}}}, math.Ln2},
		{"selfieMove2", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 1, V: 0}}, AddedEdges: []moves.Edge{{U: 1, V: 0}}}, 0},
		{"selfieMove3", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 1, V: 0}}, AddedEdges: []moves.Edge{{U: 1, V: 1}}}, 2 * math.Ln2},
		{"selfieMove4", moves.GraphMove{RemovedEdges: []moves.Edge{{U: 0, V: 1}}, AddedEdges: []moves.Edge{{U: 0, V: 1}}}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, p.GetLogProposalProbRatio(c.move), 1e-9)
		})
	}
}

func TestHingeFlipUniformProposerLogRatioLoopySelfieMove(t *testing.T) {
	p := proposer.NewHingeFlipUniformProposer()
	p.SetUpWithGraph(toyMultigraph())

	move := moves.GraphMove{RemovedEdges: []moves.Edge{{U: 1, V: 1}}, AddedEdges: []moves.Edge{{U: 1, V: 1}}}
	assert.InDelta(t, 0.0, p.GetLogProposalProbRatio(move), 1e-9)
}

func TestHingeFlipUniformProposerSetupIndexesAllEdges(t *testing.T) {
	g := toyMultigraph()
	p := proposer.NewHingeFlipUniformProposer()
	p.SetUpWithGraph(g)
	require.NoError(t, p.CheckConsistency())
}

func TestSingleEdgeUniformProposerLogRatio(t *testing.T) {
	g := multigraph.NewGraph(10, multigraph.WithLoops())
	_ = g.AddMultiedge(0, 2, 1) // single edge
	_ = g.AddMultiedge(0, 3, 2) // double edge
	// (0,1) is left absent.

	p := proposer.NewSingleEdgeUniformProposer()
	p.SetUpWithGraph(g)

	addAbsent := moves.GraphMove{AddedEdges: []moves.Edge{{U: 0, V: 1}}}
	assert.InDelta(t, math.Ln2, p.GetLogProposalProbRatio(addAbsent), 1e-9)

	addExisting := moves.GraphMove{AddedEdges: []moves.Edge{{U: 0, V: 2}}}
	assert.InDelta(t, 0.0, p.GetLogProposalProbRatio(addExisting), 1e-9)

	removeDouble := moves.GraphMove{RemovedEdges: []moves.Edge{{U: 0, V: 3}}}
	assert.InDelta(t, 0.0, p.GetLogProposalProbRatio(removeDouble), 1e-9)

	removeSingle := moves.GraphMove{RemovedEdges: []moves.Edge{{U: 0, V: 2}}}
	assert.InDelta(t, -math.Ln2, p.GetLogProposalProbRatio(removeSingle), 1e-9)
}

func TestSingleEdgeUniformProposerRoundTrip(t *testing.T) {
	p := proposer.NewSingleEdgeUniformProposer()
	p.SetUpWithGraph(toyMultigraph())
	source := rng.New(7)

	for i := 0; i < 50; i++ {
		move := p.ProposeMove(source)
		require.NoError(t, p.ApplyGraphMove(move))
		require.NoError(t, p.CheckConsistency())
		require.NoError(t, p.ApplyGraphMove(move.Inverse()))
		require.NoError(t, p.CheckConsistency())
	}
}

func TestHingeFlipDegreeProposerRoundTripAndConsistency(t *testing.T) {
	p := proposer.NewHingeFlipDegreeProposer()
	p.SetUpWithGraph(toyMultigraph())
	source := rng.New(11)

	for i := 0; i < 50; i++ {
		move := p.ProposeMove(source)
		ratio := p.GetLogProposalProbRatio(move)
		require.False(t, math.IsNaN(ratio) || math.IsInf(ratio, 1))
		require.NoError(t, p.ApplyGraphMove(move))
		require.NoError(t, p.CheckConsistency())
	}
}

func TestHingeFlipDegreeProposerDegreeTracksGraph(t *testing.T) {
	g := toyMultigraph()
	p := proposer.NewHingeFlipDegreeProposer()
	p.SetUpWithGraph(g)
	source := rng.New(13)

	for i := 0; i < 20; i++ {
		move := p.ProposeMove(source)
		require.NoError(t, p.ApplyGraphMove(move))
	}
	require.NoError(t, p.CheckConsistency())
}

func TestDoubleEdgeSwapProposerPreservesDegreesAndRoundTrips(t *testing.T) {
	g := multigraph.NewGraph(12, multigraph.WithLoops())
	source := rng.New(19)
	for i := 0; i < 20; i++ {
		u := source.UniformInt(0, 11)
		v := (u + source.UniformInt(1, 11)) % 12
		_ = g.AddMultiedge(u, v, 1)
	}

	p := proposer.NewDoubleEdgeSwapProposer()
	p.SetUpWithGraph(g)

	degreesBefore := make([]int, g.Size())
	for v := 0; v < g.Size(); v++ {
		degreesBefore[v] = g.Degree(v)
	}

	for i := 0; i < 30; i++ {
		move := p.ProposeMove(source)
		ratio := p.GetLogProposalProbRatio(move)
		require.False(t, math.IsInf(ratio, -1))
		require.NoError(t, p.ApplyGraphMove(move))
		require.NoError(t, p.CheckConsistency())
	}

	for v := 0; v < g.Size(); v++ {
		assert.Equal(t, degreesBefore[v], g.Degree(v))
	}
}

func TestDoubleEdgeSwapProposerRatioMatchesReverse(t *testing.T) {
	p := proposer.NewDoubleEdgeSwapProposer()
	p.SetUpWithGraph(toyMultigraph())
	source := rng.New(23)

	for i := 0; i < 20; i++ {
		move := p.ProposeMove(source)
		forward := p.GetLogProposalProbRatio(move)
		if math.IsInf(forward, -1) {
			continue
		}
		require.NoError(t, p.ApplyGraphMove(move))
		backward := p.GetLogProposalProbRatio(move.Inverse())
		assert.InDelta(t, forward, -backward, 1e-9)
		require.NoError(t, p.ApplyGraphMove(move.Inverse()))
	}
}
