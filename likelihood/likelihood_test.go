package likelihood_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/graphinf/likelihood"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestErdosRenyiRejectsOverfullSimpleGraph(t *testing.T) {
	ll := likelihood.ErdosRenyi(3, 10, false, false)
	assert.True(t, math.IsInf(ll, -1))
}

func TestErdosRenyiFiniteWithinCapacity(t *testing.T) {
	ll := likelihood.ErdosRenyi(5, 3, false, false)
	assert.False(t, math.IsInf(ll, -1))
	assert.False(t, ll > 0)
}

func TestConfigurationLikelihoodFinite(t *testing.T) {
	g := multigraph.NewGraph(4)
	require.NoError(t, g.AddMultiedge(0, 1, 1))
	require.NoError(t, g.AddMultiedge(1, 2, 1))
	require.NoError(t, g.AddMultiedge(2, 3, 1))
	degrees := []int{1, 2, 2, 1}
	ll := likelihood.Configuration(g, degrees)
	assert.False(t, ll > 0)
}

func TestUniformMultigraphSBMFinite(t *testing.T) {
	lg := mat.NewSymDense(2, nil)
	lg.SetSym(0, 0, 2)
	lg.SetSym(1, 1, 1)
	lg.SetSym(0, 1, 3)
	ll := likelihood.UniformMultigraphSBM(lg, []int{3, 2}, false, true)
	assert.False(t, math.IsNaN(ll))
}

func TestDCSBMMatchesStubLabelled(t *testing.T) {
	g := multigraph.NewGraph(4)
	require.NoError(t, g.AddMultiedge(0, 1, 1))
	require.NoError(t, g.AddMultiedge(2, 3, 1))
	degrees := []int{1, 1, 1, 1}
	assert.Equal(t, likelihood.StubLabelledSBM(g, degrees), likelihood.DCSBM(g, degrees))
}
