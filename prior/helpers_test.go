package prior_test

import "github.com/katalvlaran/graphinf/multigraph"

// newTestGraph returns a small fixed 5-vertex multigraph shared by
// prior package tests.
func newTestGraph() *multigraph.Graph {
	g := multigraph.NewGraph(5)
	_ = g.AddMultiedge(0, 1, 1)
	_ = g.AddMultiedge(1, 2, 1)
	_ = g.AddMultiedge(2, 3, 1)
	_ = g.AddMultiedge(3, 4, 1)
	_ = g.AddMultiedge(0, 4, 1)
	return g
}
