package model

import (
	"fmt"

	"github.com/katalvlaran/graphinf/generator"
	"github.com/katalvlaran/graphinf/likelihood"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/katalvlaran/graphinf/rng"
)

// ErdosRenyi is the C7 Erdos-Renyi random-graph model: a multigraph
// whose only latent variable is its edge count E (spec.md §4.8). The
// edge-count prior may be any prior.EdgeCount variant (Delta, Poisson,
// Exponential).
type ErdosRenyi struct {
	cfg       config
	n         int
	graph     *multigraph.Graph
	edgeCount prior.EdgeCount
}

// NewErdosRenyi returns an ErdosRenyi model over n vertices with the
// given edge-count prior.
func NewErdosRenyi(n int, edgeCount prior.EdgeCount, opts ...Option) *ErdosRenyi {
	cfg := newConfig(opts...)
	g := multigraph.NewGraph(n)
	if cfg.allowLoops {
		g = multigraph.NewGraph(n, multigraph.WithLoops())
	}
	return &ErdosRenyi{cfg: cfg, n: n, graph: g, edgeCount: edgeCount}
}

func (m *ErdosRenyi) Graph() *multigraph.Graph { return m.graph }

// Sample draws E from the prior, then a simple/multigraph ER sample
// with that many edges (spec.md §4.1 "sample() rule").
func (m *ErdosRenyi) Sample(source *rng.Source) {
	m.edgeCount.Sample(source)
	e := m.edgeCount.State()
	if m.cfg.allowParallel {
		m.graph = generator.SampleMultigraphErdosRenyi(source, m.n, e, m.cfg.allowLoops)
	} else {
		m.graph = generator.SampleErdosRenyi(source, m.n, e, m.cfg.allowLoops)
	}
}

func (m *ErdosRenyi) GetLogLikelihood() float64 {
	return likelihood.ErdosRenyi(m.n, m.graph.GetTotalEdgeNumber(), m.cfg.allowLoops, m.cfg.allowParallel)
}
func (m *ErdosRenyi) GetLogPrior() float64 { return m.edgeCount.GetLogJoint(prior.NewVisitSet()) }
func (m *ErdosRenyi) GetLogJoint() float64 { return m.GetLogLikelihood() + m.GetLogPrior() }

func (m *ErdosRenyi) ApplyGraphMove(move moves.GraphMove) error {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return err
	}
	return m.edgeCount.ApplyGraphMove(move)
}

func (m *ErdosRenyi) GetLogLikelihoodRatioFromGraphMove(move moves.GraphMove) float64 {
	next, err := m.edgeCount.StateAfterGraphMove(move)
	if err != nil {
		return negInf
	}
	before := likelihood.ErdosRenyi(m.n, m.graph.GetTotalEdgeNumber(), m.cfg.allowLoops, m.cfg.allowParallel)
	after := likelihood.ErdosRenyi(m.n, next, m.cfg.allowLoops, m.cfg.allowParallel)
	return after - before
}
func (m *ErdosRenyi) GetLogPriorRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.edgeCount.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), move)
}
func (m *ErdosRenyi) GetLogJointRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.GetLogLikelihoodRatioFromGraphMove(move) + m.GetLogPriorRatioFromGraphMove(move)
}

// IsCompatible checks size, that no pair exceeds multiplicity 1 for the
// no-parallel-edges variant, and that no self-loop is present for the
// no-loops variant (spec.md §3 "isCompatible").
func (m *ErdosRenyi) IsCompatible(g *multigraph.Graph) bool {
	if g.Size() != m.n {
		return false
	}
	if !m.cfg.allowParallel {
		for _, e := range g.Edges() {
			if e.Multiplicity > 1 {
				return false
			}
		}
	}
	if !m.cfg.allowLoops {
		for _, e := range g.Edges() {
			if e.From == e.To {
				return false
			}
		}
	}
	return true
}

// CheckConsistency verifies the owned edge-count prior agrees with the
// owned graph's observed edge total (spec.md §3 "checkConsistency").
func (m *ErdosRenyi) CheckConsistency() error {
	if m.edgeCount.State() != m.graph.GetTotalEdgeNumber() {
		return fmt.Errorf("%w: edge count prior state %d != graph edges %d",
			prior.ErrConsistency, m.edgeCount.State(), m.graph.GetTotalEdgeNumber())
	}
	return nil
}
