package prior

import (
	"fmt"
	"math"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/numerics"
	"github.com/katalvlaran/graphinf/rng"
)

// EdgeCount is the C2 edge-count prior: a leaf node over the number of
// edges E. It has no parents, so GetLogJoint is just its own
// likelihood (spec.md §4.2).
type EdgeCount interface {
	Joint
	State() int
	Sample(source *rng.Source)
	SetState(e int)
	LogLikelihoodFromState(e int) float64
	LogLikelihood() float64
	ApplyGraphMove(m moves.GraphMove) error
	StateAfterGraphMove(m moves.GraphMove) (int, error)
}

// stateAfterGraphMove implements spec.md §4.2's
// "stateAfterGraphMove(m) = E + |added| - |removed|", shared by every
// edge-count-like state in this package (plain and vertex-labelled).
func stateAfterGraphMove(e int, m moves.GraphMove) (int, error) {
	next := e + m.EdgeCountDelta()
	if next < 0 {
		return 0, fmt.Errorf("%w: edge count would go negative", ErrInvalidMove)
	}
	return next, nil
}

// edgeCountBase holds the state shared by every EdgeCount variant
// (State, SetState, StateAfterGraphMove). Each variant defines its own
// LogLikelihood, GetLogJoint and graph-move ratio; a leaf has no parents
// to recurse into.
type edgeCountBase struct {
	state int
}

func (b *edgeCountBase) State() int        { return b.state }
func (b *edgeCountBase) SetState(e int)    { b.state = e }
func (b *edgeCountBase) StateAfterGraphMove(m moves.GraphMove) (int, error) {
	return stateAfterGraphMove(b.state, m)
}

// EdgeCountDelta fixes E to a single value E0 (spec.md §4.2 Delta).
type EdgeCountDelta struct {
	edgeCountBase
	e0 int
}

// NewEdgeCountDelta returns an EdgeCountDelta with state fixed at e0.
func NewEdgeCountDelta(e0 int) *EdgeCountDelta {
	return &EdgeCountDelta{edgeCountBase: edgeCountBase{state: e0}, e0: e0}
}

func (p *EdgeCountDelta) Sample(source *rng.Source) { p.state = p.e0 }
func (p *EdgeCountDelta) LogLikelihoodFromState(e int) float64 {
	if e == p.e0 {
		return 0
	}
	return math.Inf(-1)
}
func (p *EdgeCountDelta) LogLikelihood() float64 { return p.LogLikelihoodFromState(p.state) }
func (p *EdgeCountDelta) ApplyGraphMove(m moves.GraphMove) error {
	next, err := p.StateAfterGraphMove(m)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}
func (p *EdgeCountDelta) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() })
}
func (p *EdgeCountDelta) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		if len(m.AddedEdges) == len(m.RemovedEdges) {
			return 0
		}
		return math.Inf(-1)
	})
}

// EdgeCountPoisson draws E ~ Poisson(mu) (spec.md §4.2 Poisson).
type EdgeCountPoisson struct {
	edgeCountBase
	mean float64
}

// NewEdgeCountPoisson returns an EdgeCountPoisson with the given mean.
func NewEdgeCountPoisson(mean float64) *EdgeCountPoisson {
	return &EdgeCountPoisson{mean: mean}
}

func (p *EdgeCountPoisson) Mean() float64         { return p.mean }
func (p *EdgeCountPoisson) Sample(source *rng.Source) { p.state = source.Poisson(p.mean) }
func (p *EdgeCountPoisson) LogLikelihoodFromState(e int) float64 {
	return numerics.LogPoissonPMF(e, p.mean)
}
func (p *EdgeCountPoisson) LogLikelihood() float64 { return p.LogLikelihoodFromState(p.state) }
func (p *EdgeCountPoisson) ApplyGraphMove(m moves.GraphMove) error {
	next, err := p.StateAfterGraphMove(m)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}
func (p *EdgeCountPoisson) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() })
}
func (p *EdgeCountPoisson) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		next, err := p.StateAfterGraphMove(m)
		if err != nil {
			return math.Inf(-1)
		}
		return p.LogLikelihoodFromState(next) - p.LogLikelihood()
	})
}

// EdgeCountExponential draws E from a geometric distribution on N with
// mean mu (spec.md §4.2 Exponential).
type EdgeCountExponential struct {
	edgeCountBase
	mean float64
}

// NewEdgeCountExponential returns an EdgeCountExponential with the given mean.
func NewEdgeCountExponential(mean float64) *EdgeCountExponential {
	return &EdgeCountExponential{mean: mean}
}

func (p *EdgeCountExponential) Mean() float64 { return p.mean }
func (p *EdgeCountExponential) successProb() float64 { return 1 / (p.mean + 1) }
func (p *EdgeCountExponential) Sample(source *rng.Source) {
	p.state = source.Geometric(p.successProb())
}
func (p *EdgeCountExponential) LogLikelihoodFromState(e int) float64 {
	if e < 0 {
		return math.Inf(-1)
	}
	prob := p.successProb()
	return float64(e)*math.Log(1-prob) + math.Log(prob)
}
func (p *EdgeCountExponential) LogLikelihood() float64 { return p.LogLikelihoodFromState(p.state) }
func (p *EdgeCountExponential) ApplyGraphMove(m moves.GraphMove) error {
	next, err := p.StateAfterGraphMove(m)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}
func (p *EdgeCountExponential) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() })
}
func (p *EdgeCountExponential) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		next, err := p.StateAfterGraphMove(m)
		if err != nil {
			return math.Inf(-1)
		}
		return p.LogLikelihoodFromState(next) - p.LogLikelihood()
	})
}
