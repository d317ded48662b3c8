package prior

import (
	"fmt"
	"math"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/numerics"
)

// Degree is the C5 degree prior: the latent degree sequence
// d: {0,...,N-1} -> N conditioned on the edge count (spec.md §4.5).
// Its single parent is an EdgeCount prior supplying E.
type Degree interface {
	Joint
	Sequence() []int
	SetSequence(d []int) error
	LogLikelihoodFromSequence(d []int) float64
	LogLikelihood() float64
	ApplyGraphMove(m moves.GraphMove) error
}

func degreeCountMultiset(d []int) map[int]int {
	counts := make(map[int]int)
	for _, v := range d {
		counts[v]++
	}
	return counts
}

func degreeSequenceFromGraph(g *multigraph.Graph) []int {
	n := g.Size()
	d := make([]int, n)
	for v := 0; v < n; v++ {
		d[v] = g.Degree(v)
	}
	return d
}

// degreeBase holds the sequence and EdgeCount parent shared by every
// Degree variant.
type degreeBase struct {
	graph    *multigraph.Graph
	sequence []int
	parent   EdgeCount
}

func newDegreeBase(graph *multigraph.Graph, parent EdgeCount) degreeBase {
	return degreeBase{graph: graph, sequence: degreeSequenceFromGraph(graph), parent: parent}
}

func (b *degreeBase) Sequence() []int { return append([]int(nil), b.sequence...) }
func (b *degreeBase) SetSequence(d []int) error {
	if len(d) != b.graph.Size() {
		return fmt.Errorf("%w: degree sequence length mismatch", ErrInvalidMove)
	}
	b.sequence = append([]int(nil), d...)
	return nil
}

func sequenceAfterGraphMove(d []int, m moves.GraphMove) []int {
	next := append([]int(nil), d...)
	for _, e := range m.AddedEdges {
		if e.U == e.V {
			next[e.U] += 2
		} else {
			next[e.U]++
			next[e.V]++
		}
	}
	for _, e := range m.RemovedEdges {
		if e.U == e.V {
			next[e.U] -= 2
		} else {
			next[e.U]--
			next[e.V]--
		}
	}
	return next
}

// DegreeUniform scores the degree sequence as uniform over every
// sequence with a fixed total 2E (spec.md §4.5 Uniform).
type DegreeUniform struct {
	degreeBase
}

// NewDegreeUniform returns a DegreeUniform prior over graph with the
// given EdgeCount parent.
func NewDegreeUniform(graph *multigraph.Graph, parent EdgeCount) *DegreeUniform {
	return &DegreeUniform{degreeBase: newDegreeBase(graph, parent)}
}

// LogLikelihoodFromSequence returns -log multisetCoef(N, 2E).
func (p *DegreeUniform) LogLikelihoodFromSequence(d []int) float64 {
	n := len(d)
	e := p.parent.State()
	return -numerics.LogMultisetCoefficient(n, 2*e)
}
func (p *DegreeUniform) LogLikelihood() float64 { return p.LogLikelihoodFromSequence(p.sequence) }
func (p *DegreeUniform) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() + p.parent.GetLogJoint(visited) })
}
func (p *DegreeUniform) ApplyGraphMove(m moves.GraphMove) error {
	p.sequence = sequenceAfterGraphMove(p.sequence, m)
	return nil
}
func (p *DegreeUniform) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		// the after-term uses the edge count the move leads to
		e, err := p.parent.StateAfterGraphMove(m)
		if err != nil {
			return math.Inf(-1)
		}
		dll := -numerics.LogMultisetCoefficient(len(p.sequence), 2*e) - p.LogLikelihood()
		return dll + p.parent.GetLogJointRatioFromGraphMove(visited, m)
	})
}

// DegreeUniformHyper first draws an unordered degree-count multiset
// then a uniform assignment to vertices (spec.md §4.5 Uniform hyper).
type DegreeUniformHyper struct {
	degreeBase
}

// NewDegreeUniformHyper returns a DegreeUniformHyper prior over graph
// with the given EdgeCount parent.
func NewDegreeUniformHyper(graph *multigraph.Graph, parent EdgeCount) *DegreeUniformHyper {
	return &DegreeUniformHyper{degreeBase: newDegreeBase(graph, parent)}
}

// LogLikelihoodFromSequence returns -log multinomial(degree counts) - log q(2E, N).
func (p *DegreeUniformHyper) LogLikelihoodFromSequence(d []int) float64 {
	n := len(d)
	e := p.parent.State()
	counts := degreeCountMultiset(d)
	values := make([]int, 0, len(counts))
	for _, c := range counts {
		values = append(values, c)
	}
	return -numerics.LogMultinomialCoefficient(n, values) - numerics.LogQ(2*e, n)
}
func (p *DegreeUniformHyper) LogLikelihood() float64 { return p.LogLikelihoodFromSequence(p.sequence) }
func (p *DegreeUniformHyper) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() + p.parent.GetLogJoint(visited) })
}
func (p *DegreeUniformHyper) ApplyGraphMove(m moves.GraphMove) error {
	p.sequence = sequenceAfterGraphMove(p.sequence, m)
	return nil
}
func (p *DegreeUniformHyper) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		// the after-term uses the edge count the move leads to
		e, err := p.parent.StateAfterGraphMove(m)
		if err != nil {
			return math.Inf(-1)
		}
		next := sequenceAfterGraphMove(p.sequence, m)
		values := make([]int, 0)
		for _, c := range degreeCountMultiset(next) {
			values = append(values, c)
		}
		after := -numerics.LogMultinomialCoefficient(len(next), values) - numerics.LogQ(2*e, len(next))
		dll := after - p.LogLikelihood()
		return dll + p.parent.GetLogJointRatioFromGraphMove(visited, m)
	})
}

// DegreeDelta fixes the degree sequence to d0 (spec.md §4.5, by analogy
// with the other C2-C5 Delta variants).
type DegreeDelta struct {
	degreeBase
	d0 []int
}

// NewDegreeDelta returns a DegreeDelta fixed at d0.
func NewDegreeDelta(graph *multigraph.Graph, parent EdgeCount, d0 []int) *DegreeDelta {
	b := newDegreeBase(graph, parent)
	b.sequence = append([]int(nil), d0...)
	return &DegreeDelta{degreeBase: b, d0: append([]int(nil), d0...)}
}

func (p *DegreeDelta) LogLikelihoodFromSequence(d []int) float64 {
	if len(d) != len(p.d0) {
		return math.Inf(-1)
	}
	for i, v := range d {
		if v != p.d0[i] {
			return math.Inf(-1)
		}
	}
	return 0
}
func (p *DegreeDelta) LogLikelihood() float64 { return p.LogLikelihoodFromSequence(p.sequence) }
func (p *DegreeDelta) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() + p.parent.GetLogJoint(visited) })
}
func (p *DegreeDelta) ApplyGraphMove(m moves.GraphMove) error {
	p.sequence = sequenceAfterGraphMove(p.sequence, m)
	return nil
}
func (p *DegreeDelta) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		next := sequenceAfterGraphMove(p.sequence, m)
		return p.LogLikelihoodFromSequence(next) - p.LogLikelihood() + p.parent.GetLogJointRatioFromGraphMove(visited, m)
	})
}
