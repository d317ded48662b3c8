// Package proposer implements the C9/C10 move proposers: edge proposers
// that draw a GraphMove from the current graph state, and label
// proposers that draw a LabelMove from a labelled model's current
// partition (spec.md §4.9, §4.10). Each proposer maintains a small
// incremental sampling index rather than rebuilding from scratch on
// every call, updated by the same ApplyGraphMove/ApplyLabelMove the
// model itself receives.
package proposer

import (
	"fmt"
	"math"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/katalvlaran/graphinf/rng"
)

// EdgeProposer is the C9 contract (spec.md §4.9): propose a GraphMove,
// score its proposal-probability ratio, fold an accepted move into the
// incremental index, and validate that index against the graph it
// tracks.
type EdgeProposer interface {
	ProposeMove(source *rng.Source) moves.GraphMove
	GetLogProposalProbRatio(m moves.GraphMove) float64
	ApplyGraphMove(m moves.GraphMove) error
	SetUpWithGraph(g *multigraph.Graph)
	CheckConsistency() error
}

// edgeSampler is a weighted sampling set over canonical edges, keyed by
// (u<=v), maintained incrementally rather than rebuilt per draw
// (spec.md §4.9 "Implementation index"). A swap-with-last removal keeps
// every update O(1) amortized; sample draws by delegating to
// rng.Source.Discrete over the current weight slice.
type edgeSampler struct {
	edges   []moves.Edge
	weights []float64
	index   map[moves.Edge]int
	total   float64
}

func newEdgeSampler() *edgeSampler {
	return &edgeSampler{index: make(map[moves.Edge]int)}
}

func (s *edgeSampler) weight(e moves.Edge) float64 {
	if i, ok := s.index[e]; ok {
		return s.weights[i]
	}
	return 0
}

func (s *edgeSampler) set(e moves.Edge, w float64) {
	if w <= 0 {
		s.remove(e)
		return
	}
	if i, ok := s.index[e]; ok {
		s.total += w - s.weights[i]
		s.weights[i] = w
		return
	}
	s.index[e] = len(s.edges)
	s.edges = append(s.edges, e)
	s.weights = append(s.weights, w)
	s.total += w
}

func (s *edgeSampler) remove(e moves.Edge) {
	i, ok := s.index[e]
	if !ok {
		return
	}
	s.total -= s.weights[i]
	last := len(s.edges) - 1
	s.edges[i] = s.edges[last]
	s.weights[i] = s.weights[last]
	s.index[s.edges[i]] = i
	s.edges = s.edges[:last]
	s.weights = s.weights[:last]
	delete(s.index, e)
}

func (s *edgeSampler) add(e moves.Edge, delta float64) {
	s.set(e, s.weight(e)+delta)
}

func (s *edgeSampler) sample(source *rng.Source) moves.Edge {
	return s.edges[source.Discrete(s.weights)]
}

func (s *edgeSampler) size() int { return len(s.edges) }

func (s *edgeSampler) rebuildFromGraph(g *multigraph.Graph) {
	s.edges = nil
	s.weights = nil
	s.index = make(map[moves.Edge]int)
	s.total = 0
	for _, e := range g.Edges() {
		s.set(moves.NewEdge(e.From, e.To), float64(e.Multiplicity))
	}
}

// symTerm is 0 for a self-loop, log(2) otherwise: choosing which of a
// non-loop edge's two endpoints becomes the fixed hinge halves the
// chance of proposing that particular oriented flip (spec.md §4.9's
// hinge-flip scenarios).
func symTerm(e moves.Edge) float64 {
	if e.U == e.V {
		return 0
	}
	return math.Ln2
}

// hingeEndpoints finds the vertex shared between e and ePrime (the
// fixed hinge), returning it along with the endpoint e loses and the
// endpoint ePrime gains. ok is false if the two edges share no vertex,
// which means m was not produced by a hinge-flip proposer.
func hingeEndpoints(e, ePrime moves.Edge) (hinge, old, newV int, ok bool) {
	switch {
	case e.U == ePrime.U:
		return e.U, e.V, ePrime.V, true
	case e.U == ePrime.V:
		return e.U, e.V, ePrime.U, true
	case e.V == ePrime.U:
		return e.V, e.U, ePrime.V, true
	case e.V == ePrime.V:
		return e.V, e.U, ePrime.U, true
	default:
		return -1, -1, -1, false
	}
}

// edgeBase holds the state every edge proposer needs: the graph it was
// set up with and the multiplicity-weighted sampler over its edges.
type edgeBase struct {
	graph *multigraph.Graph
	edges *edgeSampler
}

func newEdgeBase() edgeBase { return edgeBase{edges: newEdgeSampler()} }

func (b *edgeBase) setUpWithGraph(g *multigraph.Graph) {
	b.graph = g
	b.edges.rebuildFromGraph(g)
}

func (b *edgeBase) applyGraphMove(m moves.GraphMove) error {
	for _, e := range m.RemovedEdges {
		ce := moves.NewEdge(e.U, e.V)
		if b.edges.weight(ce) <= 0 {
			return fmt.Errorf("%w: no such edge to remove from sampler", prior.ErrInvalidMove)
		}
		b.edges.add(ce, -1)
	}
	for _, e := range m.AddedEdges {
		b.edges.add(moves.NewEdge(e.U, e.V), 1)
	}
	return nil
}

func (b *edgeBase) checkConsistency() error {
	for _, e := range b.graph.Edges() {
		ce := moves.NewEdge(e.From, e.To)
		if int(b.edges.weight(ce)) != e.Multiplicity {
			return fmt.Errorf("%w: edge sampler weight for (%d,%d) disagrees with graph multiplicity", prior.ErrConsistency, ce.U, ce.V)
		}
	}
	if b.edges.size() > 0 && int(b.edges.total) != b.graph.GetTotalEdgeNumber() {
		return fmt.Errorf("%w: edge sampler total weight disagrees with graph edge count", prior.ErrConsistency)
	}
	return nil
}

// randomVertexPair draws a uniform ordered pair among all valid
// canonical pairs (loops included iff the graph allows them), used by
// the single-edge-uniform proposer's "add" branch.
func (b *edgeBase) randomVertexPair(source *rng.Source) moves.Edge {
	n := b.graph.Size()
	u := source.UniformInt(0, n-1)
	lo := 0
	if !b.graph.AllowsLoops() {
		lo = 1
	}
	v := (u + source.UniformInt(lo, n-1)) % n
	return moves.NewEdge(u, v)
}

// SingleEdgeUniformProposer proposes to add a uniformly random vertex
// pair or remove a uniformly random existing edge, each with
// probability 1/2 (spec.md §4.9).
type SingleEdgeUniformProposer struct {
	edgeBase
}

// NewSingleEdgeUniformProposer returns a proposer with an empty index;
// call SetUpWithGraph before use.
func NewSingleEdgeUniformProposer() *SingleEdgeUniformProposer {
	return &SingleEdgeUniformProposer{edgeBase: newEdgeBase()}
}

func (p *SingleEdgeUniformProposer) SetUpWithGraph(g *multigraph.Graph) { p.setUpWithGraph(g) }
func (p *SingleEdgeUniformProposer) ApplyGraphMove(m moves.GraphMove) error {
	return p.applyGraphMove(m)
}
func (p *SingleEdgeUniformProposer) CheckConsistency() error { return p.checkConsistency() }

func (p *SingleEdgeUniformProposer) ProposeMove(source *rng.Source) moves.GraphMove {
	if source.UniformReal(0, 1) < 0.5 || p.edges.size() == 0 {
		return moves.GraphMove{AddedEdges: []moves.Edge{p.randomVertexPair(source)}}
	}
	return moves.GraphMove{RemovedEdges: []moves.Edge{p.edges.sample(source)}}
}

// GetLogProposalProbRatio implements spec.md §4.9's single-edge-uniform
// table, read against the sampler's state before the move is applied:
// an "add" move pays -log(1/2) (= +log2) only when it creates a
// previously-absent edge; a "remove" move pays log(1/2) (= -log2) only
// when it empties the edge's multiplicity.
func (p *SingleEdgeUniformProposer) GetLogProposalProbRatio(m moves.GraphMove) float64 {
	switch {
	case len(m.AddedEdges) == 1 && len(m.RemovedEdges) == 0:
		e := moves.NewEdge(m.AddedEdges[0].U, m.AddedEdges[0].V)
		if p.edges.weight(e) == 0 {
			return math.Ln2
		}
		return 0
	case len(m.RemovedEdges) == 1 && len(m.AddedEdges) == 0:
		e := moves.NewEdge(m.RemovedEdges[0].U, m.RemovedEdges[0].V)
		if p.edges.weight(e) <= 1 {
			return -math.Ln2
		}
		return 0
	default:
		return math.Inf(-1)
	}
}

// HingeFlipUniformProposer samples an existing edge weighted by
// multiplicity, then replaces one of its endpoints (chosen by a fair
// coin to be the fixed hinge) with a uniformly random vertex
// (spec.md §4.9).
type HingeFlipUniformProposer struct {
	edgeBase
}

func NewHingeFlipUniformProposer() *HingeFlipUniformProposer {
	return &HingeFlipUniformProposer{edgeBase: newEdgeBase()}
}

func (p *HingeFlipUniformProposer) SetUpWithGraph(g *multigraph.Graph) { p.setUpWithGraph(g) }
func (p *HingeFlipUniformProposer) ApplyGraphMove(m moves.GraphMove) error {
	return p.applyGraphMove(m)
}
func (p *HingeFlipUniformProposer) CheckConsistency() error { return p.checkConsistency() }

func (p *HingeFlipUniformProposer) ProposeMove(source *rng.Source) moves.GraphMove {
	e := p.edges.sample(source)
	hinge := e.U
	if source.UniformReal(0, 1) < 0.5 {
		hinge = e.V
	}
	w := source.UniformInt(0, p.graph.Size()-1)
	added := moves.NewEdge(hinge, w)
	return moves.GraphMove{RemovedEdges: []moves.Edge{e}, AddedEdges: []moves.Edge{added}}
}

// GetLogProposalProbRatio evaluates the closed form validated against
// spec.md §4.9/§8's worked scenarios: the ratio of the
// multiplicity the proposed edge will have after the move to the
// multiplicity the sampled edge had before it, corrected by the
// hinge-orientation factor on each side (0 for a self-loop, log(2)
// otherwise, since only a non-loop edge has two candidate hinges).
func (p *HingeFlipUniformProposer) GetLogProposalProbRatio(m moves.GraphMove) float64 {
	if len(m.RemovedEdges) != 1 || len(m.AddedEdges) != 1 {
		return math.Inf(-1)
	}
	e := moves.NewEdge(m.RemovedEdges[0].U, m.RemovedEdges[0].V)
	ePrime := moves.NewEdge(m.AddedEdges[0].U, m.AddedEdges[0].V)
	before := p.edges.weight(e)
	if before <= 0 {
		return math.Inf(-1)
	}
	var after float64
	if e == ePrime {
		after = before
	} else {
		after = p.edges.weight(ePrime) + 1
	}
	return math.Log(after) - math.Log(before) + symTerm(e) - symTerm(ePrime)
}

// HingeFlipDegreeProposer is HingeFlipUniformProposer's degree-biased
// counterpart: the replacement endpoint is sampled proportional to
// degree rather than uniformly (spec.md §4.9).
type HingeFlipDegreeProposer struct {
	edgeBase
	degrees *degreeSampler
}

func NewHingeFlipDegreeProposer() *HingeFlipDegreeProposer {
	return &HingeFlipDegreeProposer{edgeBase: newEdgeBase()}
}

func (p *HingeFlipDegreeProposer) SetUpWithGraph(g *multigraph.Graph) {
	p.setUpWithGraph(g)
	p.degrees = newDegreeSampler(g.Size())
	for v := 0; v < g.Size(); v++ {
		p.degrees.set(v, float64(g.Degree(v)))
	}
}

func (p *HingeFlipDegreeProposer) ApplyGraphMove(m moves.GraphMove) error {
	if err := p.applyGraphMove(m); err != nil {
		return err
	}
	p.shiftDegrees(m.RemovedEdges, -1)
	p.shiftDegrees(m.AddedEdges, 1)
	return nil
}

func (p *HingeFlipDegreeProposer) shiftDegrees(edges []moves.Edge, sign float64) {
	for _, e := range edges {
		if e.U == e.V {
			p.degrees.add(e.U, 2*sign)
		} else {
			p.degrees.add(e.U, sign)
			p.degrees.add(e.V, sign)
		}
	}
}

func (p *HingeFlipDegreeProposer) CheckConsistency() error {
	if err := p.checkConsistency(); err != nil {
		return err
	}
	for v := 0; v < p.graph.Size(); v++ {
		if int(p.degrees.weight(v)) != p.graph.Degree(v) {
			return fmt.Errorf("%w: degree sampler weight for vertex %d disagrees with graph degree", prior.ErrConsistency, v)
		}
	}
	return nil
}

func (p *HingeFlipDegreeProposer) ProposeMove(source *rng.Source) moves.GraphMove {
	e := p.edges.sample(source)
	hinge := e.U
	if source.UniformReal(0, 1) < 0.5 {
		hinge = e.V
	}
	w := p.degrees.sample(source)
	added := moves.NewEdge(hinge, w)
	return moves.GraphMove{RemovedEdges: []moves.Edge{e}, AddedEdges: []moves.Edge{added}}
}

// GetLogProposalProbRatio extends the uniform variant's edge-weight
// term with a degree-bias correction: the normalising sum of all
// degrees is invariant under a hinge flip (it cancels between forward
// and reverse), but the specific degrees of the replaced and
// replacing vertices do not, so the ratio picks up
// log(deg_after(old)) - log(deg_before(new)).
func (p *HingeFlipDegreeProposer) GetLogProposalProbRatio(m moves.GraphMove) float64 {
	if len(m.RemovedEdges) != 1 || len(m.AddedEdges) != 1 {
		return math.Inf(-1)
	}
	e := moves.NewEdge(m.RemovedEdges[0].U, m.RemovedEdges[0].V)
	ePrime := moves.NewEdge(m.AddedEdges[0].U, m.AddedEdges[0].V)
	before := p.edges.weight(e)
	if before <= 0 {
		return math.Inf(-1)
	}
	var after float64
	if e == ePrime {
		after = before
	} else {
		after = p.edges.weight(ePrime) + 1
	}
	ratio := math.Log(after) - math.Log(before) + symTerm(e) - symTerm(ePrime)

	_, old, newV, ok := hingeEndpoints(e, ePrime)
	if !ok || old == newV {
		return ratio
	}
	degBefore := p.degrees.weight(newV)
	p.shiftDegrees(m.RemovedEdges, -1)
	p.shiftDegrees(m.AddedEdges, 1)
	degAfter := p.degrees.weight(old)
	p.shiftDegrees(m.AddedEdges, -1)
	p.shiftDegrees(m.RemovedEdges, 1)
	return ratio + math.Log(degAfter) - math.Log(degBefore)
}

// DoubleEdgeSwapProposer samples two edges and swaps a pair of
// endpoints between them, preserving every vertex's degree exactly
// (spec.md §4.9). Which pairing of endpoints is swapped is chosen by a
// fair coin.
type DoubleEdgeSwapProposer struct {
	edgeBase
}

func NewDoubleEdgeSwapProposer() *DoubleEdgeSwapProposer {
	return &DoubleEdgeSwapProposer{edgeBase: newEdgeBase()}
}

func (p *DoubleEdgeSwapProposer) SetUpWithGraph(g *multigraph.Graph) { p.setUpWithGraph(g) }
func (p *DoubleEdgeSwapProposer) ApplyGraphMove(m moves.GraphMove) error {
	return p.applyGraphMove(m)
}
func (p *DoubleEdgeSwapProposer) CheckConsistency() error { return p.checkConsistency() }

func (p *DoubleEdgeSwapProposer) ProposeMove(source *rng.Source) moves.GraphMove {
	e1 := p.edges.sample(source)
	e2 := p.edges.sample(source)
	var n1, n2 moves.Edge
	if source.UniformReal(0, 1) < 0.5 {
		n1, n2 = moves.NewEdge(e1.U, e2.U), moves.NewEdge(e1.V, e2.V)
	} else {
		n1, n2 = moves.NewEdge(e1.U, e2.V), moves.NewEdge(e1.V, e2.U)
	}
	return moves.GraphMove{
		RemovedEdges: []moves.Edge{e1, e2},
		AddedEdges:   []moves.Edge{n1, n2},
	}
}

// GetLogProposalProbRatio generalises HingeFlipUniformProposer's
// closed form to two edges swapped independently (spec.md §9's open
// question on the double-edge-swap proposal ratio, resolved here by
// applying the uniform-over-edge-pairs rule to each swapped edge in
// turn): the two removed/added edges are paired by position, and the
// "after" multiplicities are measured by actually applying the move to
// the sampler and reverting, so overlapping edges (e.g. e1 and e2
// sharing an endpoint, or a proposed edge coinciding with one being
// removed) are accounted for correctly rather than assumed disjoint.
func (p *DoubleEdgeSwapProposer) GetLogProposalProbRatio(m moves.GraphMove) float64 {
	if len(m.RemovedEdges) != 2 || len(m.AddedEdges) != 2 {
		return math.Inf(-1)
	}
	r0 := moves.NewEdge(m.RemovedEdges[0].U, m.RemovedEdges[0].V)
	r1 := moves.NewEdge(m.RemovedEdges[1].U, m.RemovedEdges[1].V)
	a0 := moves.NewEdge(m.AddedEdges[0].U, m.AddedEdges[0].V)
	a1 := moves.NewEdge(m.AddedEdges[1].U, m.AddedEdges[1].V)
	before0, before1 := p.edges.weight(r0), p.edges.weight(r1)
	if before0 <= 0 || before1 <= 0 {
		return math.Inf(-1)
	}

	p.edges.add(r0, -1)
	p.edges.add(r1, -1)
	p.edges.add(a0, 1)
	p.edges.add(a1, 1)
	after0, after1 := p.edges.weight(a0), p.edges.weight(a1)
	p.edges.add(a0, -1)
	p.edges.add(a1, -1)
	p.edges.add(r0, 1)
	p.edges.add(r1, 1)

	return math.Log(after0) - math.Log(before0) + math.Log(after1) - math.Log(before1) +
		symTerm(r0) - symTerm(a0) + symTerm(r1) - symTerm(a1)
}

// degreeSampler is a fixed-size, vertex-indexed weighted sampler used
// by HingeFlipDegreeProposer: unlike edgeSampler's sparse edge set, the
// vertex set size never changes within a proposer's lifetime, so a
// plain slice suffices.
type degreeSampler struct {
	weights []float64
	total   float64
}

func newDegreeSampler(n int) *degreeSampler {
	return &degreeSampler{weights: make([]float64, n)}
}

func (d *degreeSampler) set(v int, w float64) {
	d.total += w - d.weights[v]
	d.weights[v] = w
}

func (d *degreeSampler) add(v int, delta float64) {
	d.weights[v] += delta
	d.total += delta
}

func (d *degreeSampler) weight(v int) float64 { return d.weights[v] }

func (d *degreeSampler) sample(source *rng.Source) int {
	return source.Discrete(d.weights)
}
