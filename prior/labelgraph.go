package prior

import (
	"fmt"
	"math"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/numerics"
	"gonum.org/v1/gonum/mat"
)

// LabelGraph is the C4 label-graph prior: the multigraph L on blocks
// where L(r,s) is the total edge count between blocks r and s in the
// underlying graph (spec.md §4.4). Its parents are the Block prior
// (supplying b) and the EdgeCount prior (supplying E).
type LabelGraph interface {
	LabelAware
	BlockCount() int
	Matrix() *mat.SymDense
	EdgeCounts() []int
	RecomputeStateFromGraph()
	ApplyGraphMove(m moves.GraphMove) error
}

// labelMatrix is a resizable symmetric dense matrix; gonum's
// mat.SymDense is fixed-size at construction, so a block-count change
// reallocates and copies the overlapping block.
type labelMatrix struct {
	b    int
	data *mat.SymDense
}

func newLabelMatrix(b int) *labelMatrix {
	if b < 1 {
		b = 1
	}
	return &labelMatrix{b: b, data: mat.NewSymDense(b, nil)}
}

func (m *labelMatrix) at(r, s int) float64 { return m.data.At(r, s) }

func (m *labelMatrix) add(r, s int, delta float64) {
	m.data.SetSym(r, s, m.data.At(r, s)+delta)
}

func (m *labelMatrix) resize(newB int) {
	if newB < 1 {
		newB = 1
	}
	nd := mat.NewSymDense(newB, nil)
	minB := m.b
	if newB < minB {
		minB = newB
	}
	for r := 0; r < minB; r++ {
		for s := r; s < minB; s++ {
			nd.SetSym(r, s, m.data.At(r, s))
		}
	}
	m.data = nd
	m.b = newB
}

// labelGraphBase holds the state and parent references shared by every
// LabelGraph variant.
type labelGraphBase struct {
	graph      *multigraph.Graph
	block      Block
	edgeCount  EdgeCount
	matrix     *labelMatrix
	edgeCounts []int
}

func newLabelGraphBase(graph *multigraph.Graph, block Block, edgeCount EdgeCount) labelGraphBase {
	b := labelGraphBase{graph: graph, block: block, edgeCount: edgeCount}
	b.RecomputeStateFromGraph()
	return b
}

func (b *labelGraphBase) BlockCount() int       { return b.matrix.b }
func (b *labelGraphBase) Matrix() *mat.SymDense { return b.matrix.data }
func (b *labelGraphBase) EdgeCounts() []int     { return append([]int(nil), b.edgeCounts...) }

// RecomputeStateFromGraph rebuilds L and edgeCounts from scratch by
// iterating the underlying graph's edges (spec.md §4.4
// "recomputeStateFromGraph").
func (b *labelGraphBase) RecomputeStateFromGraph() {
	bCount := b.block.MaxBlockCount()
	if bCount < 1 {
		bCount = 1
	}
	b.matrix = newLabelMatrix(bCount)
	partition := b.block.Partition()
	for _, e := range b.graph.Edges() {
		r, s := partition[e.From], partition[e.To]
		b.matrix.add(r, s, float64(e.Multiplicity))
	}
	b.edgeCounts = make([]int, bCount)
	for r := 0; r < bCount; r++ {
		sum := 0.0
		for s := 0; s < bCount; s++ {
			sum += b.matrix.at(r, s)
		}
		sum += b.matrix.at(r, r)
		b.edgeCounts[r] = int(sum)
	}
}

// applyLabelMoveToState implements spec.md §4.4's
// "applyLabelMoveToState": shifts edgeCounts and every affected L(r,t)
// entry by the moved vertex's neighbour multiplicities.
func (b *labelGraphBase) applyLabelMoveToState(m moves.LabelMove) {
	if m.AddedLabels == 1 {
		b.matrix.resize(b.matrix.b + 1)
		b.edgeCounts = append(b.edgeCounts, 0)
	}
	r, s, v := m.PrevLabel, m.NextLabel, m.Vertex
	deg := b.graph.Degree(v)
	b.edgeCounts[r] -= deg
	b.edgeCounts[s] += deg
	for _, w := range b.graph.OutNeighbours(v) {
		mult := b.graph.EdgeMultiplicity(v, w)
		t := b.block.Partition()[w]
		removeT, insertT := t, t
		if w == v {
			removeT, insertT = r, s
		}
		b.matrix.add(r, removeT, -float64(mult))
		b.matrix.add(s, insertT, float64(mult))
	}
	if m.AddedLabels == -1 {
		b.matrix.resize(b.matrix.b - 1)
		b.edgeCounts = b.edgeCounts[:len(b.edgeCounts)-1]
	}
}

// applyGraphMoveToState implements spec.md §4.4's graph-move update:
// +-1 to L(b(u),b(v)) per added/removed edge, and to both endpoints'
// edgeCounts.
func (b *labelGraphBase) applyGraphMoveToState(m moves.GraphMove) {
	partition := b.block.Partition()
	for _, e := range m.AddedEdges {
		r, s := partition[e.U], partition[e.V]
		b.matrix.add(r, s, 1)
		b.edgeCounts[r]++
		b.edgeCounts[s]++
	}
	for _, e := range m.RemovedEdges {
		r, s := partition[e.U], partition[e.V]
		b.matrix.add(r, s, -1)
		b.edgeCounts[r]--
		b.edgeCounts[s]--
	}
}

func effectiveBlockCount(edgeCounts []int) int {
	n := 0
	for _, c := range edgeCounts {
		if c > 0 {
			n++
		}
	}
	if n == 0 {
		return len(edgeCounts)
	}
	return n
}

// LabelGraphErdosRenyi scores L as uniform over all B_eff(B_eff+1)/2
// choose-with-repetition block-pair configurations summing to E
// (spec.md §4.4).
type LabelGraphErdosRenyi struct {
	labelGraphBase
}

// NewLabelGraphErdosRenyi returns a LabelGraphErdosRenyi prior over the
// given graph, block partition, and edge-count parent.
func NewLabelGraphErdosRenyi(graph *multigraph.Graph, block Block, edgeCount EdgeCount) *LabelGraphErdosRenyi {
	return &LabelGraphErdosRenyi{labelGraphBase: newLabelGraphBase(graph, block, edgeCount)}
}

// LogLikelihood returns -log multisetCoef(B_eff(B_eff+1)/2, E)
// (spec.md §4.4).
func (p *LabelGraphErdosRenyi) LogLikelihood() float64 {
	bEff := effectiveBlockCount(p.edgeCounts)
	pairs := bEff * (bEff + 1) / 2
	e := p.edgeCount.State()
	return -numerics.LogMultisetCoefficient(pairs, e)
}
func (p *LabelGraphErdosRenyi) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 {
		return p.LogLikelihood() + p.block.GetLogJoint(visited) + p.edgeCount.GetLogJoint(visited)
	})
}
func (p *LabelGraphErdosRenyi) ApplyGraphMove(m moves.GraphMove) error {
	p.applyGraphMoveToState(m)
	return nil
}
func (p *LabelGraphErdosRenyi) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		e, err := p.edgeCount.StateAfterGraphMove(m)
		if err != nil {
			return math.Inf(-1)
		}
		before := p.LogLikelihood()
		snapshot := append([]int(nil), p.edgeCounts...)
		p.applyGraphMoveToState(m)
		bEff := effectiveBlockCount(p.edgeCounts)
		after := -numerics.LogMultisetCoefficient(bEff*(bEff+1)/2, e)
		p.edgeCounts = snapshot
		p.RecomputeStateFromGraph()
		return (after - before) + p.block.GetLogJointRatioFromGraphMove(visited, m) + p.edgeCount.GetLogJointRatioFromGraphMove(visited, m)
	})
}
func (p *LabelGraphErdosRenyi) ApplyLabelMove(m moves.LabelMove) error {
	p.applyLabelMoveToState(m)
	return nil
}
func (p *LabelGraphErdosRenyi) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		p.applyLabelMoveToState(m)
		after := p.LogLikelihood()
		p.RecomputeStateFromGraph()
		return (after - before) + p.block.GetLogJointRatioFromLabelMove(visited, m)
	})
}

// LabelGraphPlantedPartition distinguishes within-block from
// across-block edge totals, biasing toward assortative (or
// disassortative) community structure (spec.md §4.4).
type LabelGraphPlantedPartition struct {
	labelGraphBase
}

// NewLabelGraphPlantedPartition returns a LabelGraphPlantedPartition
// prior over the given graph, block partition, and edge-count parent.
func NewLabelGraphPlantedPartition(graph *multigraph.Graph, block Block, edgeCount EdgeCount) *LabelGraphPlantedPartition {
	return &LabelGraphPlantedPartition{labelGraphBase: newLabelGraphBase(graph, block, edgeCount)}
}

func (p *LabelGraphPlantedPartition) withinAcross() (eIn, eAcross int) {
	b := p.matrix.b
	for r := 0; r < b; r++ {
		for s := r; s < b; s++ {
			v := int(p.matrix.at(r, s))
			if r == s {
				eIn += v
			} else {
				eAcross += v
			}
		}
	}
	return
}

// LogLikelihood implements spec.md §4.4's planted-partition identity.
func (p *LabelGraphPlantedPartition) LogLikelihood() float64 {
	eIn, eOut := p.withinAcross()
	bEff := effectiveBlockCount(p.edgeCounts)
	e := p.edgeCount.State()
	ll := numerics.LogFactorial(eIn) + numerics.LogFactorial(eOut) - float64(eIn)*math.Log(float64(bEff))
	if bEff > 1 {
		ll -= float64(eOut)*math.Log(float64(bEff*(bEff-1))/2) + math.Log(float64(e+1))
	}
	for r := 0; r < p.matrix.b; r++ {
		for s := r; s < p.matrix.b; s++ {
			ll -= numerics.LogFactorial(int(p.matrix.at(r, s)))
		}
	}
	return ll
}
func (p *LabelGraphPlantedPartition) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 {
		return p.LogLikelihood() + p.block.GetLogJoint(visited) + p.edgeCount.GetLogJoint(visited)
	})
}
func (p *LabelGraphPlantedPartition) ApplyGraphMove(m moves.GraphMove) error {
	p.applyGraphMoveToState(m)
	return nil
}
func (p *LabelGraphPlantedPartition) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		eNext, err := p.edgeCount.StateAfterGraphMove(m)
		if err != nil {
			return math.Inf(-1)
		}
		e := p.edgeCount.State()
		before := p.LogLikelihood()
		p.applyGraphMoveToState(m)
		after := p.LogLikelihood()
		if effectiveBlockCount(p.edgeCounts) > 1 {
			// LogLikelihood read the pre-move E; swap in the post-move one
			after += math.Log(float64(e+1)) - math.Log(float64(eNext+1))
		}
		p.RecomputeStateFromGraph()
		return (after - before) + p.block.GetLogJointRatioFromGraphMove(visited, m) + p.edgeCount.GetLogJointRatioFromGraphMove(visited, m)
	})
}
func (p *LabelGraphPlantedPartition) ApplyLabelMove(m moves.LabelMove) error {
	p.applyLabelMoveToState(m)
	return nil
}
func (p *LabelGraphPlantedPartition) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		p.applyLabelMoveToState(m)
		after := p.LogLikelihood()
		p.RecomputeStateFromGraph()
		return (after - before) + p.block.GetLogJointRatioFromLabelMove(visited, m)
	})
}

// LabelGraphDelta fixes L to a given matrix, used when the block
// structure is observed rather than latent (spec.md §4.4 Delta, by
// analogy with the other C2-C5 Delta variants).
type LabelGraphDelta struct {
	labelGraphBase
	fixed *mat.SymDense
}

// NewLabelGraphDelta returns a LabelGraphDelta fixed at the given
// matrix; the graph and partition are still used to validate
// consistency, but never to resample L.
func NewLabelGraphDelta(graph *multigraph.Graph, block Block, edgeCount EdgeCount, fixed *mat.SymDense) *LabelGraphDelta {
	p := &LabelGraphDelta{labelGraphBase: newLabelGraphBase(graph, block, edgeCount), fixed: fixed}
	return p
}

func (p *LabelGraphDelta) LogLikelihood() float64 {
	b := p.matrix.b
	for r := 0; r < b; r++ {
		for s := r; s < b; s++ {
			if math.Abs(p.matrix.at(r, s)-p.fixed.At(r, s)) > 1e-9 {
				return math.Inf(-1)
			}
		}
	}
	return 0
}
func (p *LabelGraphDelta) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 {
		return p.LogLikelihood() + p.block.GetLogJoint(visited) + p.edgeCount.GetLogJoint(visited)
	})
}
func (p *LabelGraphDelta) ApplyGraphMove(m moves.GraphMove) error {
	p.applyGraphMoveToState(m)
	return nil
}
func (p *LabelGraphDelta) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		p.applyGraphMoveToState(m)
		after := p.LogLikelihood()
		p.RecomputeStateFromGraph()
		return after
	})
}
func (p *LabelGraphDelta) ApplyLabelMove(m moves.LabelMove) error {
	return fmt.Errorf("%w: LabelGraphDelta.ApplyLabelMove", ErrDepletedMethod)
}
func (p *LabelGraphDelta) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 { return math.Inf(-1) })
}
