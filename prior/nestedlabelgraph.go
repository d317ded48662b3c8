package prior

import (
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/numerics"
	"gonum.org/v1/gonum/mat"
)

// NestedLabelGraph is the nested counterpart of LabelGraph: one label
// graph per level, L^(l+1) being the label graph of L^(l) under
// b^(l+1) (spec.md §3 "Nested" / §4.4). Level 0 is built from the
// underlying graph; each subsequent level treats the previous level's
// label graph as its own underlying multigraph.
type NestedLabelGraph interface {
	LabelAware
	BlockCountAtLevel(level int) int
	MatrixAtLevel(level int) *mat.SymDense
	Depth() int
	RecomputeStateFromGraph()
}

// NestedLabelGraphErdosRenyi scores every level independently with the
// Erdos-Renyi label-graph identity (spec.md §4.4), recursing downward
// so that level l's likelihood is conditioned on level l-1's label
// graph playing the role of "the graph".
type NestedLabelGraphErdosRenyi struct {
	graph      *multigraph.Graph
	nestedBlk  NestedBlock
	edgeCount  EdgeCount
	levels     []*labelMatrix
	edgeCounts [][]int
}

// NewNestedLabelGraphErdosRenyi returns a NestedLabelGraphErdosRenyi
// prior over graph, the given NestedBlock partition stack, and the
// root EdgeCount parent.
func NewNestedLabelGraphErdosRenyi(graph *multigraph.Graph, nestedBlk NestedBlock, edgeCount EdgeCount) *NestedLabelGraphErdosRenyi {
	p := &NestedLabelGraphErdosRenyi{graph: graph, nestedBlk: nestedBlk, edgeCount: edgeCount}
	p.RecomputeStateFromGraph()
	return p
}

func (p *NestedLabelGraphErdosRenyi) Depth() int { return len(p.levels) }
func (p *NestedLabelGraphErdosRenyi) BlockCountAtLevel(level int) int {
	return p.levels[level].b
}
func (p *NestedLabelGraphErdosRenyi) MatrixAtLevel(level int) *mat.SymDense {
	return p.levels[level].data
}

// RecomputeStateFromGraph rebuilds every level bottom-up: level 0 from
// the underlying graph and the level-0 partition, level l>0 from level
// l-1's matrix treated as a weighted multigraph and the level-l partition.
func (p *NestedLabelGraphErdosRenyi) RecomputeStateFromGraph() {
	depth := p.nestedBlk.Depth()
	p.levels = make([]*labelMatrix, depth)
	p.edgeCounts = make([][]int, depth)

	partition0 := p.nestedBlk.PartitionAtLevel(0)
	b0 := 0
	for _, lbl := range partition0 {
		if lbl+1 > b0 {
			b0 = lbl + 1
		}
	}
	p.levels[0] = newLabelMatrix(b0)
	for _, e := range p.graph.Edges() {
		r, s := partition0[e.From], partition0[e.To]
		p.levels[0].add(r, s, float64(e.Multiplicity))
	}
	p.edgeCounts[0] = blockEdgeCountsFromMatrix(p.levels[0])

	for l := 1; l < depth; l++ {
		partition := p.nestedBlk.PartitionAtLevel(l)
		bl := 0
		for _, lbl := range partition {
			if lbl+1 > bl {
				bl = lbl + 1
			}
		}
		p.levels[l] = newLabelMatrix(bl)
		prev := p.levels[l-1]
		for r := 0; r < prev.b; r++ {
			for s := r; s < prev.b; s++ {
				m := prev.at(r, s)
				if m == 0 {
					continue
				}
				p.levels[l].add(partition[r], partition[s], m)
			}
		}
		p.edgeCounts[l] = blockEdgeCountsFromMatrix(p.levels[l])
	}
}

func blockEdgeCountsFromMatrix(m *labelMatrix) []int {
	counts := make([]int, m.b)
	for r := 0; r < m.b; r++ {
		sum := 0.0
		for s := 0; s < m.b; s++ {
			sum += m.at(r, s)
		}
		sum += m.at(r, r)
		counts[r] = int(sum)
	}
	return counts
}

func (p *NestedLabelGraphErdosRenyi) levelLogLikelihood(level int) float64 {
	m := p.levels[level]
	bEff := effectiveBlockCount(p.edgeCounts[level])
	pairs := bEff * (bEff + 1) / 2
	e := 0
	for r := 0; r < m.b; r++ {
		for s := r; s < m.b; s++ {
			e += int(m.at(r, s))
		}
	}
	return -numerics.LogMultisetCoefficient(pairs, e)
}

// LogLikelihood sums the Erdos-Renyi label-graph identity over every
// level.
func (p *NestedLabelGraphErdosRenyi) LogLikelihood() float64 {
	ll := 0.0
	for l := range p.levels {
		ll += p.levelLogLikelihood(l)
	}
	return ll
}
func (p *NestedLabelGraphErdosRenyi) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 {
		return p.LogLikelihood() + p.nestedBlk.GetLogJoint(visited) + p.edgeCount.GetLogJoint(visited)
	})
}
func (p *NestedLabelGraphErdosRenyi) ApplyGraphMove(m moves.GraphMove) error {
	p.RecomputeStateFromGraph()
	return nil
}
func (p *NestedLabelGraphErdosRenyi) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		backup := p.levels
		backupCounts := p.edgeCounts
		p.RecomputeStateFromGraph()
		after := p.LogLikelihood()
		p.levels = backup
		p.edgeCounts = backupCounts
		return (after - before) + p.nestedBlk.GetLogJointRatioFromGraphMove(visited, m) + p.edgeCount.GetLogJointRatioFromGraphMove(visited, m)
	})
}
func (p *NestedLabelGraphErdosRenyi) ApplyLabelMove(m moves.LabelMove) error {
	p.RecomputeStateFromGraph()
	return nil
}

// GetLogJointRatioFromLabelMove recomputes every level from scratch
// (a single label move can ripple through every coarser level's
// induced label graph, so there is no cheaper local update here).
func (p *NestedLabelGraphErdosRenyi) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		backup := p.levels
		backupCounts := p.edgeCounts
		p.RecomputeStateFromGraph()
		after := p.LogLikelihood()
		p.levels = backup
		p.edgeCounts = backupCounts
		return (after - before) + p.nestedBlk.GetLogJointRatioFromLabelMove(visited, m)
	})
}
