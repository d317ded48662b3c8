package prior

import (
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/numerics"
)

// LabelledDegree is the vertex-labelled counterpart of Degree: the same
// identities as C5, but stratified per block, with per-block (E_r, N_r)
// in place of (E, N) (spec.md §4.5 "Vertex-labelled variants"). Its
// parents are Block (for the partition) and LabelGraph (for per-block
// edge counts).
type LabelledDegree interface {
	LabelAware
	Sequence() []int
	LogLikelihood() float64
	ApplyGraphMove(m moves.GraphMove) error
}

func blockVertexCounts(partition []int, bCount int) []int {
	counts := make([]int, bCount)
	for _, lbl := range partition {
		counts[lbl]++
	}
	return counts
}

func perBlockDegreeCounts(graph *multigraph.Graph, partition []int, bCount int) []map[int]int {
	perBlock := make([]map[int]int, bCount)
	for r := range perBlock {
		perBlock[r] = make(map[int]int)
	}
	for v := 0; v < graph.Size(); v++ {
		r := partition[v]
		perBlock[r][graph.Degree(v)]++
	}
	return perBlock
}

// labelledDegreeBase holds the shared state for both stratified variants.
type labelledDegreeBase struct {
	graph      *multigraph.Graph
	block      Block
	labelGraph LabelGraph
}

func newLabelledDegreeBase(graph *multigraph.Graph, block Block, labelGraph LabelGraph) labelledDegreeBase {
	return labelledDegreeBase{graph: graph, block: block, labelGraph: labelGraph}
}

func (b *labelledDegreeBase) Sequence() []int { return degreeSequenceFromGraph(b.graph) }

// LabelledDegreeUniform scores the degree sequence as uniform within
// each block given that block's edge total (spec.md §4.5, Uniform
// variant stratified by block).
type LabelledDegreeUniform struct {
	labelledDegreeBase
}

// NewLabelledDegreeUniform returns a LabelledDegreeUniform prior.
func NewLabelledDegreeUniform(graph *multigraph.Graph, block Block, labelGraph LabelGraph) *LabelledDegreeUniform {
	return &LabelledDegreeUniform{labelledDegreeBase: newLabelledDegreeBase(graph, block, labelGraph)}
}

// LogLikelihood sums -log multisetCoef(N_r, 2*E_r) over every block.
func (p *LabelledDegreeUniform) LogLikelihood() float64 {
	bCount := p.labelGraph.BlockCount()
	partition := p.block.Partition()
	nPerBlock := blockVertexCounts(partition, bCount)
	edgeCounts := p.labelGraph.EdgeCounts()
	ll := 0.0
	for r := 0; r < bCount; r++ {
		if nPerBlock[r] == 0 {
			continue
		}
		ll -= numerics.LogMultisetCoefficient(nPerBlock[r], edgeCounts[r])
	}
	return ll
}
func (p *LabelledDegreeUniform) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 {
		return p.LogLikelihood() + p.block.GetLogJoint(visited) + p.labelGraph.GetLogJoint(visited)
	})
}
func (p *LabelledDegreeUniform) ApplyGraphMove(m moves.GraphMove) error { return nil }
func (p *LabelledDegreeUniform) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		if err := p.labelGraph.ApplyGraphMove(m); err != nil {
			return p.block.GetLogJointRatioFromGraphMove(visited, m) + p.labelGraph.GetLogJointRatioFromGraphMove(visited, m)
		}
		after := p.LogLikelihood()
		inv := moves.GraphMove{RemovedEdges: m.AddedEdges, AddedEdges: m.RemovedEdges}
		_ = p.labelGraph.ApplyGraphMove(inv)
		return (after - before) + p.block.GetLogJointRatioFromGraphMove(visited, m) + p.labelGraph.GetLogJointRatioFromGraphMove(visited, m)
	})
}
func (p *LabelledDegreeUniform) ApplyLabelMove(m moves.LabelMove) error { return nil }
func (p *LabelledDegreeUniform) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		if err := p.labelGraph.ApplyLabelMove(m); err != nil {
			return p.block.GetLogJointRatioFromLabelMove(visited, m) + p.labelGraph.GetLogJointRatioFromLabelMove(visited, m)
		}
		after := p.LogLikelihood()
		_ = p.labelGraph.ApplyLabelMove(m.Inverse())
		return (after - before) + p.block.GetLogJointRatioFromLabelMove(visited, m) + p.labelGraph.GetLogJointRatioFromLabelMove(visited, m)
	})
}

// LabelledDegreeUniformHyper draws the per-block degree-count multiset
// then a uniform assignment within each block (spec.md §4.5, Uniform
// hyper variant stratified by block).
type LabelledDegreeUniformHyper struct {
	labelledDegreeBase
}

// NewLabelledDegreeUniformHyper returns a LabelledDegreeUniformHyper prior.
func NewLabelledDegreeUniformHyper(graph *multigraph.Graph, block Block, labelGraph LabelGraph) *LabelledDegreeUniformHyper {
	return &LabelledDegreeUniformHyper{labelledDegreeBase: newLabelledDegreeBase(graph, block, labelGraph)}
}

// LogLikelihood sums, per block r, -log multinomial(degree counts in r)
// - log q(2*E_r, N_r).
func (p *LabelledDegreeUniformHyper) LogLikelihood() float64 {
	bCount := p.labelGraph.BlockCount()
	partition := p.block.Partition()
	nPerBlock := blockVertexCounts(partition, bCount)
	edgeCounts := p.labelGraph.EdgeCounts()
	perBlockDegree := perBlockDegreeCounts(p.graph, partition, bCount)
	ll := 0.0
	for r := 0; r < bCount; r++ {
		if nPerBlock[r] == 0 {
			continue
		}
		values := make([]int, 0, len(perBlockDegree[r]))
		for _, c := range perBlockDegree[r] {
			values = append(values, c)
		}
		ll -= numerics.LogMultinomialCoefficient(nPerBlock[r], values)
		ll -= numerics.LogQ(edgeCounts[r], nPerBlock[r])
	}
	return ll
}
func (p *LabelledDegreeUniformHyper) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 {
		return p.LogLikelihood() + p.block.GetLogJoint(visited) + p.labelGraph.GetLogJoint(visited)
	})
}
func (p *LabelledDegreeUniformHyper) ApplyGraphMove(m moves.GraphMove) error { return nil }
func (p *LabelledDegreeUniformHyper) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		if err := p.labelGraph.ApplyGraphMove(m); err != nil {
			return p.block.GetLogJointRatioFromGraphMove(visited, m) + p.labelGraph.GetLogJointRatioFromGraphMove(visited, m)
		}
		after := p.LogLikelihood()
		inv := moves.GraphMove{RemovedEdges: m.AddedEdges, AddedEdges: m.RemovedEdges}
		_ = p.labelGraph.ApplyGraphMove(inv)
		return (after - before) + p.block.GetLogJointRatioFromGraphMove(visited, m) + p.labelGraph.GetLogJointRatioFromGraphMove(visited, m)
	})
}
func (p *LabelledDegreeUniformHyper) ApplyLabelMove(m moves.LabelMove) error { return nil }
func (p *LabelledDegreeUniformHyper) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		if err := p.labelGraph.ApplyLabelMove(m); err != nil {
			return p.block.GetLogJointRatioFromLabelMove(visited, m) + p.labelGraph.GetLogJointRatioFromLabelMove(visited, m)
		}
		after := p.LogLikelihood()
		_ = p.labelGraph.ApplyLabelMove(m.Inverse())
		return (after - before) + p.block.GetLogJointRatioFromLabelMove(visited, m) + p.labelGraph.GetLogJointRatioFromLabelMove(visited, m)
	})
}
