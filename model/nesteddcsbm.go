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

// NestedDegreeCorrectedSBMFamily is the nested counterpart of
// DegreeCorrectedSBMFamily: the same level-0-stratified degree
// correction, but the block structure above level 0 is a full nested
// stack rather than a single partition (spec.md §4.8). It is built by
// wrapping the level-0 slice of the nested block/label-graph priors in
// the nestedBlockLevel0/nestedLabelGraphLevel0 adapters and handing
// those to the same prior.LabelledDegree variants DegreeCorrectedSBMFamily
// uses directly.
type NestedDegreeCorrectedSBMFamily struct {
	cfg           config
	n             int
	graph         *multigraph.Graph
	blockCount    *prior.NestedBlockCount
	nestedBlock   prior.NestedBlock
	edgeCount     prior.EdgeCount
	nestedLabel   *prior.NestedLabelGraphErdosRenyi
	degree        prior.LabelledDegree
	degreeVariant DegreeCorrectedDegreeVariant
}

// NewNestedDegreeCorrectedSBMFamily returns a
// NestedDegreeCorrectedSBMFamily over n vertices with a
// Poisson(edgeMean) edge-count prior.
func NewNestedDegreeCorrectedSBMFamily(n int, edgeMean float64, blockVariant BlockVariant, degreeVariant DegreeCorrectedDegreeVariant, opts ...Option) *NestedDegreeCorrectedSBMFamily {
	cfg := newConfig(opts...)
	graph := multigraph.NewGraph(n, multigraph.WithLoops())
	bc := prior.NewNestedBlockCount(n)
	bc.SetNestedState([]int{n, 1})
	var nb prior.NestedBlock
	switch blockVariant {
	case BlockVariantUniformHyper:
		nb = prior.NewNestedBlockUniformHyper(n, bc)
	default:
		nb = prior.NewNestedBlockUniform(n, bc)
	}
	ec := prior.NewEdgeCountPoisson(edgeMean)
	nlg := prior.NewNestedLabelGraphErdosRenyi(graph, nb, ec)

	blockAdapter := &nestedBlockLevel0{nb: nb}
	labelGraphAdapter := &nestedLabelGraphLevel0{nlg: nlg}
	var degree prior.LabelledDegree
	switch degreeVariant {
	case DegreeCorrectedUniformHyper:
		degree = prior.NewLabelledDegreeUniformHyper(graph, blockAdapter, labelGraphAdapter)
	default:
		degree = prior.NewLabelledDegreeUniform(graph, blockAdapter, labelGraphAdapter)
	}

	return &NestedDegreeCorrectedSBMFamily{
		cfg: cfg, n: n, graph: graph,
		blockCount: bc, nestedBlock: nb, edgeCount: ec, nestedLabel: nlg, degree: degree,
		degreeVariant: degreeVariant,
	}
}

func (m *NestedDegreeCorrectedSBMFamily) Graph() *multigraph.Graph { return m.graph }
func (m *NestedDegreeCorrectedSBMFamily) GetDepth() int            { return m.blockCount.Depth() }
func (m *NestedDegreeCorrectedSBMFamily) GetNestedLabel(v, level int) int {
	return m.nestedBlock.PartitionAtLevel(level)[v]
}

// NestedLabels, NestedLabelCount, NestedVertexCount, NestedLabelMatrixValue
// and NestedLabelDegree expose per-level block/label-graph state a nested
// label proposer (C10) needs, mirroring NestedStochasticBlockModelFamily.
func (m *NestedDegreeCorrectedSBMFamily) NestedLabels(level int) []int {
	return m.nestedBlock.PartitionAtLevel(level)
}
func (m *NestedDegreeCorrectedSBMFamily) NestedLabelCount(level int) int {
	return m.nestedLabel.BlockCountAtLevel(level)
}
func (m *NestedDegreeCorrectedSBMFamily) NestedVertexCount(level, label int) int {
	count := 0
	for _, lbl := range m.nestedBlock.PartitionAtLevel(level) {
		if lbl == label {
			count++
		}
	}
	return count
}
func (m *NestedDegreeCorrectedSBMFamily) NestedLabelMatrixValue(level, r, s int) int {
	return int(m.nestedLabel.MatrixAtLevel(level).At(r, s))
}
func (m *NestedDegreeCorrectedSBMFamily) NestedLabelDegree(level, r int) int {
	mat := m.nestedLabel.MatrixAtLevel(level)
	b, _ := mat.Dims()
	sum := mat.At(r, r)
	for s := 0; s < b; s++ {
		if s != r {
			sum += mat.At(r, s)
		}
	}
	return int(sum)
}

func (m *NestedDegreeCorrectedSBMFamily) SetNestedLabels(bs [][]int, reduce bool) error {
	if err := m.nestedBlock.SetNestedPartition(bs, reduce); err != nil {
		return err
	}
	nested := make([]int, len(bs))
	for l, part := range m.nestedBlock.NestedPartition() {
		max := -1
		for _, lbl := range part {
			if lbl > max {
				max = lbl
			}
		}
		nested[l] = max + 1
	}
	m.blockCount.SetNestedState(nested)
	m.nestedLabel.RecomputeStateFromGraph()
	return nil
}

func (m *NestedDegreeCorrectedSBMFamily) SampleOnlyLabels(source *rng.Source) {
	m.blockCount.Sample(source)
	m.nestedBlock.Sample(source)
	m.nestedLabel.RecomputeStateFromGraph()
}

func (m *NestedDegreeCorrectedSBMFamily) ReduceLabels() {
	partitions := m.nestedBlock.NestedPartition()
	reduced := make([][]int, len(partitions))
	for l, part := range partitions {
		reduced[l] = prior.ReducePartition(part)
	}
	_ = m.SetNestedLabels(reduced, false)
}

// Sample draws the nested block-count vector, every level's partition,
// E, a level-0 label graph, per-block degree sequences, and finally a
// multigraph realising all of it (spec.md §4.1, §4.6 "DC-SBM").
func (m *NestedDegreeCorrectedSBMFamily) Sample(source *rng.Source) {
	m.blockCount.Sample(source)
	m.nestedBlock.Sample(source)
	m.edgeCount.Sample(source)
	b0 := m.blockCount.StateAtLevel(0)
	lgMatrix := sampleLabelGraphMatrix(source, b0, m.edgeCount.State(), LabelGraphErdosRenyi)

	partition := m.nestedBlock.PartitionAtLevel(0)
	byBlock := make(map[int][]int)
	for v, lbl := range partition {
		byBlock[lbl] = append(byBlock[lbl], v)
	}
	edgeCounts := make([]int, b0)
	for r := 0; r < b0; r++ {
		sum := lgMatrix.At(r, r)
		for s := 0; s < b0; s++ {
			if s != r {
				sum += lgMatrix.At(r, s)
			}
		}
		edgeCounts[r] = int(sum)
	}
	degrees := make([]int, m.n)
	for r := 0; r < b0; r++ {
		verts := byBlock[r]
		seq := sampleBlockDegreeSequence(source, len(verts), edgeCounts[r], m.degreeVariant)
		for i, v := range verts {
			degrees[v] = seq[i]
		}
	}

	sampled := generator.SampleDCSBM(source, partition, degrees, lgMatrix)
	copyGraphInto(m.graph, sampled)
	m.nestedLabel.RecomputeStateFromGraph()
}

func (m *NestedDegreeCorrectedSBMFamily) likelihoodFromState() float64 {
	return likelihood.DCSBM(m.graph, recomputeDegreeSequence(m.graph))
}

func (m *NestedDegreeCorrectedSBMFamily) GetLogLikelihood() float64 { return m.likelihoodFromState() }
func (m *NestedDegreeCorrectedSBMFamily) GetLogPrior() float64 {
	return m.degree.GetLogJoint(prior.NewVisitSet())
}
func (m *NestedDegreeCorrectedSBMFamily) GetLogJoint() float64 {
	return m.GetLogLikelihood() + m.GetLogPrior()
}

func (m *NestedDegreeCorrectedSBMFamily) ApplyGraphMove(move moves.GraphMove) error {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return err
	}
	if err := m.edgeCount.ApplyGraphMove(move); err != nil {
		return err
	}
	return m.nestedLabel.ApplyGraphMove(move)
}

func (m *NestedDegreeCorrectedSBMFamily) GetLogLikelihoodRatioFromGraphMove(move moves.GraphMove) float64 {
	before := m.likelihoodFromState()
	origGraph := m.graph
	m.graph = m.graph.Clone()
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		m.graph = origGraph
		return negInf
	}
	after := m.likelihoodFromState()
	m.graph = origGraph
	return after - before
}
// GetLogPriorRatioFromGraphMove mutates the owned graph in place before
// delegating: the nested label-graph adapter beneath m.degree folds its
// ApplyGraphMove into a full RecomputeStateFromGraph against this same
// graph object, so the move must already be visible on it.
func (m *NestedDegreeCorrectedSBMFamily) GetLogPriorRatioFromGraphMove(move moves.GraphMove) float64 {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return negInf
	}
	ratio := m.degree.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), move)
	_ = applyGraphMoveToGraph(m.graph, move.Inverse())
	return ratio
}
func (m *NestedDegreeCorrectedSBMFamily) GetLogJointRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.GetLogLikelihoodRatioFromGraphMove(move) + m.GetLogPriorRatioFromGraphMove(move)
}

func (m *NestedDegreeCorrectedSBMFamily) ApplyLabelMove(move moves.LabelMove) error {
	if move.Level < 0 || move.Level >= m.blockCount.Depth() {
		return fmt.Errorf("%w: label move level out of range", prior.ErrInvalidMove)
	}
	if move.AddedLabels != 0 {
		m.blockCount.SetLevelState(move.Level, m.blockCount.StateAtLevel(move.Level)+move.AddedLabels)
	}
	if err := m.nestedBlock.ApplyLabelMove(move); err != nil {
		return err
	}
	return m.nestedLabel.ApplyLabelMove(move)
}

func (m *NestedDegreeCorrectedSBMFamily) GetLogLikelihoodRatioFromLabelMove(move moves.LabelMove) float64 {
	return 0 // a label move alone never changes the observed graph or its degree sequence
}

// GetLogPriorRatioFromLabelMove measures m.degree's joint directly
// before and after applying move to the real nested-block partition,
// rather than delegating to LabelledDegreeUniform.GetLogJointRatioFromLabelMove:
// that method's internal before/after pair both read through the
// nested label-graph adapter's RecomputeStateFromGraph, which in turn
// reads m.nestedBlock's partition, so it only sees the move once the
// partition itself has actually moved.
func (m *NestedDegreeCorrectedSBMFamily) GetLogPriorRatioFromLabelMove(move moves.LabelMove) float64 {
	before := m.degree.GetLogJoint(prior.NewVisitSet())
	if err := m.ApplyLabelMove(move); err != nil {
		return negInf
	}
	after := m.degree.GetLogJoint(prior.NewVisitSet())
	_ = m.ApplyLabelMove(move.Inverse())
	return after - before
}
func (m *NestedDegreeCorrectedSBMFamily) GetLogJointRatioFromLabelMove(move moves.LabelMove) float64 {
	return m.GetLogLikelihoodRatioFromLabelMove(move) + m.GetLogPriorRatioFromLabelMove(move)
}

func (m *NestedDegreeCorrectedSBMFamily) IsCompatible(g *multigraph.Graph) bool {
	if g.Size() != m.n {
		return false
	}
	b0 := m.nestedLabel.BlockCountAtLevel(0)
	induced := inducedLabelMatrix(g, m.nestedBlock.PartitionAtLevel(0), b0)
	return symDenseEqual(induced, m.nestedLabel.MatrixAtLevel(0))
}

func (m *NestedDegreeCorrectedSBMFamily) CheckConsistency() error {
	if m.edgeCount.State() != m.graph.GetTotalEdgeNumber() {
		return fmt.Errorf("%w: edge count %d != graph edges %d", prior.ErrConsistency, m.edgeCount.State(), m.graph.GetTotalEdgeNumber())
	}
	b0 := m.nestedLabel.BlockCountAtLevel(0)
	induced := inducedLabelMatrix(m.graph, m.nestedBlock.PartitionAtLevel(0), b0)
	if !symDenseEqual(induced, m.nestedLabel.MatrixAtLevel(0)) {
		return fmt.Errorf("%w: level-0 label graph disagrees with the graph", prior.ErrConsistency)
	}
	return nil
}
