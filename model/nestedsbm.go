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

// NestedStochasticBlockModelFamily is the nested counterpart of
// StochasticBlockModelFamily: the partition is a stack of levels,
// level 0 over vertices and each deeper level over the previous
// level's blocks, terminating at a single block (spec.md §4.8 "Nested
// variant"). Only the level-0 label graph drives the observed
// multigraph; deeper levels exist purely to shape the prior over
// level-0's own block count.
type NestedStochasticBlockModelFamily struct {
	cfg            config
	n              int
	graph          *multigraph.Graph
	blockCount     *prior.NestedBlockCount
	nestedBlock    prior.NestedBlock
	edgeCount      prior.EdgeCount
	nestedLabel  *prior.NestedLabelGraphErdosRenyi
	blockVariant BlockVariant
	stubLabelled bool
}

// NewNestedStochasticBlockModelFamily returns a
// NestedStochasticBlockModelFamily over n vertices with a
// Poisson(edgeMean) edge-count prior.
func NewNestedStochasticBlockModelFamily(n int, edgeMean float64, blockVariant BlockVariant, stubLabelled bool, opts ...Option) *NestedStochasticBlockModelFamily {
	cfg := newConfig(opts...)
	graph := multigraph.NewGraph(n)
	if cfg.allowLoops {
		graph = multigraph.NewGraph(n, multigraph.WithLoops())
	}
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
	return &NestedStochasticBlockModelFamily{
		cfg: cfg, n: n, graph: graph,
		blockCount: bc, nestedBlock: nb, edgeCount: ec, nestedLabel: nlg,
		blockVariant: blockVariant, stubLabelled: stubLabelled,
	}
}

func (m *NestedStochasticBlockModelFamily) Graph() *multigraph.Graph { return m.graph }

// GetDepth returns the current nesting depth.
func (m *NestedStochasticBlockModelFamily) GetDepth() int { return m.blockCount.Depth() }

// GetNestedLabel returns vertex/super-vertex v's label at level.
func (m *NestedStochasticBlockModelFamily) GetNestedLabel(v, level int) int {
	return m.nestedBlock.PartitionAtLevel(level)[v]
}

// SetNestedLabels installs a full stack of per-level partitions,
// recomputing the block-count vector and the label graph to match
// (spec.md §4.8 "setLabels(..., reduce?)").
func (m *NestedStochasticBlockModelFamily) SetNestedLabels(bs [][]int, reduce bool) error {
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

// SampleOnlyLabels redraws the entire nested partition stack, keeping
// the observed graph fixed (spec.md §4.8, used to warm-start a label
// sampler from a fresh partition).
func (m *NestedStochasticBlockModelFamily) SampleOnlyLabels(source *rng.Source) {
	m.blockCount.Sample(source)
	m.nestedBlock.Sample(source)
	m.nestedLabel.RecomputeStateFromGraph()
}

// ReduceLabels relabels every level to first-occurrence order, dropping
// empty blocks (spec.md §4.8 "reduceLabels").
func (m *NestedStochasticBlockModelFamily) ReduceLabels() {
	partitions := m.nestedBlock.NestedPartition()
	reduced := make([][]int, len(partitions))
	for l, part := range partitions {
		reduced[l] = prior.ReducePartition(part)
	}
	_ = m.SetNestedLabels(reduced, false)
}

// NestedLabels, NestedLabelCount, NestedVertexCount, NestedLabelMatrixValue
// and NestedLabelDegree expose per-level block/label-graph state a nested
// label proposer (C10) needs to weigh candidate labels at an arbitrary
// level (spec.md §4.10's closing paragraph on nested proposers).
func (m *NestedStochasticBlockModelFamily) NestedLabels(level int) []int {
	return m.nestedBlock.PartitionAtLevel(level)
}
func (m *NestedStochasticBlockModelFamily) NestedLabelCount(level int) int {
	return m.nestedLabel.BlockCountAtLevel(level)
}
func (m *NestedStochasticBlockModelFamily) NestedVertexCount(level, label int) int {
	count := 0
	for _, lbl := range m.nestedBlock.PartitionAtLevel(level) {
		if lbl == label {
			count++
		}
	}
	return count
}
func (m *NestedStochasticBlockModelFamily) NestedLabelMatrixValue(level, r, s int) int {
	return int(m.nestedLabel.MatrixAtLevel(level).At(r, s))
}
func (m *NestedStochasticBlockModelFamily) NestedLabelDegree(level, r int) int {
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

func (m *NestedStochasticBlockModelFamily) level0BlockSizes() []int {
	partition0 := m.nestedBlock.PartitionAtLevel(0)
	b0 := m.nestedLabel.BlockCountAtLevel(0)
	return blockSizesFromPartition(partition0, b0)
}

// Sample draws the full nested block-count vector, every level's
// partition, E, and a level-0 label graph and multigraph consistent
// with them (spec.md §4.1).
func (m *NestedStochasticBlockModelFamily) Sample(source *rng.Source) {
	m.blockCount.Sample(source)
	m.nestedBlock.Sample(source)
	m.edgeCount.Sample(source)
	b0 := m.blockCount.StateAtLevel(0)
	matrix := sampleLabelGraphMatrix(source, b0, m.edgeCount.State(), LabelGraphErdosRenyi)
	sampled := generator.SampleSBM(source, m.nestedBlock.PartitionAtLevel(0), matrix, m.cfg.allowLoops)
	copyGraphInto(m.graph, sampled)
	m.nestedLabel.RecomputeStateFromGraph()
}

func (m *NestedStochasticBlockModelFamily) likelihoodFromState() float64 {
	if m.stubLabelled {
		return likelihood.StubLabelledSBM(m.graph, recomputeDegreeSequence(m.graph))
	}
	return likelihood.UniformMultigraphSBM(m.nestedLabel.MatrixAtLevel(0), m.level0BlockSizes(), m.cfg.allowLoops, m.cfg.allowParallel)
}

func (m *NestedStochasticBlockModelFamily) GetLogLikelihood() float64 { return m.likelihoodFromState() }
func (m *NestedStochasticBlockModelFamily) GetLogPrior() float64 {
	return m.nestedLabel.GetLogJoint(prior.NewVisitSet())
}
func (m *NestedStochasticBlockModelFamily) GetLogJoint() float64 {
	return m.GetLogLikelihood() + m.GetLogPrior()
}

func (m *NestedStochasticBlockModelFamily) ApplyGraphMove(move moves.GraphMove) error {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return err
	}
	if err := m.edgeCount.ApplyGraphMove(move); err != nil {
		return err
	}
	return m.nestedLabel.ApplyGraphMove(move)
}

// GetLogLikelihoodRatioFromGraphMove mutates the owned graph in place
// rather than cloning: NestedLabelGraphErdosRenyi.ApplyGraphMove folds
// into a full RecomputeStateFromGraph that reads from the graph object
// captured at construction, so a clone swapped into m.graph would
// never be seen by it. The move is undone at the end, leaving the
// model's observable state unchanged (spec.md §3 "ratio preview").
func (m *NestedStochasticBlockModelFamily) GetLogLikelihoodRatioFromGraphMove(move moves.GraphMove) float64 {
	before := m.likelihoodFromState()
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return negInf
	}
	_ = m.nestedLabel.ApplyGraphMove(move)
	after := m.likelihoodFromState()
	_ = applyGraphMoveToGraph(m.graph, move.Inverse())
	m.nestedLabel.RecomputeStateFromGraph()
	return after - before
}

// GetLogPriorRatioFromGraphMove likewise mutates the real graph
// temporarily, since NestedLabelGraphErdosRenyi's ratio method
// recomputes from it rather than from the move alone.
func (m *NestedStochasticBlockModelFamily) GetLogPriorRatioFromGraphMove(move moves.GraphMove) float64 {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return negInf
	}
	ratio := m.nestedLabel.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), move)
	_ = applyGraphMoveToGraph(m.graph, move.Inverse())
	return ratio
}
func (m *NestedStochasticBlockModelFamily) GetLogJointRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.GetLogLikelihoodRatioFromGraphMove(move) + m.GetLogPriorRatioFromGraphMove(move)
}

// ApplyLabelMove updates the block-count vector at the move's level and
// the nested block/label-graph state. Creating or destroying the
// deepest level (AddedLabels taking a level to or from 0) is left to
// the caller's proposer to sequence as an explicit
// CreateNewLevel/DestroyLastLevel call before this; a standard
// within-depth move only ever shifts one level's block count by ±1.
func (m *NestedStochasticBlockModelFamily) ApplyLabelMove(move moves.LabelMove) error {
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

func (m *NestedStochasticBlockModelFamily) GetLogLikelihoodRatioFromLabelMove(move moves.LabelMove) float64 {
	if move.Level != 0 || m.stubLabelled {
		return 0
	}
	before := m.likelihoodFromState()
	_ = m.nestedBlock.ApplyLabelMove(move)
	_ = m.nestedLabel.ApplyLabelMove(move)
	after := m.likelihoodFromState()
	_ = m.nestedBlock.ApplyLabelMove(move.Inverse())
	m.nestedLabel.RecomputeStateFromGraph()
	return after - before
}
// GetLogPriorRatioFromLabelMove applies move to the nested block stack
// first: NestedLabelGraphErdosRenyi.GetLogJointRatioFromLabelMove
// rebuilds every level from the current partition, so the partition
// must already reflect move for the "after" measurement to differ.
func (m *NestedStochasticBlockModelFamily) GetLogPriorRatioFromLabelMove(move moves.LabelMove) float64 {
	if err := m.nestedBlock.ApplyLabelMove(move); err != nil {
		return negInf
	}
	ratio := m.nestedLabel.GetLogJointRatioFromLabelMove(prior.NewVisitSet(), move)
	_ = m.nestedBlock.ApplyLabelMove(move.Inverse())
	return ratio
}
func (m *NestedStochasticBlockModelFamily) GetLogJointRatioFromLabelMove(move moves.LabelMove) float64 {
	return m.GetLogLikelihoodRatioFromLabelMove(move) + m.GetLogPriorRatioFromLabelMove(move)
}

// IsCompatible checks size and that g's induced level-0 label graph
// under the current level-0 partition equals the tracked state.
func (m *NestedStochasticBlockModelFamily) IsCompatible(g *multigraph.Graph) bool {
	if g.Size() != m.n {
		return false
	}
	b0 := m.nestedLabel.BlockCountAtLevel(0)
	induced := inducedLabelMatrix(g, m.nestedBlock.PartitionAtLevel(0), b0)
	return symDenseEqual(induced, m.nestedLabel.MatrixAtLevel(0))
}

func (m *NestedStochasticBlockModelFamily) CheckConsistency() error {
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
