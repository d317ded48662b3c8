package model

import (
	"fmt"

	"github.com/katalvlaran/graphinf/generator"
	"github.com/katalvlaran/graphinf/likelihood"
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/katalvlaran/graphinf/rng"
	"gonum.org/v1/gonum/mat"
)

func sumSymDense(d *mat.SymDense) int {
	b, _ := d.Dims()
	sum := 0
	for r := 0; r < b; r++ {
		for s := r; s < b; s++ {
			sum += int(d.At(r, s))
		}
	}
	return sum
}

func maxLabel(partition []int) int {
	max := -1
	for _, l := range partition {
		if l > max {
			max = l
		}
	}
	return max
}

func blockSizesFromPartition(partition []int, bCount int) []int {
	sizes := make([]int, bCount)
	for _, l := range partition {
		sizes[l]++
	}
	return sizes
}

// StochasticBlockModel is the C7 SBM with both the partition and the
// label graph frozen (spec.md §4.8 "owns a label-graph delta prior
// (labels and labelGraph frozen)"): only the underlying graph is
// latent. Useful as a generator/scorer for a fully-observed community
// structure (E2E-3).
type StochasticBlockModel struct {
	cfg          config
	n            int
	graph        *multigraph.Graph
	blockCount   *prior.BlockCountDelta
	block        *prior.BlockDelta
	edgeCount    *prior.EdgeCountDelta
	labelGraph   *prior.LabelGraphDelta
	stubLabelled bool
}

// NewStochasticBlockModel returns a StochasticBlockModel fixed at the
// given partition and block-pair edge-count matrix.
func NewStochasticBlockModel(partition []int, labelGraphMatrix *mat.SymDense, stubLabelled bool, opts ...Option) *StochasticBlockModel {
	cfg := newConfig(opts...)
	n := len(partition)
	graph := multigraph.NewGraph(n)
	if cfg.allowLoops {
		graph = multigraph.NewGraph(n, multigraph.WithLoops())
	}
	bc := prior.NewBlockCountDelta(maxLabel(partition) + 1)
	block := prior.NewBlockDelta(partition, bc)
	ec := prior.NewEdgeCountDelta(sumSymDense(labelGraphMatrix))
	lg := prior.NewLabelGraphDelta(graph, block, ec, labelGraphMatrix)
	return &StochasticBlockModel{cfg: cfg, n: n, graph: graph, blockCount: bc, block: block, edgeCount: ec, labelGraph: lg, stubLabelled: stubLabelled}
}

func (m *StochasticBlockModel) Graph() *multigraph.Graph { return m.graph }

// Sample realises a fresh multigraph matching the frozen partition and
// label graph (spec.md §4.1).
func (m *StochasticBlockModel) Sample(source *rng.Source) {
	sampled := generator.SampleSBM(source, m.block.Partition(), m.labelGraph.Matrix(), m.cfg.allowLoops)
	copyGraphInto(m.graph, sampled)
	m.labelGraph.RecomputeStateFromGraph()
}

func (m *StochasticBlockModel) likelihoodFromState() float64 {
	if m.stubLabelled {
		return likelihood.StubLabelledSBM(m.graph, recomputeDegreeSequence(m.graph))
	}
	sizes := blockSizesFromPartition(m.block.Partition(), m.labelGraph.BlockCount())
	return likelihood.UniformMultigraphSBM(m.labelGraph.Matrix(), sizes, m.cfg.allowLoops, m.cfg.allowParallel)
}

func (m *StochasticBlockModel) GetLogLikelihood() float64 { return m.likelihoodFromState() }
func (m *StochasticBlockModel) GetLogPrior() float64 {
	return m.labelGraph.GetLogJoint(prior.NewVisitSet())
}
func (m *StochasticBlockModel) GetLogJoint() float64 { return m.GetLogLikelihood() + m.GetLogPrior() }

func (m *StochasticBlockModel) ApplyGraphMove(move moves.GraphMove) error {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return err
	}
	if err := m.edgeCount.ApplyGraphMove(move); err != nil {
		return err
	}
	return m.labelGraph.ApplyGraphMove(move)
}

func (m *StochasticBlockModel) GetLogLikelihoodRatioFromGraphMove(move moves.GraphMove) float64 {
	before := m.likelihoodFromState()
	origGraph := m.graph
	clone := m.graph.Clone()
	m.graph = clone
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		m.graph = origGraph
		return negInf
	}
	_ = m.labelGraph.ApplyGraphMove(move)
	after := m.likelihoodFromState()
	m.graph = origGraph
	_ = m.labelGraph.ApplyGraphMove(move.Inverse())
	return after - before
}
func (m *StochasticBlockModel) GetLogPriorRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.labelGraph.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), move)
}
func (m *StochasticBlockModel) GetLogJointRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.GetLogLikelihoodRatioFromGraphMove(move) + m.GetLogPriorRatioFromGraphMove(move)
}

// IsCompatible checks size, and that g's induced label graph under the
// frozen partition equals the frozen label graph matrix (spec.md §5).
func (m *StochasticBlockModel) IsCompatible(g *multigraph.Graph) bool {
	if g.Size() != m.n {
		return false
	}
	induced := inducedLabelMatrix(g, m.block.Partition(), m.labelGraph.BlockCount())
	return symDenseEqual(induced, m.labelGraph.Matrix())
}

func (m *StochasticBlockModel) CheckConsistency() error {
	if m.edgeCount.State() != m.graph.GetTotalEdgeNumber() {
		return fmt.Errorf("%w: edge count %d != graph edges %d", prior.ErrConsistency, m.edgeCount.State(), m.graph.GetTotalEdgeNumber())
	}
	induced := inducedLabelMatrix(m.graph, m.block.Partition(), m.labelGraph.BlockCount())
	if !symDenseEqual(induced, m.labelGraph.Matrix()) {
		return fmt.Errorf("%w: graph's induced label graph disagrees with the frozen label graph", prior.ErrConsistency)
	}
	return nil
}

func inducedLabelMatrix(g *multigraph.Graph, partition []int, bCount int) *mat.SymDense {
	out := mat.NewSymDense(bCount, nil)
	for _, e := range g.Edges() {
		r, s := partition[e.From], partition[e.To]
		out.SetSym(r, s, out.At(r, s)+float64(e.Multiplicity))
	}
	return out
}

func symDenseEqual(a, b *mat.SymDense) bool {
	ar, _ := a.Dims()
	br, _ := b.Dims()
	if ar != br {
		return false
	}
	for r := 0; r < ar; r++ {
		for s := r; s < ar; s++ {
			if a.At(r, s) != b.At(r, s) {
				return false
			}
		}
	}
	return true
}

// LabelGraphVariant selects the label-graph prior a model family
// composes (spec.md §4.4).
type LabelGraphVariant int

const (
	// LabelGraphErdosRenyi scores the label graph as a uniform
	// weak composition of E over block pairs.
	LabelGraphErdosRenyi LabelGraphVariant = iota
	// LabelGraphPlantedPartition biases assortatively or
	// disassortatively via within/across edge totals.
	LabelGraphPlantedPartition
)

// BlockVariant selects the partition prior a model family composes
// (spec.md §4.3).
type BlockVariant int

const (
	// BlockVariantUniform draws each vertex's label independently.
	BlockVariantUniform BlockVariant = iota
	// BlockVariantUniformHyper draws a vertex-count composition first.
	BlockVariantUniformHyper
)

// sampleLabelGraphMatrix draws a B x B block-pair edge-count matrix
// consistent with the given prior variant, total edge budget e, and
// block count b (spec.md §4.4). This plays the generative role the
// LabelGraph prior types never expose a Sample() method for: the
// matrix is realised here and then picked up by the prior's
// RecomputeStateFromGraph once the graph itself is built.
func sampleLabelGraphMatrix(source *rng.Source, b, e int, variant LabelGraphVariant) *mat.SymDense {
	out := mat.NewSymDense(b, nil)
	pairs := b * (b + 1) / 2
	if pairs == 0 {
		return out
	}
	switch variant {
	case LabelGraphPlantedPartition:
		eIn := e / 2
		eOut := e - eIn
		if b >= 1 {
			diag := generator.SampleRandomWeakComposition(source, eIn, b)
			for r := 0; r < b; r++ {
				out.SetSym(r, r, float64(diag[r]))
			}
		}
		offPairs := b * (b - 1) / 2
		if offPairs > 0 {
			off := generator.SampleRandomWeakComposition(source, eOut, offPairs)
			idx := 0
			for r := 0; r < b; r++ {
				for s := r + 1; s < b; s++ {
					out.SetSym(r, s, float64(off[idx]))
					idx++
				}
			}
		} else if b == 1 {
			out.SetSym(0, 0, out.At(0, 0)+float64(eOut))
		}
	default:
		alloc := generator.SampleRandomWeakComposition(source, e, pairs)
		idx := 0
		for r := 0; r < b; r++ {
			for s := r; s < b; s++ {
				out.SetSym(r, s, float64(alloc[idx]))
				idx++
			}
		}
	}
	return out
}

// StochasticBlockModelFamily is the C7 SBM with the full latent chain
// block-count -> block -> edge-count -> label-graph (spec.md §4.8),
// scored under either the stub-labelled or the uniform-multigraph
// likelihood convention.
type StochasticBlockModelFamily struct {
	cfg          config
	n            int
	graph        *multigraph.Graph
	blockCount   prior.BlockCount
	block        prior.Block
	edgeCount    prior.EdgeCount
	labelGraph   prior.LabelGraph
	lgVariant    LabelGraphVariant
	stubLabelled bool
}

// NewStochasticBlockModelFamily returns a StochasticBlockModelFamily
// over n vertices, block count in [bMin,bMax], and a Poisson(edgeMean)
// edge-count prior.
func NewStochasticBlockModelFamily(
	n, bMin, bMax int,
	edgeMean float64,
	blockVariant BlockVariant,
	lgVariant LabelGraphVariant,
	stubLabelled bool,
	opts ...Option,
) (*StochasticBlockModelFamily, error) {
	cfg := newConfig(opts...)
	graph := multigraph.NewGraph(n)
	if cfg.allowLoops {
		graph = multigraph.NewGraph(n, multigraph.WithLoops())
	}
	bc, err := prior.NewBlockCountUniform(bMin, bMax)
	if err != nil {
		return nil, err
	}
	var block prior.Block
	switch blockVariant {
	case BlockVariantUniformHyper:
		block = prior.NewBlockUniformHyper(n, bc)
	default:
		block = prior.NewBlockUniform(n, bc)
	}
	ec := prior.NewEdgeCountPoisson(edgeMean)
	var lg prior.LabelGraph
	switch lgVariant {
	case LabelGraphPlantedPartition:
		lg = prior.NewLabelGraphPlantedPartition(graph, block, ec)
	default:
		lg = prior.NewLabelGraphErdosRenyi(graph, block, ec)
	}
	return &StochasticBlockModelFamily{
		cfg: cfg, n: n, graph: graph,
		blockCount: bc, block: block, edgeCount: ec, labelGraph: lg,
		lgVariant: lgVariant, stubLabelled: stubLabelled,
	}, nil
}

func (m *StochasticBlockModelFamily) Graph() *multigraph.Graph { return m.graph }
func (m *StochasticBlockModelFamily) Labels() []int             { return m.block.Partition() }

// LabelCount, VertexCount, LabelMatrixValue and LabelDegree expose the
// block/label-graph state a label proposer (C10) needs to weigh its
// candidate labels (spec.md §4.10's mixed-variant preference term).
func (m *StochasticBlockModelFamily) LabelCount() int            { return m.labelGraph.BlockCount() }
func (m *StochasticBlockModelFamily) VertexCount(label int) int { return m.block.VertexCount(label) }
func (m *StochasticBlockModelFamily) LabelMatrixValue(r, s int) int {
	return int(m.labelGraph.Matrix().At(r, s))
}
func (m *StochasticBlockModelFamily) LabelDegree(r int) int { return m.labelGraph.EdgeCounts()[r] }

func (m *StochasticBlockModelFamily) SetLabels(b []int, reduce bool) error {
	if err := m.block.SetPartition(b, reduce); err != nil {
		return err
	}
	m.blockCount.SetState(m.block.MaxBlockCount())
	m.labelGraph.RecomputeStateFromGraph()
	return nil
}

// Sample draws B, the partition, E, and then a label graph and
// underlying multigraph consistent with them (spec.md §4.1).
func (m *StochasticBlockModelFamily) Sample(source *rng.Source) {
	m.blockCount.Sample(source)
	m.block.Sample(source)
	m.edgeCount.Sample(source)
	bCount := m.block.MaxBlockCount()
	lgMatrix := sampleLabelGraphMatrix(source, bCount, m.edgeCount.State(), m.lgVariant)
	sampled := generator.SampleSBM(source, m.block.Partition(), lgMatrix, m.cfg.allowLoops)
	copyGraphInto(m.graph, sampled)
	m.labelGraph.RecomputeStateFromGraph()
}

func (m *StochasticBlockModelFamily) blockSizes() []int {
	return blockSizesFromPartition(m.block.Partition(), m.labelGraph.BlockCount())
}

func (m *StochasticBlockModelFamily) likelihoodFromState() float64 {
	if m.stubLabelled {
		return likelihood.StubLabelledSBM(m.graph, recomputeDegreeSequence(m.graph))
	}
	return likelihood.UniformMultigraphSBM(m.labelGraph.Matrix(), m.blockSizes(), m.cfg.allowLoops, m.cfg.allowParallel)
}

func (m *StochasticBlockModelFamily) GetLogLikelihood() float64 { return m.likelihoodFromState() }
func (m *StochasticBlockModelFamily) GetLogPrior() float64 {
	return m.labelGraph.GetLogJoint(prior.NewVisitSet())
}
func (m *StochasticBlockModelFamily) GetLogJoint() float64 {
	return m.GetLogLikelihood() + m.GetLogPrior()
}

func (m *StochasticBlockModelFamily) ApplyGraphMove(move moves.GraphMove) error {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return err
	}
	if err := m.edgeCount.ApplyGraphMove(move); err != nil {
		return err
	}
	return m.labelGraph.ApplyGraphMove(move)
}

func (m *StochasticBlockModelFamily) GetLogLikelihoodRatioFromGraphMove(move moves.GraphMove) float64 {
	before := m.likelihoodFromState()
	origGraph := m.graph
	m.graph = m.graph.Clone()
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		m.graph = origGraph
		return negInf
	}
	_ = m.labelGraph.ApplyGraphMove(move)
	after := m.likelihoodFromState()
	m.graph = origGraph
	_ = m.labelGraph.ApplyGraphMove(move.Inverse())
	return after - before
}
func (m *StochasticBlockModelFamily) GetLogPriorRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.labelGraph.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), move)
}
func (m *StochasticBlockModelFamily) GetLogJointRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.GetLogLikelihoodRatioFromGraphMove(move) + m.GetLogPriorRatioFromGraphMove(move)
}

// ApplyLabelMove updates block-count, block, and label-graph state;
// none of the three propagate to their parent automatically (spec.md
// §9 "raw pointer back-references" rework), so the owning model walks
// the whole chain explicitly.
func (m *StochasticBlockModelFamily) ApplyLabelMove(move moves.LabelMove) error {
	if move.AddedLabels != 0 {
		m.blockCount.SetState(m.blockCount.State() + move.AddedLabels)
	}
	if err := m.block.ApplyLabelMove(move); err != nil {
		return err
	}
	return m.labelGraph.ApplyLabelMove(move)
}

func (m *StochasticBlockModelFamily) GetLogLikelihoodRatioFromLabelMove(move moves.LabelMove) float64 {
	if m.stubLabelled {
		return 0 // the graph itself is unchanged by a label move
	}
	before := m.likelihoodFromState()
	_ = m.block.ApplyLabelMove(move)
	_ = m.labelGraph.ApplyLabelMove(move)
	after := m.likelihoodFromState()
	_ = m.block.ApplyLabelMove(move.Inverse())
	_ = m.labelGraph.ApplyLabelMove(move.Inverse())
	return after - before
}
func (m *StochasticBlockModelFamily) GetLogPriorRatioFromLabelMove(move moves.LabelMove) float64 {
	return m.labelGraph.GetLogJointRatioFromLabelMove(prior.NewVisitSet(), move)
}
func (m *StochasticBlockModelFamily) GetLogJointRatioFromLabelMove(move moves.LabelMove) float64 {
	return m.GetLogLikelihoodRatioFromLabelMove(move) + m.GetLogPriorRatioFromLabelMove(move)
}

// IsCompatible checks size and that g's induced label graph under the
// current partition equals the tracked label-graph state (spec.md §5).
func (m *StochasticBlockModelFamily) IsCompatible(g *multigraph.Graph) bool {
	if g.Size() != m.n {
		return false
	}
	induced := inducedLabelMatrix(g, m.block.Partition(), m.labelGraph.BlockCount())
	return symDenseEqual(induced, m.labelGraph.Matrix())
}

func (m *StochasticBlockModelFamily) CheckConsistency() error {
	if m.edgeCount.State() != m.graph.GetTotalEdgeNumber() {
		return fmt.Errorf("%w: edge count %d != graph edges %d", prior.ErrConsistency, m.edgeCount.State(), m.graph.GetTotalEdgeNumber())
	}
	induced := inducedLabelMatrix(m.graph, m.block.Partition(), m.labelGraph.BlockCount())
	if !symDenseEqual(induced, m.labelGraph.Matrix()) {
		return fmt.Errorf("%w: label graph disagrees with the graph under the current partition", prior.ErrConsistency)
	}
	return nil
}
