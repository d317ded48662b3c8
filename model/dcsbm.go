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

// DegreeCorrectedDegreeVariant selects the per-block degree prior a
// DC-SBM family composes (spec.md §4.5's stratified variants).
type DegreeCorrectedDegreeVariant int

const (
	// DegreeCorrectedUniform draws each block's degree sequence
	// uniformly given that block's edge total.
	DegreeCorrectedUniform DegreeCorrectedDegreeVariant = iota
	// DegreeCorrectedUniformHyper draws a degree-count multiset per
	// block first, then a uniform assignment within it.
	DegreeCorrectedUniformHyper
)

// sampleBlockDegreeSequence draws a length-n sequence of nonnegative
// degrees summing to 2*e, either a uniform composition (Uniform) or via
// the restricted-partition Metropolis chain (UniformHyper), matching
// the two stratified variants LabelledDegree scores (spec.md §4.5).
func sampleBlockDegreeSequence(source *rng.Source, n, e int, variant DegreeCorrectedDegreeVariant) []int {
	if n == 0 {
		return nil
	}
	switch variant {
	case DegreeCorrectedUniformHyper:
		d := generator.SampleRandomRestrictedPartition(source, 2*e, n, 200)
		source.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })
		return d
	default:
		return generator.SampleRandomWeakComposition(source, 2*e, n)
	}
}

// DegreeCorrectedSBMFamily is the C7 degree-corrected stochastic block
// model with the full latent chain block-count -> block -> edge-count
// -> label-graph -> labelled-degree (spec.md §4.8), scored under the
// stub-labelled/DC-SBM likelihood convention throughout.
type DegreeCorrectedSBMFamily struct {
	cfg           config
	n             int
	graph         *multigraph.Graph
	blockCount    prior.BlockCount
	block         prior.Block
	edgeCount     prior.EdgeCount
	labelGraph    prior.LabelGraph
	degree        prior.LabelledDegree
	lgVariant     LabelGraphVariant
	degreeVariant DegreeCorrectedDegreeVariant
}

// NewDegreeCorrectedSBMFamily returns a DegreeCorrectedSBMFamily over n
// vertices, block count in [bMin,bMax], and a Poisson(edgeMean)
// edge-count prior.
func NewDegreeCorrectedSBMFamily(
	n, bMin, bMax int,
	edgeMean float64,
	blockVariant BlockVariant,
	lgVariant LabelGraphVariant,
	degreeVariant DegreeCorrectedDegreeVariant,
	opts ...Option,
) (*DegreeCorrectedSBMFamily, error) {
	cfg := newConfig(opts...)
	graph := multigraph.NewGraph(n, multigraph.WithLoops())
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
	var degree prior.LabelledDegree
	switch degreeVariant {
	case DegreeCorrectedUniformHyper:
		degree = prior.NewLabelledDegreeUniformHyper(graph, block, lg)
	default:
		degree = prior.NewLabelledDegreeUniform(graph, block, lg)
	}
	return &DegreeCorrectedSBMFamily{
		cfg: cfg, n: n, graph: graph,
		blockCount: bc, block: block, edgeCount: ec, labelGraph: lg, degree: degree,
		lgVariant: lgVariant, degreeVariant: degreeVariant,
	}, nil
}

func (m *DegreeCorrectedSBMFamily) Graph() *multigraph.Graph { return m.graph }
func (m *DegreeCorrectedSBMFamily) Labels() []int            { return m.block.Partition() }

// LabelCount, VertexCount, LabelMatrixValue and LabelDegree expose the
// block/label-graph state a label proposer (C10) needs (spec.md §4.10's
// mixed-variant preference term), mirroring StochasticBlockModelFamily.
func (m *DegreeCorrectedSBMFamily) LabelCount() int            { return m.labelGraph.BlockCount() }
func (m *DegreeCorrectedSBMFamily) VertexCount(label int) int { return m.block.VertexCount(label) }
func (m *DegreeCorrectedSBMFamily) LabelMatrixValue(r, s int) int {
	return int(m.labelGraph.Matrix().At(r, s))
}
func (m *DegreeCorrectedSBMFamily) LabelDegree(r int) int { return m.labelGraph.EdgeCounts()[r] }

func (m *DegreeCorrectedSBMFamily) SetLabels(b []int, reduce bool) error {
	if err := m.block.SetPartition(b, reduce); err != nil {
		return err
	}
	m.blockCount.SetState(m.block.MaxBlockCount())
	m.labelGraph.RecomputeStateFromGraph()
	return nil
}

// Sample draws B, the partition, E, a label graph, per-block degree
// sequences consistent with each block's edge total, and finally a
// multigraph realising all of it via stub-matching restricted to each
// block pair (spec.md §4.1, §4.6 "DC-SBM").
func (m *DegreeCorrectedSBMFamily) Sample(source *rng.Source) {
	m.blockCount.Sample(source)
	m.block.Sample(source)
	m.edgeCount.Sample(source)
	bCount := m.block.MaxBlockCount()
	lgMatrix := sampleLabelGraphMatrix(source, bCount, m.edgeCount.State(), m.lgVariant)

	partition := m.block.Partition()
	byBlock := make(map[int][]int)
	for v, lbl := range partition {
		byBlock[lbl] = append(byBlock[lbl], v)
	}
	edgeCounts := make([]int, bCount)
	for r := 0; r < bCount; r++ {
		sum := lgMatrix.At(r, r)
		for s := 0; s < bCount; s++ {
			if s != r {
				sum += lgMatrix.At(r, s)
			}
		}
		edgeCounts[r] = int(sum)
	}
	degrees := make([]int, m.n)
	for r := 0; r < bCount; r++ {
		verts := byBlock[r]
		seq := sampleBlockDegreeSequence(source, len(verts), edgeCounts[r], m.degreeVariant)
		for i, v := range verts {
			degrees[v] = seq[i]
		}
	}

	sampled := generator.SampleDCSBM(source, partition, degrees, lgMatrix)
	copyGraphInto(m.graph, sampled)
	m.labelGraph.RecomputeStateFromGraph()
}

func (m *DegreeCorrectedSBMFamily) likelihoodFromState() float64 {
	return likelihood.DCSBM(m.graph, recomputeDegreeSequence(m.graph))
}

func (m *DegreeCorrectedSBMFamily) GetLogLikelihood() float64 { return m.likelihoodFromState() }
func (m *DegreeCorrectedSBMFamily) GetLogPrior() float64 {
	return m.degree.GetLogJoint(prior.NewVisitSet())
}
func (m *DegreeCorrectedSBMFamily) GetLogJoint() float64 {
	return m.GetLogLikelihood() + m.GetLogPrior()
}

func (m *DegreeCorrectedSBMFamily) ApplyGraphMove(move moves.GraphMove) error {
	if err := applyGraphMoveToGraph(m.graph, move); err != nil {
		return err
	}
	if err := m.edgeCount.ApplyGraphMove(move); err != nil {
		return err
	}
	return m.labelGraph.ApplyGraphMove(move)
}

func (m *DegreeCorrectedSBMFamily) GetLogLikelihoodRatioFromGraphMove(move moves.GraphMove) float64 {
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
func (m *DegreeCorrectedSBMFamily) GetLogPriorRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.degree.GetLogJointRatioFromGraphMove(prior.NewVisitSet(), move)
}
func (m *DegreeCorrectedSBMFamily) GetLogJointRatioFromGraphMove(move moves.GraphMove) float64 {
	return m.GetLogLikelihoodRatioFromGraphMove(move) + m.GetLogPriorRatioFromGraphMove(move)
}

// ApplyLabelMove updates block-count, block, and label-graph state
// along the chain; the labelled-degree prior holds no state of its own
// (it reads the graph directly), so it needs no explicit update.
func (m *DegreeCorrectedSBMFamily) ApplyLabelMove(move moves.LabelMove) error {
	if move.AddedLabels != 0 {
		m.blockCount.SetState(m.blockCount.State() + move.AddedLabels)
	}
	if err := m.block.ApplyLabelMove(move); err != nil {
		return err
	}
	return m.labelGraph.ApplyLabelMove(move)
}

func (m *DegreeCorrectedSBMFamily) GetLogLikelihoodRatioFromLabelMove(move moves.LabelMove) float64 {
	return 0 // a label move alone never changes the observed graph
}
func (m *DegreeCorrectedSBMFamily) GetLogPriorRatioFromLabelMove(move moves.LabelMove) float64 {
	return m.degree.GetLogJointRatioFromLabelMove(prior.NewVisitSet(), move)
}
func (m *DegreeCorrectedSBMFamily) GetLogJointRatioFromLabelMove(move moves.LabelMove) float64 {
	return m.GetLogLikelihoodRatioFromLabelMove(move) + m.GetLogPriorRatioFromLabelMove(move)
}

// IsCompatible checks size and that g's induced label graph under the
// current partition equals the tracked label-graph state (spec.md §5).
func (m *DegreeCorrectedSBMFamily) IsCompatible(g *multigraph.Graph) bool {
	if g.Size() != m.n {
		return false
	}
	induced := inducedLabelMatrix(g, m.block.Partition(), m.labelGraph.BlockCount())
	return symDenseEqual(induced, m.labelGraph.Matrix())
}

func (m *DegreeCorrectedSBMFamily) CheckConsistency() error {
	if m.edgeCount.State() != m.graph.GetTotalEdgeNumber() {
		return fmt.Errorf("%w: edge count %d != graph edges %d", prior.ErrConsistency, m.edgeCount.State(), m.graph.GetTotalEdgeNumber())
	}
	induced := inducedLabelMatrix(m.graph, m.block.Partition(), m.labelGraph.BlockCount())
	if !symDenseEqual(induced, m.labelGraph.Matrix()) {
		return fmt.Errorf("%w: label graph disagrees with the graph under the current partition", prior.ErrConsistency)
	}
	return nil
}
