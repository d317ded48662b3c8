package prior

import (
	"fmt"
	"math"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/numerics"
	"github.com/katalvlaran/graphinf/rng"
)

// Block is the C3 partition prior: the latent block assignment
// b: {0,...,N-1} -> N (spec.md §3 "Block (partition) prior"). Its
// single parent is a BlockCount prior supplying B.
type Block interface {
	LabelAware
	Partition() []int
	VertexCount(label int) int
	EffectiveBlockCount() int
	MaxBlockCount() int
	SetPartition(b []int, reduce bool) error
	Sample(source *rng.Source)
}

// blockBase holds the state and derived counts shared by every Block
// variant, and the BlockCount parent every variant reads B from.
type blockBase struct {
	partition    []int
	vertexCounts map[int]int
	parent       BlockCount
}

func newBlockBase(n int, parent BlockCount) blockBase {
	return blockBase{partition: make([]int, n), vertexCounts: map[int]int{0: n}, parent: parent}
}

func (b *blockBase) Partition() []int { return append([]int(nil), b.partition...) }
func (b *blockBase) VertexCount(label int) int { return b.vertexCounts[label] }
func (b *blockBase) EffectiveBlockCount() int {
	n := 0
	for _, c := range b.vertexCounts {
		if c > 0 {
			n++
		}
	}
	return n
}
func (b *blockBase) MaxBlockCount() int {
	max := -1
	for _, lbl := range b.partition {
		if lbl > max {
			max = lbl
		}
	}
	return max + 1
}

// ReducePartition relabels b to first-occurrence order over
// {0,...,B_eff-1}, dropping empty labels (spec.md §4.3 "reducePartition").
// Two partitions equal up to relabelling reduce to the same sequence.
func ReducePartition(b []int) []int {
	remap := make(map[int]int)
	out := make([]int, len(b))
	next := 0
	for i, lbl := range b {
		r, ok := remap[lbl]
		if !ok {
			r = next
			remap[lbl] = r
			next++
		}
		out[i] = r
	}
	return out
}

func recomputeVertexCounts(partition []int) map[int]int {
	counts := make(map[int]int)
	for _, lbl := range partition {
		counts[lbl]++
	}
	return counts
}

func (b *blockBase) setPartitionRaw(partition []int, reduce bool) {
	if reduce {
		partition = ReducePartition(partition)
	}
	b.partition = append([]int(nil), partition...)
	b.vertexCounts = recomputeVertexCounts(b.partition)
}

func (b *blockBase) applyLabelMoveToState(m moves.LabelMove) {
	b.partition[m.Vertex] = m.NextLabel
	b.vertexCounts[m.PrevLabel]--
	if b.vertexCounts[m.PrevLabel] == 0 {
		delete(b.vertexCounts, m.PrevLabel)
	}
	b.vertexCounts[m.NextLabel]++
}

// BlockUniform draws b independently uniform over {0,...,B-1} per
// vertex (spec.md §4.3 Uniform).
type BlockUniform struct {
	blockBase
}

// NewBlockUniform returns a BlockUniform prior over n vertices with the
// given BlockCount parent.
func NewBlockUniform(n int, parent BlockCount) *BlockUniform {
	return &BlockUniform{blockBase: newBlockBase(n, parent)}
}

func (p *BlockUniform) Sample(source *rng.Source) {
	b := p.parent.State()
	for i := range p.partition {
		p.partition[i] = source.UniformInt(0, b-1)
	}
	p.vertexCounts = recomputeVertexCounts(p.partition)
}
func (p *BlockUniform) SetPartition(b []int, reduce bool) error {
	if len(b) != len(p.partition) {
		return fmt.Errorf("%w: partition length mismatch", ErrInvalidMove)
	}
	p.setPartitionRaw(b, reduce)
	return nil
}

// LogLikelihood returns -N log B (spec.md §4.3).
func (p *BlockUniform) LogLikelihood() float64 {
	n := len(p.partition)
	b := p.parent.State()
	return -float64(n) * math.Log(float64(b))
}
func (p *BlockUniform) logPriorSelf(visited VisitSet) float64 { return p.parent.GetLogJoint(visited) }
func (p *BlockUniform) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() + p.logPriorSelf(visited) })
}
func (p *BlockUniform) ApplyGraphMove(m moves.GraphMove) error { return nil }
func (p *BlockUniform) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 { return p.parent.GetLogJointRatioFromGraphMove(visited, m) })
}
func (p *BlockUniform) ApplyLabelMove(m moves.LabelMove) error {
	p.applyLabelMoveToState(m)
	return nil
}

// GetLogJointRatioFromLabelMove implements spec.md §4.3's
// Uniform label-move identity: dLL = -N[log(B+dB) - log B].
func (p *BlockUniform) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		n := len(p.partition)
		b := p.parent.State()
		dll := -float64(n) * (math.Log(float64(b+m.AddedLabels)) - math.Log(float64(b)))
		return dll + p.parent.GetLogJointRatioFromLabelMove(visited, m)
	})
}

// BlockUniformHyper first draws a vertex-count composition of N into B
// parts, then a uniform permutation (spec.md §4.3 "Uniform hyper").
type BlockUniformHyper struct {
	blockBase
}

// NewBlockUniformHyper returns a BlockUniformHyper prior.
func NewBlockUniformHyper(n int, parent BlockCount) *BlockUniformHyper {
	return &BlockUniformHyper{blockBase: newBlockBase(n, parent)}
}

func (p *BlockUniformHyper) Sample(source *rng.Source) {
	n := len(p.partition)
	b := p.parent.State()
	composition := sampleRandomWeakComposition(source, n, b)
	partition := make([]int, 0, n)
	for lbl, count := range composition {
		for i := 0; i < count; i++ {
			partition = append(partition, lbl)
		}
	}
	source.Shuffle(len(partition), func(i, j int) { partition[i], partition[j] = partition[j], partition[i] })
	p.partition = partition
	p.vertexCounts = recomputeVertexCounts(partition)
}
func (p *BlockUniformHyper) SetPartition(b []int, reduce bool) error {
	if len(b) != len(p.partition) {
		return fmt.Errorf("%w: partition length mismatch", ErrInvalidMove)
	}
	p.setPartitionRaw(b, reduce)
	return nil
}

// LogLikelihood returns -log multinomial(N; n_1,...,n_B) - log C(N-1,B-1)
// (spec.md §4.3).
func (p *BlockUniformHyper) LogLikelihood() float64 {
	n := len(p.partition)
	b := p.parent.State()
	counts := make([]int, 0, len(p.vertexCounts))
	for _, c := range p.vertexCounts {
		counts = append(counts, c)
	}
	return -numerics.LogMultinomialCoefficient(n, counts) - numerics.LogBinomialCoefficient(n-1, b-1)
}
func (p *BlockUniformHyper) logPriorSelf(visited VisitSet) float64 {
	return p.parent.GetLogJoint(visited)
}
func (p *BlockUniformHyper) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() + p.logPriorSelf(visited) })
}
func (p *BlockUniformHyper) ApplyGraphMove(m moves.GraphMove) error { return nil }
func (p *BlockUniformHyper) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 { return p.parent.GetLogJointRatioFromGraphMove(visited, m) })
}
func (p *BlockUniformHyper) ApplyLabelMove(m moves.LabelMove) error {
	p.applyLabelMoveToState(m)
	return nil
}

// GetLogJointRatioFromLabelMove implements spec.md §4.3's Uniform-hyper
// label-move identity.
func (p *BlockUniformHyper) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		n := len(p.partition)
		b := p.parent.State()
		nr := p.vertexCounts[m.PrevLabel]
		ns := p.vertexCounts[m.NextLabel]
		dll := numerics.LogFactorial(ns+1) + numerics.LogFactorial(nr-1) -
			numerics.LogFactorial(ns) - numerics.LogFactorial(nr) -
			(numerics.LogBinomialCoefficient(n-1, b+m.AddedLabels-1) - numerics.LogBinomialCoefficient(n-1, b-1))
		return dll + p.parent.GetLogJointRatioFromLabelMove(visited, m)
	})
}

// BlockDelta fixes the partition to b0 (spec.md §4.3 Delta).
type BlockDelta struct {
	blockBase
}

// NewBlockDelta returns a BlockDelta prior fixed at b0.
func NewBlockDelta(b0 []int, parent BlockCount) *BlockDelta {
	p := &BlockDelta{blockBase: newBlockBase(len(b0), parent)}
	p.setPartitionRaw(b0, false)
	return p
}

func (p *BlockDelta) Sample(source *rng.Source) {}
func (p *BlockDelta) SetPartition(b []int, reduce bool) error {
	if len(b) != len(p.partition) {
		return fmt.Errorf("%w: partition length mismatch", ErrInvalidMove)
	}
	p.setPartitionRaw(b, reduce)
	return nil
}
func (p *BlockDelta) LogLikelihood() float64 { return 0 }
func (p *BlockDelta) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.parent.GetLogJoint(visited) })
}
func (p *BlockDelta) ApplyGraphMove(m moves.GraphMove) error { return nil }
func (p *BlockDelta) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 { return p.parent.GetLogJointRatioFromGraphMove(visited, m) })
}
func (p *BlockDelta) ApplyLabelMove(m moves.LabelMove) error {
	return fmt.Errorf("%w: BlockDelta.ApplyLabelMove", ErrDepletedMethod)
}
func (p *BlockDelta) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 { return math.Inf(-1) })
}
