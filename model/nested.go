package model

import (
	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/katalvlaran/graphinf/rng"
	"gonum.org/v1/gonum/mat"
)

// nestedBlockLevel0 adapts a prior.NestedBlock's level-0 partition to
// the flat prior.Block interface, so level-0-only consumers (the
// vertex-labelled degree prior) can be built on top of a nested block
// stack without duplicating its scoring logic (spec.md §4.8's nested
// variants share the flat identities at their base level).
type nestedBlockLevel0 struct {
	nb prior.NestedBlock
}

func (a *nestedBlockLevel0) Partition() []int { return a.nb.PartitionAtLevel(0) }
func (a *nestedBlockLevel0) VertexCount(label int) int {
	count := 0
	for _, lbl := range a.nb.PartitionAtLevel(0) {
		if lbl == label {
			count++
		}
	}
	return count
}
func (a *nestedBlockLevel0) EffectiveBlockCount() int {
	seen := make(map[int]struct{})
	for _, lbl := range a.nb.PartitionAtLevel(0) {
		seen[lbl] = struct{}{}
	}
	return len(seen)
}
func (a *nestedBlockLevel0) MaxBlockCount() int {
	max := -1
	for _, lbl := range a.nb.PartitionAtLevel(0) {
		if lbl > max {
			max = lbl
		}
	}
	return max + 1
}
func (a *nestedBlockLevel0) SetPartition(b []int, reduce bool) error {
	return prior.ErrDepletedMethod // level 0 is set via the owning nested model's SetNestedLabels
}
func (a *nestedBlockLevel0) Sample(source *rng.Source) {}
func (a *nestedBlockLevel0) GetLogJoint(visited prior.VisitSet) float64 {
	return a.nb.GetLogJoint(visited)
}
func (a *nestedBlockLevel0) GetLogJointRatioFromGraphMove(visited prior.VisitSet, m moves.GraphMove) float64 {
	return a.nb.GetLogJointRatioFromGraphMove(visited, m)
}
func (a *nestedBlockLevel0) ApplyLabelMove(m moves.LabelMove) error { return a.nb.ApplyLabelMove(m) }
func (a *nestedBlockLevel0) GetLogJointRatioFromLabelMove(visited prior.VisitSet, m moves.LabelMove) float64 {
	return a.nb.GetLogJointRatioFromLabelMove(visited, m)
}

// nestedLabelGraphLevel0 adapts a prior.NestedLabelGraph's level-0
// matrix to the flat prior.LabelGraph interface, the label-graph
// counterpart of nestedBlockLevel0.
type nestedLabelGraphLevel0 struct {
	nlg prior.NestedLabelGraph
}

func (a *nestedLabelGraphLevel0) BlockCount() int       { return a.nlg.BlockCountAtLevel(0) }
func (a *nestedLabelGraphLevel0) Matrix() *mat.SymDense  { return a.nlg.MatrixAtLevel(0) }
func (a *nestedLabelGraphLevel0) EdgeCounts() []int {
	m := a.nlg.MatrixAtLevel(0)
	b, _ := m.Dims()
	counts := make([]int, b)
	for r := 0; r < b; r++ {
		sum := m.At(r, r)
		for s := 0; s < b; s++ {
			if s != r {
				sum += m.At(r, s)
			}
		}
		counts[r] = int(sum)
	}
	return counts
}
func (a *nestedLabelGraphLevel0) RecomputeStateFromGraph() { a.nlg.RecomputeStateFromGraph() }

// ApplyGraphMove recomputes from scratch rather than delegating to a
// matching method on prior.NestedLabelGraph (that interface has none:
// every concrete nested label-graph variant folds ApplyGraphMove into
// a full RecomputeStateFromGraph internally since a single edge change
// can ripple through every coarser level).
func (a *nestedLabelGraphLevel0) ApplyGraphMove(m moves.GraphMove) error {
	a.nlg.RecomputeStateFromGraph()
	return nil
}
func (a *nestedLabelGraphLevel0) GetLogJoint(visited prior.VisitSet) float64 {
	return a.nlg.GetLogJoint(visited)
}
func (a *nestedLabelGraphLevel0) GetLogJointRatioFromGraphMove(visited prior.VisitSet, m moves.GraphMove) float64 {
	return a.nlg.GetLogJointRatioFromGraphMove(visited, m)
}
func (a *nestedLabelGraphLevel0) ApplyLabelMove(m moves.LabelMove) error {
	return a.nlg.ApplyLabelMove(m)
}
func (a *nestedLabelGraphLevel0) GetLogJointRatioFromLabelMove(visited prior.VisitSet, m moves.LabelMove) float64 {
	return a.nlg.GetLogJointRatioFromLabelMove(visited, m)
}
