package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/prior"
	"github.com/katalvlaran/graphinf/rng"
)

// Sentinel errors for model-level operations, layered on top of the
// package prior taxonomy (spec.md §7): a model-level failure is either
// one of prior's four kinds, surfaced unchanged, or ErrIncompatibleGraph
// when a caller hands a graph that could not have come from this
// model's parents.
var (
	// ErrIncompatibleGraph indicates IsCompatible(g) is false.
	ErrIncompatibleGraph = errors.New("model: graph incompatible with model parents")
)

// GraphMove and LabelMove ratio functions never return an error for an
// invalid move (spec.md §7): they return math.Inf(-1) and let the
// caller's Metropolis rule reject naturally.
var negInf = math.Inf(-1)

// Option configures a model at construction time, mirroring the
// teacher's functional-option pattern (core.GraphOption).
type Option func(*config)

type config struct {
	allowLoops    bool
	allowParallel bool
}

func newConfig(opts ...Option) config {
	c := config{}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithLoops permits self-loops in the sampled/scored graph.
func WithLoops() Option { return func(c *config) { c.allowLoops = true } }

// WithParallelEdges permits parallel (multi-)edges.
func WithParallelEdges() Option { return func(c *config) { c.allowParallel = true } }

// GraphModel is the C7 contract every random-graph model implements
// (spec.md §3 "Random-graph model"): sample the full generative chain,
// score it three ways, and apply or score a GraphMove in O(locality).
type GraphModel interface {
	// Sample draws a fresh joint state: priors leaves-first, then the
	// graph itself (spec.md §4.1 "sample() rule").
	Sample(source *rng.Source)
	// Graph returns the model's owned multigraph.
	Graph() *multigraph.Graph
	GetLogLikelihood() float64
	GetLogPrior() float64
	GetLogJoint() float64
	ApplyGraphMove(m moves.GraphMove) error
	GetLogLikelihoodRatioFromGraphMove(m moves.GraphMove) float64
	GetLogPriorRatioFromGraphMove(m moves.GraphMove) float64
	GetLogJointRatioFromGraphMove(m moves.GraphMove) float64
	// IsCompatible reports whether g could have been produced under
	// the model's current parents (spec.md §3).
	IsCompatible(g *multigraph.Graph) bool
	// CheckConsistency deep-checks every invariant the model's prior
	// chain is supposed to maintain incrementally, returning
	// ErrConsistency (wrapped) on the first violation found.
	CheckConsistency() error
}

// LabelledGraphModel additionally exposes the vertex partition and
// label-move operations, for models whose prior chain includes a
// Block/BlockCount/LabelGraph triple (spec.md §3 "For labelled models").
type LabelledGraphModel interface {
	GraphModel
	Labels() []int
	// SetLabels injects an external partition, optionally reducing it
	// to first-occurrence order (spec.md §3 "setLabels(..., reduce?)").
	SetLabels(b []int, reduce bool) error
	ApplyLabelMove(m moves.LabelMove) error
	GetLogLikelihoodRatioFromLabelMove(m moves.LabelMove) float64
	GetLogPriorRatioFromLabelMove(m moves.LabelMove) float64
	GetLogJointRatioFromLabelMove(m moves.LabelMove) float64
}

// NestedGraphModel is the nested counterpart: the partition is a stack
// of levels rather than a single one (spec.md §4.8).
type NestedGraphModel interface {
	GraphModel
	GetDepth() int
	GetNestedLabel(v, level int) int
	SetNestedLabels(bs [][]int, reduce bool) error
	SampleOnlyLabels(source *rng.Source)
	ReduceLabels()
	ApplyLabelMove(m moves.LabelMove) error
	GetLogLikelihoodRatioFromLabelMove(m moves.LabelMove) float64
	GetLogPriorRatioFromLabelMove(m moves.LabelMove) float64
	GetLogJointRatioFromLabelMove(m moves.LabelMove) float64
}

// applyGraphMoveToGraph mutates g per spec.md §3 "GraphMove" semantics:
// apply removes then adds.
func applyGraphMoveToGraph(g *multigraph.Graph, m moves.GraphMove) error {
	for _, e := range m.RemovedEdges {
		if err := g.RemoveMultiedge(e.U, e.V, 1); err != nil {
			return fmt.Errorf("%w: %v", prior.ErrInvalidMove, err)
		}
	}
	for _, e := range m.AddedEdges {
		if err := g.AddMultiedge(e.U, e.V, 1); err != nil {
			return fmt.Errorf("%w: %v", prior.ErrInvalidMove, err)
		}
	}
	return nil
}

// recomputeDegreeSequence returns the graph's current degree sequence,
// used by IsCompatible/CheckConsistency checks shared across models.
func recomputeDegreeSequence(g *multigraph.Graph) []int {
	d := make([]int, g.Size())
	for v := range d {
		d[v] = g.Degree(v)
	}
	return d
}

// copyGraphInto replaces dst's edges with src's, in place, so that any
// prior holding a long-lived pointer to dst (LabelGraph, Degree) keeps
// seeing a valid, up-to-date graph after a fresh Sample() (spec.md §3
// "Ownership: exclusively owned by the enclosing random-graph model").
func copyGraphInto(dst, src *multigraph.Graph) {
	dst.Clear()
	for _, e := range src.Edges() {
		_ = dst.AddMultiedge(e.From, e.To, e.Multiplicity)
	}
}

func sequencesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
