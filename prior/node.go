package prior

import (
	"errors"

	"github.com/katalvlaran/graphinf/moves"
)

// Error taxonomy (spec.md §7). Ratio functions never return these:
// an invalid move's ratio is -Inf (math.Inf(-1)), letting MCMC reject
// it naturally. Apply functions return them.
var (
	// ErrInvalidMove indicates a move would violate a support invariant
	// (negative count, removing a non-existent edge, destroying a block
	// that a parent level still depends on).
	ErrInvalidMove = errors.New("prior: invalid move")

	// ErrConsistency indicates a checkConsistency invariant failed.
	ErrConsistency = errors.New("prior: consistency check failed")

	// ErrSafety indicates a required parent reference is missing.
	ErrSafety = errors.New("prior: missing required parent reference")

	// ErrDepletedMethod indicates a method was called on a variant
	// where it has no meaning (e.g. a flat accessor on a nested-only
	// prior).
	ErrDepletedMethod = errors.New("prior: method not meaningful for this variant")
)

// VisitSet is the recursion guard described in doc.go: a set of node
// identities (pointer values) already scored or applied in the current
// traversal. A zero-value VisitSet is not usable; use NewVisitSet.
type VisitSet map[any]struct{}

// NewVisitSet allocates a fresh, empty VisitSet. Call this once at the
// outermost public entry point of a traversal (GetLogJoint and
// friends); never reuse a VisitSet across two separate top-level calls.
func NewVisitSet() VisitSet { return make(VisitSet) }

// guardValue runs fn() and returns its result the first time id is
// seen in visited; on any later call with the same id in the same
// traversal it returns zero without invoking fn. id is typically the
// node's own pointer.
func guardValue(visited VisitSet, id any, fn func() float64) float64 {
	if _, seen := visited[id]; seen {
		return 0
	}
	visited[id] = struct{}{}
	return fn()
}

// Joint is implemented by every prior node that contributes a scalar
// log-joint term: leaf priors compute it directly; composite priors
// sum their own likelihood with their parents' GetLogJoint (guarded).
type Joint interface {
	// GetLogJoint returns this node's own log-likelihood plus the
	// recursively-guarded sum of every parent's GetLogJoint.
	GetLogJoint(visited VisitSet) float64
	// GetLogJointRatioFromGraphMove returns the change in GetLogJoint
	// induced by applying m, without mutating state.
	GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64
}

// LabelAware is additionally implemented by priors whose state depends
// on the vertex partition (Block, LabelGraph, the vertex-labelled Degree
// prior). BlockCount has GetLogJointRatioFromLabelMove but no
// ApplyLabelMove, so it does not implement LabelAware.
type LabelAware interface {
	Joint
	GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64
	ApplyLabelMove(m moves.LabelMove) error
}
