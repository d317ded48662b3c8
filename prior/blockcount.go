package prior

import (
	"fmt"
	"math"

	"github.com/katalvlaran/graphinf/moves"
	"github.com/katalvlaran/graphinf/numerics"
	"github.com/katalvlaran/graphinf/rng"
)

// BlockCount is the C2 block-count prior: a leaf node over the number
// of blocks B (spec.md §3 "Block-count prior"). Its label-move ratio
// scores the shift of B by the move's AddedLabels: always 0 for the
// Delta variant, LogLikelihoodFromState(B+AddedLabels) - LogLikelihood()
// for the others.
type BlockCount interface {
	Joint
	State() int
	Sample(source *rng.Source)
	// SetState overrides B directly; used by an owning model to keep a
	// BlockCount prior's state in step with an applied LabelMove's
	// AddedLabels (spec.md §4.8 "State = (currentDepth, blocksPerLevel, ...)").
	SetState(b int)
	LogLikelihoodFromState(b int) float64
	LogLikelihood() float64
	GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64
}

// BlockCountDelta fixes B to a single value (spec.md §3 Delta).
type BlockCountDelta struct {
	state int
}

// NewBlockCountDelta returns a BlockCountDelta fixed at b0.
func NewBlockCountDelta(b0 int) *BlockCountDelta { return &BlockCountDelta{state: b0} }

func (p *BlockCountDelta) State() int             { return p.state }
func (p *BlockCountDelta) SetState(b int)         { p.state = b }
func (p *BlockCountDelta) Sample(source *rng.Source) {}
func (p *BlockCountDelta) LogLikelihoodFromState(b int) float64 {
	if b != p.state {
		return math.Inf(-1)
	}
	return 0
}
func (p *BlockCountDelta) LogLikelihood() float64 { return p.LogLikelihoodFromState(p.state) }
func (p *BlockCountDelta) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() })
}
func (p *BlockCountDelta) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 { return 0 })
}
func (p *BlockCountDelta) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 { return 0 })
}

// BlockCountPoisson draws B ~ zero-truncated Poisson(mu) (spec.md §3 Poisson).
type BlockCountPoisson struct {
	state int
	mean  float64
}

// NewBlockCountPoisson returns a BlockCountPoisson with the given mean.
func NewBlockCountPoisson(mean float64) *BlockCountPoisson {
	return &BlockCountPoisson{mean: mean}
}

func (p *BlockCountPoisson) State() int     { return p.state }
func (p *BlockCountPoisson) SetState(b int) { p.state = b }
func (p *BlockCountPoisson) Sample(source *rng.Source) {
	b := source.Poisson(p.mean)
	for b == 0 {
		b = source.Poisson(p.mean)
	}
	p.state = b
}
func (p *BlockCountPoisson) LogLikelihoodFromState(b int) float64 {
	if b < 1 {
		return math.Inf(-1)
	}
	return numerics.LogZeroTruncatedPoissonPMF(b, p.mean)
}
func (p *BlockCountPoisson) LogLikelihood() float64 { return p.LogLikelihoodFromState(p.state) }
func (p *BlockCountPoisson) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() })
}
func (p *BlockCountPoisson) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 { return 0 })
}
func (p *BlockCountPoisson) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		next := p.state + m.AddedLabels
		return p.LogLikelihoodFromState(next) - p.LogLikelihood()
	})
}

// BlockCountUniform draws B uniformly from [min, max] (spec.md §3 Uniform).
type BlockCountUniform struct {
	state    int
	min, max int
}

// NewBlockCountUniform returns a BlockCountUniform over [min, max].
func NewBlockCountUniform(min, max int) (*BlockCountUniform, error) {
	if min < 1 || max < min {
		return nil, fmt.Errorf("%w: BlockCountUniform requires 1 <= min <= max", ErrInvalidMove)
	}
	return &BlockCountUniform{min: min, max: max}, nil
}

func (p *BlockCountUniform) State() int     { return p.state }
func (p *BlockCountUniform) SetState(b int) { p.state = b }
func (p *BlockCountUniform) Sample(source *rng.Source) {
	p.state = source.UniformInt(p.min, p.max)
}
func (p *BlockCountUniform) LogLikelihoodFromState(b int) float64 {
	if b < p.min || b > p.max {
		return math.Inf(-1)
	}
	return -math.Log(float64(p.max - p.min + 1))
}
func (p *BlockCountUniform) LogLikelihood() float64 { return p.LogLikelihoodFromState(p.state) }
func (p *BlockCountUniform) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() })
}
func (p *BlockCountUniform) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 { return 0 })
}
func (p *BlockCountUniform) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		next := p.state + m.AddedLabels
		return p.LogLikelihoodFromState(next) - p.LogLikelihood()
	})
}

// NestedBlockCount holds a vector B0,B1,...,B_{D-1} of strictly
// decreasing block counts per level, terminating (implicitly) at 1
// (spec.md §3 "Nested variant"). Depth is the first index after which
// the sequence is constantly 1.
type NestedBlockCount struct {
	nested    []int
	depth     int
	graphSize int
}

// NewNestedBlockCount returns a NestedBlockCount prior for a graph of
// the given size; graphSize bounds the level-0 block count.
func NewNestedBlockCount(graphSize int) *NestedBlockCount {
	return &NestedBlockCount{graphSize: graphSize}
}

// Depth returns the current nesting depth.
func (p *NestedBlockCount) Depth() int { return p.depth }

// NestedState returns the full per-level block-count vector.
func (p *NestedBlockCount) NestedState() []int { return append([]int(nil), p.nested...) }

// StateAtLevel returns the block count at level (0 = flat).
func (p *NestedBlockCount) StateAtLevel(level int) int { return p.nested[level] }

// State returns the flat (level-0) block count, satisfying BlockCount.
func (p *NestedBlockCount) State() int { return p.nested[0] }

// SetState overrides the level-0 block count (BlockCount interface
// compatibility); prefer SetNestedState for full control.
func (p *NestedBlockCount) SetState(b int) {
	if len(p.nested) == 0 {
		p.nested = []int{b}
		p.depth = 1
		return
	}
	p.nested[0] = b
}

func recomputeDepth(nested []int) int {
	depth := len(nested)
	for i := len(nested) - 1; i > 0; i-- {
		if nested[i] == 1 {
			depth--
		} else {
			break
		}
	}
	return depth
}

// SetNestedState installs a full per-level vector and recomputes depth.
func (p *NestedBlockCount) SetNestedState(nested []int) {
	p.nested = append([]int(nil), nested...)
	p.depth = recomputeDepth(p.nested)
}

// SetLevelState overrides the block count at one level in place.
func (p *NestedBlockCount) SetLevelState(level, b int) {
	p.nested[level] = b
	if level < p.depth-1 && b == 1 {
		p.depth = level + 1
	}
}

// CreateNewLevel appends a new terminal level (block count 1).
func (p *NestedBlockCount) CreateNewLevel() {
	p.nested = append(p.nested, 1)
	p.depth++
}

// DestroyLastLevel removes the deepest level.
func (p *NestedBlockCount) DestroyLastLevel() {
	p.nested = p.nested[:len(p.nested)-1]
	p.depth--
}

// Sample draws a fresh nested block-count sequence: a uniform value in
// [1, graphSize-1] at level 0, then repeatedly a uniform value in
// [1, previous-1] until a level hits 1 (spec.md §3's "terminal 1").
func (p *NestedBlockCount) Sample(source *rng.Source) {
	nested := []int{source.UniformInt(1, p.graphSize-1)}
	for nested[len(nested)-1] != 1 {
		prev := nested[len(nested)-1]
		nested = append(nested, source.UniformInt(1, prev-1))
	}
	p.SetNestedState(nested)
}

// LogLikelihoodFromNestedState scores a uniform draw over strictly
// decreasing nested block counts terminating at 1.
func (p *NestedBlockCount) LogLikelihoodFromNestedState(nested []int) float64 {
	for l := 1; l < len(nested); l++ {
		if nested[l-1] <= nested[l] {
			return math.Inf(-1)
		}
	}
	ll := -math.Log(float64(p.graphSize - 1))
	for l := 0; l < len(nested)-1; l++ {
		ll -= math.Log(float64(nested[l] - 1))
	}
	return ll
}

// LogLikelihood scores the current nested state.
func (p *NestedBlockCount) LogLikelihood() float64 {
	return p.LogLikelihoodFromNestedState(p.nested)
}

func (p *NestedBlockCount) GetLogJoint(visited VisitSet) float64 {
	return guardValue(visited, p, func() float64 { return p.LogLikelihood() })
}
func (p *NestedBlockCount) GetLogJointRatioFromGraphMove(visited VisitSet, m moves.GraphMove) float64 {
	return guardValue(visited, p, func() float64 { return 0 })
}

// GetLogJointRatioFromLabelMove scores the ratio at the move's level;
// AddedLabels of +-1 shifts that level's block count, possibly creating
// or destroying the deepest level (handled by the owning model before
// this is called).
func (p *NestedBlockCount) GetLogJointRatioFromLabelMove(visited VisitSet, m moves.LabelMove) float64 {
	return guardValue(visited, p, func() float64 {
		before := p.LogLikelihood()
		next := append([]int(nil), p.nested...)
		next[m.Level] += m.AddedLabels
		return p.LogLikelihoodFromNestedState(next) - before
	})
}
