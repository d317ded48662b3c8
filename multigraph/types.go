package multigraph

import "errors"

// Sentinel errors for multigraph operations, following the teacher's
// convention of one error value per failure mode (see core.ErrXxx).
var (
	// ErrVertexOutOfRange indicates a vertex index outside [0, N).
	ErrVertexOutOfRange = errors.New("multigraph: vertex index out of range")

	// ErrNegativeMultiplicity indicates an attempt to remove more copies
	// of an edge than currently exist.
	ErrNegativeMultiplicity = errors.New("multigraph: multiplicity would become negative")

	// ErrLoopNotAllowed indicates a self-loop was attempted on a Graph
	// constructed without WithLoops.
	ErrLoopNotAllowed = errors.New("multigraph: self-loop not allowed")
)

// Edge is a (from, to, multiplicity) triple as returned by Edges. From
// and To are canonicalised From <= To; a self-loop has From == To.
type Edge struct {
	From         int
	To           int
	Multiplicity int
}

// Option configures a Graph before construction, mirroring the
// teacher's GraphOption pattern (core.WithDirected, core.WithLoops, ...).
type Option func(g *Graph)

// WithLoops permits self-loops (From == To edges). Without it,
// AddMultiedge(v, v, m) returns ErrLoopNotAllowed.
func WithLoops() Option {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is an undirected multigraph over vertices {0, ..., N-1}.
//
// adjacency[u][v] stores the multiplicity of the (u,v) edge for u != v;
// a self-loop at v is stored only at adjacency[v][v] (not mirrored).
// degree[v] is maintained incrementally so Degree is O(1); it counts a
// self-loop twice, matching "sum of degrees = 2E".
type Graph struct {
	n          int
	allowLoops bool
	adjacency  []map[int]int
	degree     []int
	totalEdges int // E: total number of edges (a multiplicity-m edge counts as m)
}

// NewGraph creates an empty multigraph over n vertices.
// Complexity: O(n).
func NewGraph(n int, opts ...Option) *Graph {
	g := &Graph{
		n:         n,
		adjacency: make([]map[int]int, n),
		degree:    make([]int, n),
	}
	for i := range g.adjacency {
		g.adjacency[i] = make(map[int]int)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Size returns the number of vertices N.
func (g *Graph) Size() int { return g.n }

// AllowsLoops reports whether this Graph was constructed with WithLoops.
func (g *Graph) AllowsLoops() bool { return g.allowLoops }

func canonical(u, v int) (int, int) {
	if u > v {
		return v, u
	}
	return u, v
}

func (g *Graph) checkVertex(v int) error {
	if v < 0 || v >= g.n {
		return ErrVertexOutOfRange
	}
	return nil
}
