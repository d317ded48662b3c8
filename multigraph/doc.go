// Package multigraph provides the in-memory multigraph data structure
// consumed by the rest of this module: an undirected graph over a fixed
// vertex set {0,...,N-1} where each pair of vertices (including a vertex
// with itself) carries a non-negative integer edge multiplicity.
//
// It plays the same role for this module that core.Graph plays for
// lvlath: a single, composable representation with deterministic
// iteration, cheap mutation, and a small, well-documented surface. It
// differs from a general-purpose graph in one respect the rest of the
// module depends on: edges are not individually addressable. Only their
// multiplicity is tracked, so AddMultiedge/RemoveMultiedge/
// EdgeMultiplicity operate in amortized O(1) regardless of how many
// parallel edges exist between two vertices.
//
// Self-loops are first-class: a self-loop at v contributes 2 to
// Degree(v) (it consumes both of v's stubs) but is stored, and
// iterated by Edges, as a single multiplicity entry — matching the
// "self-loops contribute to L(r,r) once" convention used throughout the
// prior tree (see package prior).
package multigraph
