package moves

// Edge is an unordered vertex pair, canonicalised U <= V. A self-loop
// has U == V.
type Edge struct {
	U, V int
}

// NewEdge returns the canonical form of the (u,v) pair.
func NewEdge(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// GraphMove is an ordered set of single-multiplicity edge removals
// followed by additions (spec.md §3): applying it removes then adds,
// so a multiplicity change of more than one at a single pair is
// expressed as several entries.
type GraphMove struct {
	RemovedEdges []Edge
	AddedEdges   []Edge
}

// Inverse returns the move that undoes m: added and removed are
// swapped, so applying m then m.Inverse() is the identity.
func (m GraphMove) Inverse() GraphMove {
	return GraphMove{
		RemovedEdges: append([]Edge(nil), m.AddedEdges...),
		AddedEdges:   append([]Edge(nil), m.RemovedEdges...),
	}
}

// EdgeCountDelta returns |added| - |removed|, the net change in edge
// count induced by m.
func (m GraphMove) EdgeCountDelta() int {
	return len(m.AddedEdges) - len(m.RemovedEdges)
}

// LabelMove changes vertex Vertex's label from PrevLabel to NextLabel
// at nesting Level (0 = flat). AddedLabels records whether applying
// the move creates (+1) or destroys (-1) a block at that level, or
// neither (0).
type LabelMove struct {
	Vertex      int
	PrevLabel   int
	NextLabel   int
	AddedLabels int
	Level       int
}

// Inverse returns the move that undoes m.
func (m LabelMove) Inverse() LabelMove {
	return LabelMove{
		Vertex:      m.Vertex,
		PrevLabel:   m.NextLabel,
		NextLabel:   m.PrevLabel,
		AddedLabels: -m.AddedLabels,
		Level:       m.Level,
	}
}

// IsNull reports whether m would be a no-op (prev and next label equal
// and no label created or destroyed).
func (m LabelMove) IsNull() bool {
	return m.PrevLabel == m.NextLabel && m.AddedLabels == 0
}
