package generator

import (
	"github.com/katalvlaran/graphinf/multigraph"
	"github.com/katalvlaran/graphinf/rng"
	"gonum.org/v1/gonum/mat"
)

// newGraph returns an empty graph on n vertices, permitting self-loops
// when allowLoops is set (the allowLoops flag every likelihood in
// package likelihood is parameterised by).
func newGraph(n int, allowLoops bool) *multigraph.Graph {
	if allowLoops {
		return multigraph.NewGraph(n, multigraph.WithLoops())
	}
	return multigraph.NewGraph(n)
}

func allPairs(n int, allowLoops bool) []multigraph.Edge {
	pairs := make([]multigraph.Edge, 0, n*(n+1)/2)
	for u := 0; u < n; u++ {
		start := u + 1
		if allowLoops {
			start = u
		}
		for v := start; v < n; v++ {
			pairs = append(pairs, multigraph.Edge{From: u, To: v})
		}
	}
	return pairs
}

// SampleErdosRenyi draws a simple (no parallel edges) Erdos-Renyi graph
// on n vertices with exactly e edges, chosen uniformly among the
// C(A,e) subsets of the A available vertex pairs (spec.md §4.6/§4.7).
func SampleErdosRenyi(source *rng.Source, n, e int, allowLoops bool) *multigraph.Graph {
	g := newGraph(n, allowLoops)
	pairs := allPairs(n, allowLoops)
	if e > len(pairs) {
		e = len(pairs)
	}
	chosen := SampleUniformSequenceWithoutReplacement(source, len(pairs), e)
	for _, idx := range chosen {
		p := pairs[idx]
		_ = g.AddMultiedge(p.From, p.To, 1)
	}
	return g
}

// SampleMultigraphErdosRenyi draws a multigraph Erdos-Renyi sample: e
// edges are thrown uniformly and independently at the A available
// vertex pairs, so a pair may receive multiplicity > 1 (spec.md §4.6
// "with parallel edges").
func SampleMultigraphErdosRenyi(source *rng.Source, n, e int, allowLoops bool) *multigraph.Graph {
	g := newGraph(n, allowLoops)
	pairs := allPairs(n, allowLoops)
	for i := 0; i < e; i++ {
		p := pairs[source.UniformInt(0, len(pairs)-1)]
		_ = g.AddMultiedge(p.From, p.To, 1)
	}
	return g
}

// SampleStubLabelledErdosRenyi is the stub-labelled counterpart: it
// produces the same marginal graph distribution as the multigraph
// variant (the stub labelling only distinguishes which half-edge
// matched which, a distinction the returned multigraph.Graph erases),
// but is kept as a distinct entry point because the likelihood side
// scores it with a different normalising constant (spec.md §4.6).
func SampleStubLabelledErdosRenyi(source *rng.Source, n, e int, allowLoops bool) *multigraph.Graph {
	return SampleMultigraphErdosRenyi(source, n, e, allowLoops)
}

// SampleConfiguration draws a multigraph realising the stub-matching
// construction of the configuration model: lay out degrees[v] stubs
// per vertex, then pair stubs via a uniformly random perfect matching
// (spec.md §4.6/§4.7). If the stub count is odd, the last stub laid out
// (belonging to the highest-indexed vertex with nonzero degree) is
// dropped before matching.
func SampleConfiguration(source *rng.Source, degrees []int) *multigraph.Graph {
	n := len(degrees)
	g := newGraph(n, true)
	stubs := make([]int, 0)
	for v, k := range degrees {
		for i := 0; i < k; i++ {
			stubs = append(stubs, v)
		}
	}
	if len(stubs)%2 != 0 {
		stubs = stubs[:len(stubs)-1]
	}
	source.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })
	for i := 0; i+1 < len(stubs); i += 2 {
		_ = g.AddMultiedge(stubs[i], stubs[i+1], 1)
	}
	return g
}

// SampleSBM draws a "uniform multigraph" stochastic block model sample
// (spec.md §4.6/§4.8): the partition fixes blockSizes, and each
// block-pair (r,s) gets labelGraph(r,s) edges chosen uniformly among
// that pair's available vertex pairs, independently of other pairs.
func SampleSBM(source *rng.Source, partition []int, labelGraph *mat.SymDense, allowLoops bool) *multigraph.Graph {
	n := len(partition)
	g := newGraph(n, allowLoops)
	byBlock := make(map[int][]int)
	for v, lbl := range partition {
		byBlock[lbl] = append(byBlock[lbl], v)
	}
	b, _ := labelGraph.Dims()
	for r := 0; r < b; r++ {
		for s := r; s < b; s++ {
			e := int(labelGraph.At(r, s))
			if e == 0 {
				continue
			}
			var pairs []multigraph.Edge
			if r == s {
				verts := byBlock[r]
				for i, u := range verts {
					start := i + 1
					if allowLoops {
						start = i
					}
					for j := start; j < len(verts); j++ {
						pairs = append(pairs, multigraph.Edge{From: u, To: verts[j]})
					}
				}
			} else {
				for _, u := range byBlock[r] {
					for _, v := range byBlock[s] {
						pairs = append(pairs, multigraph.Edge{From: u, To: v})
					}
				}
			}
			if len(pairs) == 0 {
				continue
			}
			if e > len(pairs) {
				e = len(pairs)
			}
			chosen := SampleUniformSequenceWithoutReplacement(source, len(pairs), e)
			for _, idx := range chosen {
				p := pairs[idx]
				_ = g.AddMultiedge(p.From, p.To, 1)
			}
		}
	}
	return g
}

// SampleStubLabelledSBM draws a stub-labelled SBM sample: degrees fixes
// each vertex's stub count, and stubs are matched only within the
// block pair their labelGraph entry permits, by restricting the
// configuration-model matching to one block pair at a time (spec.md
// §4.6/§4.8).
func SampleStubLabelledSBM(source *rng.Source, partition []int, degrees []int, labelGraph *mat.SymDense) *multigraph.Graph {
	n := len(partition)
	g := newGraph(n, true)
	byBlock := make(map[int][]int)
	for v, lbl := range partition {
		byBlock[lbl] = append(byBlock[lbl], v)
	}
	b, _ := labelGraph.Dims()
	remaining := make([]int, n)
	copy(remaining, degrees)
	for r := 0; r < b; r++ {
		for s := r; s < b; s++ {
			e := int(labelGraph.At(r, s))
			if e == 0 {
				continue
			}
			stubsR := make([]int, 0)
			stubsS := make([]int, 0)
			if r == s {
				for _, v := range byBlock[r] {
					for remaining[v] > 0 && len(stubsR) < 2*e {
						stubsR = append(stubsR, v)
						remaining[v]--
					}
				}
				source.Shuffle(len(stubsR), func(i, j int) { stubsR[i], stubsR[j] = stubsR[j], stubsR[i] })
				for i := 0; i+1 < len(stubsR); i += 2 {
					_ = g.AddMultiedge(stubsR[i], stubsR[i+1], 1)
				}
				continue
			}
			for _, v := range byBlock[r] {
				for remaining[v] > 0 && len(stubsR) < e {
					stubsR = append(stubsR, v)
					remaining[v]--
				}
			}
			for _, v := range byBlock[s] {
				for remaining[v] > 0 && len(stubsS) < e {
					stubsS = append(stubsS, v)
					remaining[v]--
				}
			}
			source.Shuffle(len(stubsS), func(i, j int) { stubsS[i], stubsS[j] = stubsS[j], stubsS[i] })
			for i := 0; i < len(stubsR) && i < len(stubsS); i++ {
				_ = g.AddMultiedge(stubsR[i], stubsS[i], 1)
			}
		}
	}
	return g
}

// SampleDCSBM draws a degree-corrected stochastic block model sample:
// identical construction to the stub-labelled SBM, since the degree
// correction lives entirely in which degree sequence is supplied
// (spec.md §4.6 "DC-SBM likelihood reuses the stub-labelled SBM
// numerator").
func SampleDCSBM(source *rng.Source, partition []int, degrees []int, labelGraph *mat.SymDense) *multigraph.Graph {
	return SampleStubLabelledSBM(source, partition, degrees, labelGraph)
}
