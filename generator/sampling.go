package generator

import (
	"math"
	"sort"

	"github.com/katalvlaran/graphinf/numerics"
	"github.com/katalvlaran/graphinf/rng"
)

// SampleUniformSequenceWithoutReplacement draws k distinct values from
// {0,...,n-1} via a partial Fisher-Yates shuffle: O(n) to lay out the
// pool, then O(k) swaps (spec.md §4.7).
func SampleUniformSequenceWithoutReplacement(source *rng.Source, n, k int) []int {
	if k > n {
		k = n
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := source.UniformInt(i, n-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// SampleRandomComposition draws a uniformly random strict composition
// of n into k positive parts: k-1 distinct sorted cut points in
// {1,...,n-1} give the part boundaries (spec.md §4.7).
func SampleRandomComposition(source *rng.Source, n, k int) []int {
	if k <= 1 {
		return []int{n}
	}
	cuts := SampleUniformSequenceWithoutReplacement(source, n-1, k-1)
	for i := range cuts {
		cuts[i]++ // shift {0,...,n-2} to {1,...,n-1}
	}
	sort.Ints(cuts)
	parts := make([]int, k)
	prev := 0
	for i, c := range cuts {
		parts[i] = c - prev
		prev = c
	}
	parts[k-1] = n - prev
	return parts
}

// SampleRandomWeakComposition draws a uniformly random weak
// composition of n into k nonnegative parts via the stars-and-bars
// transform c_i = x_i - x_{i-1} - 1 applied to a strict composition of
// n+k over k parts (spec.md §4.7).
func SampleRandomWeakComposition(source *rng.Source, n, k int) []int {
	if k <= 1 {
		return []int{n}
	}
	strict := SampleRandomComposition(source, n+k, k)
	parts := make([]int, k)
	for i, v := range strict {
		parts[i] = v - 1
	}
	return parts
}

func logMultinomialOfCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	return numerics.LogMultinomialCoefficient(total, counts)
}

func sortedCounts(parts []int, k int) []int {
	sorted := make([]int, k)
	copy(sorted, parts)
	sort.Ints(sorted)
	return sorted
}

// SampleRandomRestrictedPartition draws an (approximately) uniform
// unordered partition of n into k nonnegative parts via a length-T
// Metropolis chain over weak compositions (spec.md §4.7): propose a
// fresh weak composition, accept with probability
// exp(logMultinomial(sorted_prev) - logMultinomial(sorted_next)), which
// biases the chain's stationary distribution toward partitions (each
// reachable by multinomial(n; counts) many weak compositions) rather
// than compositions.
func SampleRandomRestrictedPartition(source *rng.Source, n, k, T int) []int {
	current := SampleRandomWeakComposition(source, n, k)
	for t := 0; t < T; t++ {
		proposal := SampleRandomWeakComposition(source, n, k)
		logPrev := logMultinomialOfCounts(sortedCounts(current, k))
		logNext := logMultinomialOfCounts(sortedCounts(proposal, k))
		logAccept := logPrev - logNext
		if logAccept >= 0 || source.UniformReal(0, 1) < expClamped(logAccept) {
			current = proposal
		}
	}
	return current
}

func expClamped(x float64) float64 {
	if x > 0 {
		return 1
	}
	return math.Exp(x)
}

// SampleRandomPermutation returns a uniformly random sequence of length
// sum(nk) whose value-count multiset matches nk (spec.md §4.7): lay out
// each label its multiplicity-many times, then Fisher-Yates shuffle.
func SampleRandomPermutation(source *rng.Source, nk map[int]int) []int {
	total := 0
	for _, c := range nk {
		total += c
	}
	out := make([]int, 0, total)
	labels := make([]int, 0, len(nk))
	for lbl := range nk {
		labels = append(labels, lbl)
	}
	sort.Ints(labels)
	for _, lbl := range labels {
		for i := 0; i < nk[lbl]; i++ {
			out = append(out, lbl)
		}
	}
	source.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
