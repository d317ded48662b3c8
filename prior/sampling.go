package prior

import "github.com/katalvlaran/graphinf/rng"

// sampleRandomWeakComposition draws a uniformly random weak composition
// of n into b nonnegative parts (stars-and-bars), used by
// BlockUniformHyper.Sample to size each block before permuting vertices
// into them. Grounded on the stars-and-bars construction GraphInf's
// generators.cpp uses for restricted-partition sampling.
func sampleRandomWeakComposition(source *rng.Source, n, b int) map[int]int {
	parts := make(map[int]int, b)
	if b <= 1 {
		parts[0] = n
		return parts
	}
	total := n + b - 1
	cuts := make(map[int]struct{}, b-1)
	for len(cuts) < b-1 {
		cuts[source.UniformInt(1, total)] = struct{}{}
	}
	sorted := make([]int, 0, b-1)
	for c := range cuts {
		sorted = append(sorted, c)
	}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	prev := 0
	for lbl, cut := range sorted {
		parts[lbl] = cut - prev - 1
		prev = cut
	}
	parts[b-1] = total - prev
	return parts
}
