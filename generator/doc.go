// Package generator implements the C8 sampling generators: exact
// samplers for the combinatorial objects the prior tree needs
// (compositions, restricted partitions, permutations consistent with a
// multiset) and the graph generators built from them (Erdos-Renyi,
// configuration model, stochastic block model and its degree-corrected
// variant). These are used both to produce a model's initial state and,
// inside likelihood evaluation, as the reference distributions the
// closed-form scores in package likelihood integrate out (spec.md §4.7).
package generator
