// Package numerics implements the combinatorial and probability
// building blocks consumed by the prior tree and likelihoods (spec.md
// §6): log-factorial, log-binomial, log-multiset, log-multinomial
// coefficients, Poisson log-PMFs, and the log integer-partition count
// used by the uniform-hyper degree prior.
//
// Every function works in log-domain throughout so it stays accurate
// for the edge/vertex counts this engine targets; see DESIGN.md for why
// this is implemented on math.Lgamma rather than a combinatorics
// library.
package numerics
