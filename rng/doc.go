// Package rng provides the seedable random-number resource consumed
// throughout this module (spec.md §6, §9): every prior, generator, and
// proposer takes a *rng.Source explicitly rather than touching a
// process-global generator, so MCMC replicas can be seeded
// deterministically and run independently (spec.md §5).
//
// Source wraps math/rand.Rand and adds the discrete-distribution
// helpers (Poisson, Geometric, Discrete) the priors need, backed where
// a suitable ecosystem implementation exists by
// gonum.org/v1/gonum/stat/distuv.
package rng
