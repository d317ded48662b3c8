// Package likelihood implements the C6 graph likelihoods: the
// probability of an observed (multi)graph given the latent variables
// a random-graph model conditions on (edge count, degree sequence,
// block partition, label graph). Every function here is a pure scoring
// function over a multigraph.Graph snapshot; none of them sample or
// mutate.
package likelihood
