// Package model composes the priors (package prior) and graph
// likelihoods (package likelihood) into complete random-graph models
// (C7): Erdos-Renyi, Configuration, the stochastic block model and its
// degree-corrected and nested variants, and planted partition. Every
// model exposes the same sample/score/apply/ratio/isCompatible
// contract (spec.md §4.8).
package model
