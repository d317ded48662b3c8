// Package moves defines the two kinds of local perturbation the rest
// of this module scores incrementally (spec.md §3): GraphMove, an
// edit to the underlying multigraph's edge set, and LabelMove, a
// change to one vertex's block assignment at one level of a (possibly
// nested) partition.
package moves
