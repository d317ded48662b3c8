// Package prior implements the generative-model tree's prior nodes
// (spec.md §4.1-§4.5): the uniform sample/score/apply/ratio protocol
// (C1), and the leaf, block, label-graph, and degree priors (C2-C5),
// flat and nested.
//
// The original C++ design marks each node "processed" with a boolean
// field cleared by the outermost recursive call, so a node reachable
// from two different parents (a diamond in the dependency DAG, e.g. a
// BlockPrior that is the parent of both a LabelGraphPrior and a
// vertex-labelled DegreePrior) contributes to a joint score exactly
// once. spec.md §9 flags that pattern for rework: this package instead
// threads a freshly-allocated VisitSet through every recursive call.
// The outermost public method (GetLogJoint, GetLogJointRatioFromGraphMove,
// ...) allocates the set; every internal call receives it by reference.
// Because the set lives only on the call stack, a panic anywhere in the
// traversal unwinds without leaving any node "stuck" marked-visited —
// there is nothing to clear.
package prior
