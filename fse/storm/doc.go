// Package storm refines a single protofeature into a converged feature
// definition through a fixed-point iteration over two coupled discrete
// state variables: the sample subset and the spectral region.
//
// Each iteration first re-screens the full sample population against the
// current reference shape (subset selection), then re-evaluates every
// region position against a STOCSY driver vector drawn from the subset
// (reference update), trimming positions that lose significance and
// expanding the surviving span to recover peak shoulders. Convergence is
// declared by structural equality of consecutive (region, subset) pairs,
// not by a numeric tolerance; oscillation is caught by a hard iteration
// cap.
//
// Every exit is a tagged [Status], never an error: degenerate outcomes
// are expected in batch runs over thousands of protofeatures and are
// tallied by category, one run's failure never affecting another.
package storm
