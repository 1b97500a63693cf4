// Package fse is the feature shape extraction engine: it decomposes a
// matrix of aligned 1-D spectra into statistically coherent features,
// sub-regions of the spectral axis whose intensity co-varies across a
// subset of samples.
//
// The pipeline runs strictly downstream:
//
//	spectral matrix -> corrpockets -> protofeatures -> refinement -> feature set
//
// Corrpockets (package fse/profile) capture local sliding-window
// correlation around every driver column. The pairer (package fse/pair)
// proposes two-peak protofeature hypotheses and estimates the dataset
// noise width. Each protofeature is refined independently (package
// fse/storm) into a converged feature or a tagged degenerate outcome;
// refinement runs share no mutable state and execute on a worker pool.
// The assembled [FeatureSet] carries the succeeded features with their
// intensity stacks, the shared axis, and the noise width; degenerate
// outcomes are tallied in [RunStats].
//
// The engine is a pure in-process library: it performs no I/O and holds
// no global state.
package fse
