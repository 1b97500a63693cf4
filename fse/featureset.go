package fse

import (
	"github.com/cwbudde/algo-fse/fse/storm"
	"github.com/cwbudde/algo-fse/spectral"
)

// Feature is one converged feature with its assembled intensity stack.
// Downstream collaborators (filtering, fitting, scoring) read Features
// and never mutate them.
type Feature struct {
	// Driver is the originating driver column, the provenance and sort
	// key of the feature.
	Driver int
	// Region is the converged span of axis positions.
	Region spectral.Range
	// Ppm is Region mapped onto the chemical-shift axis.
	Ppm spectral.Interval
	// Subset holds the member sample indices in ascending order.
	Subset []int
	// Reference is the consensus shape over Region.
	Reference []float64
	// Stack holds one row per matrix sample restricted to Region;
	// non-member rows are entirely missing.
	Stack [][]float64
}

// FeatureSet is the dataset-level output handed to downstream
// collaborators: the succeeded features in deterministic driver order,
// the shared axis, and the dataset noise width.
type FeatureSet struct {
	Axis       *spectral.Axis
	NoiseWidth int
	Features   []Feature
}

// Len returns the number of assembled features.
func (fs *FeatureSet) Len() int { return len(fs.Features) }

// At returns the i-th feature.
func (fs *FeatureSet) At(i int) *Feature { return &fs.Features[i] }

// assemble packages the succeeded refinement outputs, preserving the
// protofeature (driver) order for reproducibility across schedulers.
func assemble(m *spectral.Matrix, axis *spectral.Axis, noiseWidth int, results []storm.Feature) *FeatureSet {
	fs := &FeatureSet{Axis: axis, NoiseWidth: noiseWidth}

	for i := range results {
		res := &results[i]
		if res.Status != storm.StatusSucceeded {
			continue
		}

		fs.Features = append(fs.Features, Feature{
			Driver:    res.Driver,
			Region:    res.Region,
			Ppm:       axis.PpmInterval(res.Region),
			Subset:    res.Subset,
			Reference: res.Reference,
			Stack:     buildStack(m, res.Region, res.Subset),
		})
	}

	return fs
}

// buildStack copies the member rows restricted to region and blanks the
// rest, so every feature's stack has uniform sample dimensions.
func buildStack(m *spectral.Matrix, region spectral.Range, subset []int) [][]float64 {
	member := make(map[int]bool, len(subset))
	for _, s := range subset {
		member[s] = true
	}

	stack := make([][]float64, m.Samples())
	for s := range stack {
		row := make([]float64, region.Len())
		if member[s] {
			copy(row, m.RowSlice(s, region))
		} else {
			for i := range row {
				row[i] = spectral.Missing()
			}
		}
		stack[s] = row
	}

	return stack
}
