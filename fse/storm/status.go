package storm

import "github.com/cwbudde/algo-fse/spectral"

// Status is the terminal state of one refinement run. The set is closed;
// downstream tallies switch over it exhaustively.
type Status int

const (
	// StatusSucceeded marks a converged feature.
	StatusSucceeded Status = iota
	// StatusEmptySubset marks a run whose subset selection retained no
	// samples.
	StatusEmptySubset
	// StatusSubsetDegenerate marks a subset too small for a meaningful
	// correlation in the following update.
	StatusSubsetDegenerate
	// StatusReferenceDegenerate marks a region that collapsed below 3
	// positions or kept fewer above-threshold points than the noise
	// width.
	StatusReferenceDegenerate
	// StatusDidNotConverge marks a run that hit the iteration cap,
	// usually an oscillating (region, subset) pair.
	StatusDidNotConverge
)

var statusNames = [...]string{
	"succeeded",
	"empty_subset",
	"subset_degenerate",
	"reference_degenerate",
	"did_not_converge",
}

// String returns the snake_case status name used in diagnostics.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Feature is the terminal output of one refinement run. On success it
// carries the converged region, subset, and consensus shape; on failure
// only Status, Driver, and Iterations are meaningful (the remaining
// fields hold the last state reached, for diagnostics). Features are
// immutable once produced.
type Feature struct {
	Status     Status
	Driver     int
	Region     spectral.Range
	Subset     []int
	Reference  []float64
	Iterations int
}
