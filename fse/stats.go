package fse

import "github.com/cwbudde/algo-fse/fse/storm"

// RunStats tallies one extraction run for diagnostic reporting. Every
// refinement run lands in exactly one terminal counter; degenerate
// outcomes are reported, never silently dropped.
type RunStats struct {
	DriversScanned int
	BelowCutoff    int
	Asymmetric     int
	Protofeatures  int

	Succeeded           int
	EmptySubset         int
	SubsetDegenerate    int
	ReferenceDegenerate int
	DidNotConverge      int
}

// Refined returns the total number of terminal refinement outcomes.
func (s RunStats) Refined() int {
	return s.Succeeded + s.EmptySubset + s.SubsetDegenerate +
		s.ReferenceDegenerate + s.DidNotConverge
}

func (s *RunStats) tally(st storm.Status) {
	switch st {
	case storm.StatusSucceeded:
		s.Succeeded++
	case storm.StatusEmptySubset:
		s.EmptySubset++
	case storm.StatusSubsetDegenerate:
		s.SubsetDegenerate++
	case storm.StatusReferenceDegenerate:
		s.ReferenceDegenerate++
	case storm.StatusDidNotConverge:
		s.DidNotConverge++
	}
}
