// Package spectral holds the shared data model for aligned 1-D spectral
// datasets: an intensity matrix (samples x positions), a chemical-shift
// axis, and the missing-value convention used throughout the module.
//
// Missing cells are represented as NaN and must be tested with
// [IsMissing]; no algorithm in this module ever treats NaN as a numeric
// intensity.
package spectral

import (
	"errors"
	"math"
)

// Errors reported for caller contract violations. These abort a run; they
// are never produced by data-driven degenerate cases.
var (
	ErrEmptyMatrix      = errors.New("spectral: matrix has no samples or no positions")
	ErrRaggedMatrix     = errors.New("spectral: samples differ in position count")
	ErrAxisMismatch     = errors.New("spectral: axis length does not match matrix positions")
	ErrAxisNotMonotonic = errors.New("spectral: axis is not strictly monotonic")
	ErrEmptyAxis        = errors.New("spectral: axis needs at least 2 positions")
)

// Missing returns the sentinel value for an absent intensity.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Matrix is an immutable intensity matrix of samples (rows) by spectral
// positions (columns). All rows share the same column count and
// positional semantics.
type Matrix struct {
	data       []float64
	samples    int
	positions  int
	hasMissing bool
}

// NewMatrix copies rows into a Matrix. Every row must have the same
// length; an empty matrix or ragged rows are contract violations.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMatrix
	}

	positions := len(rows[0])
	m := &Matrix{
		data:      make([]float64, 0, len(rows)*positions),
		samples:   len(rows),
		positions: positions,
	}

	for _, row := range rows {
		if len(row) != positions {
			return nil, ErrRaggedMatrix
		}
		m.data = append(m.data, row...)
	}

	for _, v := range m.data {
		if IsMissing(v) {
			m.hasMissing = true
			break
		}
	}

	return m, nil
}

// Samples returns the number of rows.
func (m *Matrix) Samples() int { return m.samples }

// Positions returns the number of columns.
func (m *Matrix) Positions() int { return m.positions }

// HasMissing reports whether any cell is missing. Dense matrices take
// vectorized fast paths downstream.
func (m *Matrix) HasMissing() bool { return m.hasMissing }

// At returns the intensity of sample s at position p.
func (m *Matrix) At(s, p int) float64 {
	return m.data[s*m.positions+p]
}

// Row returns a read-only view of one sample's full spectrum. Callers
// must not mutate the returned slice.
func (m *Matrix) Row(s int) []float64 {
	return m.data[s*m.positions : (s+1)*m.positions]
}

// RowSlice returns a read-only view of one sample restricted to r.
func (m *Matrix) RowSlice(s int, r Range) []float64 {
	return m.data[s*m.positions+r.Start : s*m.positions+r.End]
}
