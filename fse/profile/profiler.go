// Package profile computes local sliding-window correlation profiles
// ("corrpockets") over an aligned spectral matrix: for every driver
// column, the Pearson correlation of that column's intensities against
// every column within a fixed half-window, taken across the sample
// dimension.
package profile

import (
	"errors"

	"github.com/cwbudde/algo-fse/spectral"
	"github.com/cwbudde/algo-fse/stats/correl"
)

// Errors reported for caller contract violations.
var (
	ErrHalfWindow     = errors.New("profile: half window must be >= 1")
	ErrWindowTooLarge = errors.New("profile: window exceeds matrix positions")
)

// Pocket is the local correlation profile around one driver column.
// Corr[i] holds the correlation at window offset i-HalfWindow; entries
// are missing when the offset column falls outside the matrix or the
// pairwise correlation is undefined (fewer than 2 samples non-missing in
// both columns, or zero variance).
type Pocket struct {
	Driver     int
	HalfWindow int
	Corr       []float64
}

// At returns the correlation at the given window offset.
func (p *Pocket) At(offset int) float64 {
	return p.Corr[offset+p.HalfWindow]
}

// Defined reports whether the correlation at offset is usable.
func (p *Pocket) Defined(offset int) bool {
	return !spectral.IsMissing(p.Corr[offset+p.HalfWindow])
}

// Profiler computes corrpockets for one matrix. It gathers the matrix
// into column-major form once so per-pocket work touches contiguous
// memory. A Profiler is not safe for concurrent use.
type Profiler struct {
	halfWindow int
	positions  int
	cols       [][]float64
	scratch    correl.Scratch
}

// New builds a Profiler over m with the given half window. A half
// window reaching across the whole matrix is a contract violation;
// offsets that fall off the matrix edge for a particular driver are
// simply absent.
func New(m *spectral.Matrix, halfWindow int) (*Profiler, error) {
	if halfWindow < 1 {
		return nil, ErrHalfWindow
	}
	if halfWindow >= m.Positions() {
		return nil, ErrWindowTooLarge
	}

	cols := make([][]float64, m.Positions())
	backing := make([]float64, m.Positions()*m.Samples())
	for p := range cols {
		col := backing[p*m.Samples() : (p+1)*m.Samples()]
		for s := range col {
			col[s] = m.At(s, p)
		}
		cols[p] = col
	}

	return &Profiler{
		halfWindow: halfWindow,
		positions:  m.Positions(),
		cols:       cols,
	}, nil
}

// HalfWindow returns the configured half window.
func (pr *Profiler) HalfWindow() int { return pr.halfWindow }

// Pocket computes the corrpocket for one driver column.
func (pr *Profiler) Pocket(driver int) Pocket {
	w := pr.halfWindow
	out := Pocket{
		Driver:     driver,
		HalfWindow: w,
		Corr:       make([]float64, 2*w+1),
	}

	for off := -w; off <= w; off++ {
		idx := driver + off
		if idx < 0 || idx >= pr.positions {
			out.Corr[off+w] = spectral.Missing()
			continue
		}

		r, _, ok := pr.scratch.Pearson(pr.cols[driver], pr.cols[idx])
		if !ok {
			out.Corr[off+w] = spectral.Missing()
			continue
		}
		out.Corr[off+w] = r
	}

	return out
}

// PocketRange computes corrpockets for every driver column in span,
// in ascending driver order.
func (pr *Profiler) PocketRange(span spectral.Range) []Pocket {
	out := make([]Pocket, 0, span.Len())
	for c := span.Start; c < span.End; c++ {
		out = append(out, pr.Pocket(c))
	}
	return out
}
