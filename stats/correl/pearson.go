// Package correl provides the correlation statistics used by the
// feature-shape extraction engine: Pearson correlation over pairs with
// missing values, two-sided significance p-values, and pluggable
// multiple-hypothesis corrections.
package correl

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-fse/spectral"
)

// Scratch holds reusable pair buffers so repeated Pearson calls in hot
// loops allocate only once. A Scratch is not safe for concurrent use;
// each worker owns its own.
type Scratch struct {
	x, y []float64
}

// Pearson computes the correlation between x and y across pairs where
// both values are non-missing. It returns the coefficient, the number of
// usable pairs, and ok=false when the correlation is undefined (fewer
// than 2 usable pairs, or zero variance in either vector). The
// coefficient is clamped to [-1, 1] against rounding excursions.
func (s *Scratch) Pearson(x, y []float64) (r float64, n int, ok bool) {
	s.x = s.x[:0]
	s.y = s.y[:0]

	for i := range x {
		if spectral.IsMissing(x[i]) || spectral.IsMissing(y[i]) {
			continue
		}
		s.x = append(s.x, x[i])
		s.y = append(s.y, y[i])
	}

	n = len(s.x)
	if n < 2 {
		return 0, n, false
	}

	r = stat.Correlation(s.x, s.y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		// Zero variance in one of the vectors.
		return 0, n, false
	}

	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	return r, n, true
}

// PearsonCov computes both the correlation and the covariance between x
// and y over pairs where both values are non-missing, with the same
// undefined-result semantics as [Scratch.Pearson]. The covariance is the
// unbiased sample covariance of the usable pairs.
func (s *Scratch) PearsonCov(x, y []float64) (r, cov float64, n int, ok bool) {
	r, n, ok = s.Pearson(x, y)
	if !ok {
		return 0, 0, n, false
	}

	return r, stat.Covariance(s.x, s.y, nil), n, true
}

// Pearson is the allocation-per-call convenience form of
// [Scratch.Pearson].
func Pearson(x, y []float64) (r float64, n int, ok bool) {
	var s Scratch
	return s.Pearson(x, y)
}
