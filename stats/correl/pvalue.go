package correl

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PValue returns the two-sided significance of a Pearson coefficient r
// observed over n pairs, from the t-statistic t = r*sqrt((n-2)/(1-r^2))
// under Student's t with n-2 degrees of freedom. Fewer than 3 pairs
// cannot reach significance and report 1; |r| = 1 reports 0.
func PValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}

	den := 1 - r*r
	if den <= 0 {
		return 0
	}

	t := r * math.Sqrt(float64(n-2)/den)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}

	return 2 * dist.CDF(-math.Abs(t))
}
