package correl

import "sort"

// Correction adjusts a family of p-values for multiple hypothesis
// testing. Adjust writes the corrected values into dst (which must be
// the same length as p) and preserves input order. Implementations must
// be stateless and safe for concurrent use.
type Correction interface {
	Name() string
	Adjust(dst, p []float64)
}

// Bonferroni multiplies every p-value by the family size. Conservative
// family-wise control.
type Bonferroni struct{}

// Name returns "bonferroni".
func (Bonferroni) Name() string { return "bonferroni" }

// Adjust applies the Bonferroni correction.
func (Bonferroni) Adjust(dst, p []float64) {
	m := float64(len(p))
	for i, v := range p {
		v *= m
		if v > 1 {
			v = 1
		}
		dst[i] = v
	}
}

// BenjaminiHochberg controls the false discovery rate via the step-up
// procedure. The usual choice when screening many samples per iteration.
type BenjaminiHochberg struct{}

// Name returns "benjamini-hochberg".
func (BenjaminiHochberg) Name() string { return "benjamini-hochberg" }

// Adjust applies the Benjamini-Hochberg step-up correction.
func (BenjaminiHochberg) Adjust(dst, p []float64) {
	m := len(p)
	if m == 0 {
		return
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return p[order[a]] < p[order[b]] })

	// Step up from the largest rank, enforcing monotonicity.
	running := 1.0
	for rank := m; rank >= 1; rank-- {
		idx := order[rank-1]
		adj := p[idx] * float64(m) / float64(rank)
		if adj < running {
			running = adj
		}
		dst[idx] = running
	}
}
