// Package testutil provides deterministic synthetic spectra for tests.
package testutil

import (
	"math"
	"math/rand"
)

// GaussianShape returns a length-n vector with a Gaussian peak of the
// given amplitude centered at center with standard deviation sigma.
func GaussianShape(n, center int, sigma, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		d := float64(i - center)
		out[i] = amplitude * math.Exp(-d*d/(2*sigma*sigma))
	}
	return out
}

// AddScaled adds scale*src to dst element-wise.
func AddScaled(dst, src []float64, scale float64) {
	for i := range dst {
		dst[i] += scale * src[i]
	}
}

// SeededNoise returns length-n uniform noise in [-amplitude, amplitude]
// with a fixed seed for reproducibility.
func SeededNoise(seed int64, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// PeakMatrix builds a samples-by-positions matrix where the first
// members rows carry the same peak pattern (Gaussian peaks at centers,
// width sigma) scaled by a per-sample amplitude drawn from [1, 2), plus
// low-level seeded noise; the remaining rows are pure noise. The member
// rows are therefore near-perfectly correlated at every peak position.
func PeakMatrix(samples, positions, members int, centers []int, sigma, noiseAmp float64, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))

	pattern := make([]float64, positions)
	for _, c := range centers {
		AddScaled(pattern, GaussianShape(positions, c, sigma, 1), 1)
	}

	rows := make([][]float64, samples)
	for s := range rows {
		row := SeededNoise(seed+int64(s)+1, noiseAmp, positions)
		if s < members {
			AddScaled(row, pattern, 1+rng.Float64())
		}
		rows[s] = row
	}

	return rows
}

// LinearAxis returns an n-point axis starting at start with the given
// step (negative steps give the usual descending ppm axis).
func LinearAxis(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
