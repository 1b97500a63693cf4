package pair

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-fse/fse/profile"
	"github.com/cwbudde/algo-fse/spectral"
)

// noiseWidth estimates the dataset-global minimum peak width. The pocket
// profiles are averaged pointwise into a mean diagonal peak shape; the
// reference level is half that shape's center value. Each driver's peak
// width is the contiguous run of offsets around center whose correlation
// stays at or above the reference level, and the reported width is the
// requested empirical quantile of those per-driver widths.
//
// The width does not gate pairing; it becomes the refinement stage's
// minimum count of above-threshold points for calling a peak non-noise.
func noiseWidth(pockets []profile.Pocket, percentile float64) int {
	w := pockets[0].HalfWindow
	mean := make([]float64, 2*w+1)
	count := make([]int, 2*w+1)

	for i := range pockets {
		for j, v := range pockets[i].Corr {
			if spectral.IsMissing(v) {
				continue
			}
			mean[j] += v
			count[j]++
		}
	}
	for j := range mean {
		if count[j] == 0 {
			mean[j] = 0
			continue
		}
		mean[j] /= float64(count[j])
	}

	ref := mean[w] / 2
	if ref <= 0 {
		return 0
	}

	widths := make([]float64, 0, len(pockets))
	for i := range pockets {
		widths = append(widths, float64(peakWidth(&pockets[i], ref)))
	}
	sort.Float64s(widths)

	q := stat.Quantile(percentile, stat.Empirical, widths, nil)

	return int(math.Round(q))
}

// peakWidth counts the contiguous offsets around center whose
// correlation stays at or above level.
func peakWidth(pk *profile.Pocket, level float64) int {
	if !pk.Defined(0) || pk.At(0) < level {
		return 0
	}

	width := 1
	for off := -1; off >= -pk.HalfWindow; off-- {
		if !pk.Defined(off) || pk.At(off) < level {
			break
		}
		width++
	}
	for off := 1; off <= pk.HalfWindow; off++ {
		if !pk.Defined(off) || pk.At(off) < level {
			break
		}
		width++
	}

	return width
}
