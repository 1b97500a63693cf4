package storm

import (
	"errors"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fse/fse/pair"
	"github.com/cwbudde/algo-fse/spectral"
	"github.com/cwbudde/algo-fse/stats/correl"
)

// Errors reported for caller contract violations.
var (
	ErrRCutoff    = errors.New("storm: r cutoff must be in [0, 1]")
	ErrQ          = errors.New("storm: q must be in (0, 1]")
	ErrExpansion  = errors.New("storm: expansion multiplier must be >= 0")
	ErrIterations = errors.New("storm: max iterations must be >= 1")
	ErrCorrection = errors.New("storm: correction strategy is required")
)

// Config holds the refinement thresholds for one dataset.
type Config struct {
	// RCutoff is the minimum correlation for a sample or position to
	// stay in the feature.
	RCutoff float64
	// Q is the significance threshold applied to corrected p-values.
	Q float64
	// Expansion is the multiple of the local peak width added to each
	// side of the surviving region to recover peak shoulders.
	Expansion float64
	// MinPeak is the minimum count of above-threshold positions for a
	// peak to be considered non-noise, normally the dataset noise width.
	MinPeak int
	// MaxIterations caps the fixed-point loop.
	MaxIterations int
	// MinSubset is the smallest subset that still supports a meaningful
	// correlation in the reference update.
	MinSubset int
	// Correction adjusts the per-family p-values each iteration.
	Correction correl.Correction
	// Bounds clips every region to this span (the region of interest,
	// or the full axis).
	Bounds spectral.Range
}

// Refiner runs the fixed-point refinement for protofeatures of one
// matrix. All scratch buffers are preallocated to the axis and sample
// counts, so Refine does not allocate per iteration. A Refiner is not
// safe for concurrent use; parallel callers own one Refiner each.
type Refiner struct {
	cfg     Config
	m       *spectral.Matrix
	scratch correl.Scratch

	// Per-sample scratch.
	sampleR []float64
	sampleP []float64
	sampleQ []float64

	// Per-position scratch, sized to the axis.
	posR    []float64
	posP    []float64
	posQ    []float64
	posCov  []float64
	passing []bool
	colBuf  []float64
	drvBuf  []float64
	refA    []float64
	refB    []float64
	tmp     []float64
	wsum    []float64
}

// NewRefiner validates cfg and builds a Refiner over m.
func NewRefiner(m *spectral.Matrix, cfg Config) (*Refiner, error) {
	switch {
	case cfg.RCutoff < 0 || cfg.RCutoff > 1:
		return nil, ErrRCutoff
	case cfg.Q <= 0 || cfg.Q > 1:
		return nil, ErrQ
	case cfg.Expansion < 0:
		return nil, ErrExpansion
	case cfg.MaxIterations < 1:
		return nil, ErrIterations
	case cfg.Correction == nil:
		return nil, ErrCorrection
	}

	if cfg.MinSubset < 2 {
		cfg.MinSubset = 2
	}
	if cfg.Bounds.Empty() {
		cfg.Bounds = spectral.Range{Start: 0, End: m.Positions()}
	}

	n := m.Positions()

	return &Refiner{
		cfg:     cfg,
		m:       m,
		sampleR: make([]float64, m.Samples()),
		sampleP: make([]float64, m.Samples()),
		sampleQ: make([]float64, m.Samples()),
		posR:    make([]float64, n),
		posP:    make([]float64, n),
		posQ:    make([]float64, n),
		posCov:  make([]float64, n),
		passing: make([]bool, n),
		colBuf:  make([]float64, m.Samples()),
		drvBuf:  make([]float64, m.Samples()),
		refA:    make([]float64, n),
		refB:    make([]float64, n),
		tmp:     make([]float64, n),
		wsum:    make([]float64, n),
	}, nil
}

// Refine grows pf into a converged feature or a tagged degenerate
// outcome. Given identical inputs and configuration the result is
// bit-identical across runs.
func (r *Refiner) Refine(pf pair.Protofeature) Feature {
	region := pf.Region.Clip(r.cfg.Bounds)
	if region.Empty() {
		return Feature{Status: StatusReferenceDegenerate, Driver: pf.Driver}
	}

	ref := r.refA[:region.Len()]
	copy(ref, pf.SeedShape[region.Start-pf.Region.Start:])

	// The STOCSY driver point starts at the seed shape's apex and moves
	// with the covariance maximum on later iterations.
	apex := region.Start + argmaxShape(ref)

	prevRegion := region
	prevSubset := allSamples(r.m.Samples())

	for iter := 1; iter <= r.cfg.MaxIterations; iter++ {
		subset, weights := r.selectSubset(region, ref)
		if len(subset) == 0 {
			return Feature{Status: StatusEmptySubset, Driver: pf.Driver, Region: region, Iterations: iter}
		}
		if len(subset) < r.cfg.MinSubset {
			return Feature{
				Status:     StatusSubsetDegenerate,
				Driver:     pf.Driver,
				Region:     region,
				Subset:     subset,
				Iterations: iter,
			}
		}

		newRegion, newApex, ok := r.updateRegion(region, subset, apex)
		if !ok {
			return Feature{
				Status:     StatusReferenceDegenerate,
				Driver:     pf.Driver,
				Region:     region,
				Subset:     subset,
				Iterations: iter,
			}
		}

		ref = r.referenceShape(newRegion, subset, weights)

		if newRegion == prevRegion && intsEqual(subset, prevSubset) {
			return Feature{
				Status:     StatusSucceeded,
				Driver:     pf.Driver,
				Region:     newRegion,
				Subset:     subset,
				Reference:  append([]float64(nil), ref...),
				Iterations: iter,
			}
		}

		prevRegion = newRegion
		prevSubset = append(prevSubset[:0], subset...)
		region = newRegion
		apex = newApex
	}

	return Feature{
		Status:     StatusDidNotConverge,
		Driver:     pf.Driver,
		Region:     prevRegion,
		Subset:     prevSubset,
		Iterations: r.cfg.MaxIterations,
	}
}

// selectSubset re-screens the full population against the reference
// shape. A sample stays when its correlation exceeds RCutoff and its
// corrected p-value is at most Q. The returned weights are the retained
// samples' correlations, used for the weighted consensus shape.
func (r *Refiner) selectSubset(region spectral.Range, ref []float64) (subset []int, weights []float64) {
	samples := r.m.Samples()

	for s := 0; s < samples; s++ {
		rv, n, ok := r.scratch.Pearson(r.m.RowSlice(s, region), ref)
		if !ok {
			r.sampleR[s] = math.Inf(-1)
			r.sampleP[s] = 1
			continue
		}
		r.sampleR[s] = rv
		r.sampleP[s] = correl.PValue(rv, n)
	}

	r.cfg.Correction.Adjust(r.sampleQ[:samples], r.sampleP[:samples])

	for s := 0; s < samples; s++ {
		if r.sampleR[s] > r.cfg.RCutoff && r.sampleQ[s] <= r.cfg.Q {
			subset = append(subset, s)
			weights = append(weights, r.sampleR[s])
		}
	}

	return subset, weights
}

// updateRegion performs the STOCSY-style update: every region position's
// intensities across the subset are correlated against the driver vector
// (the subset's intensities at apex). Positions failing the r/q gates
// are dropped, the region is trimmed to the contiguous span between the
// first and last survivors, and the span is expanded by Expansion
// multiples of the local peak width on each side, clipped to the bounds.
// ok is false when the update degenerates: no survivors, a span below 3
// positions, or fewer surviving points than MinPeak.
func (r *Refiner) updateRegion(region spectral.Range, subset []int, apex int) (out spectral.Range, newApex int, ok bool) {
	drv := r.drvBuf[:len(subset)]
	for i, s := range subset {
		drv[i] = r.m.At(s, apex)
	}

	for pos := region.Start; pos < region.End; pos++ {
		col := r.colBuf[:len(subset)]
		for i, s := range subset {
			col[i] = r.m.At(s, pos)
		}

		rv, cov, n, defined := r.scratch.PearsonCov(col, drv)
		if !defined {
			r.posR[pos] = math.Inf(-1)
			r.posP[pos] = 1
			r.posCov[pos] = 0
			continue
		}
		r.posR[pos] = rv
		r.posP[pos] = correl.PValue(rv, n)
		r.posCov[pos] = cov
	}

	family := r.posP[region.Start:region.End]
	r.cfg.Correction.Adjust(r.posQ[region.Start:region.End], family)

	pass := 0
	first, last := -1, -1
	for pos := region.Start; pos < region.End; pos++ {
		keep := r.posR[pos] > r.cfg.RCutoff && r.posQ[pos] <= r.cfg.Q
		r.passing[pos] = keep
		if !keep {
			continue
		}
		pass++
		if first < 0 {
			first = pos
		}
		last = pos
	}

	if pass == 0 || pass < r.cfg.MinPeak {
		return spectral.Range{}, 0, false
	}

	span := spectral.Range{Start: first, End: last + 1}
	if span.Len() < 3 {
		return spectral.Range{}, 0, false
	}

	width := longestRun(r.passing[span.Start:span.End])
	grow := int(math.Round(r.cfg.Expansion * float64(width)))
	out = span.Expand(grow).Clip(r.cfg.Bounds)

	// Next iteration's driver point: the covariance maximum within the
	// surviving span.
	newApex = span.Start
	for pos := span.Start; pos < span.End; pos++ {
		if r.passing[pos] && r.posCov[pos] > r.posCov[newApex] {
			newApex = pos
		}
	}

	return out, newApex, true
}

// referenceShape recomputes the consensus shape as the weighted mean of
// the subset rows over region, weights being the selection correlations.
// Dense matrices take the vectorized path; matrices with missing cells
// fall back to per-position accumulation with per-position weight sums.
func (r *Refiner) referenceShape(region spectral.Range, subset []int, weights []float64) []float64 {
	n := region.Len()
	out := r.refB[:n]
	r.refA, r.refB = r.refB, r.refA

	if !r.m.HasMissing() {
		for i := range out {
			out[i] = 0
		}
		tmp := r.tmp[:n]
		total := 0.0
		for i, s := range subset {
			vecmath.ScaleBlock(tmp, r.m.RowSlice(s, region), weights[i])
			vecmath.AddBlockInPlace(out, tmp)
			total += weights[i]
		}
		if total > 0 {
			vecmath.ScaleBlockInPlace(out, 1/total)
		}
		return out
	}

	wsum := r.wsum[:n]
	for i := range out {
		out[i] = 0
		wsum[i] = 0
	}
	for i, s := range subset {
		row := r.m.RowSlice(s, region)
		for j, v := range row {
			if spectral.IsMissing(v) {
				continue
			}
			out[j] += v * weights[i]
			wsum[j] += weights[i]
		}
	}
	for j := range out {
		if wsum[j] == 0 {
			out[j] = spectral.Missing()
			continue
		}
		out[j] /= wsum[j]
	}

	return out
}

// argmaxShape returns the index of the largest non-missing value, 0 when
// everything is missing.
func argmaxShape(shape []float64) int {
	best, bestVal := 0, math.Inf(-1)
	for i, v := range shape {
		if spectral.IsMissing(v) {
			continue
		}
		if v > bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

// longestRun returns the length of the longest contiguous true run.
func longestRun(pass []bool) int {
	best, run := 0, 0
	for _, p := range pass {
		if !p {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

func allSamples(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
