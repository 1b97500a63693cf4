// Package pair turns corrpockets into protofeatures: rough two-peak
// hypotheses pairing a driver column with its best-correlated secondary
// peak, gated by a correlation cutoff and a bidirectionality check. It
// also estimates the dataset-global noise width from the aggregate
// diagonal peak shape.
package pair

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-fse/fse/profile"
	"github.com/cwbudde/algo-fse/internal/num"
	"github.com/cwbudde/algo-fse/spectral"
	"github.com/cwbudde/algo-fse/stats/correl"
)

// Errors reported for caller contract violations.
var (
	ErrNoPockets  = errors.New("pair: no corrpockets supplied")
	ErrRCutoff    = errors.New("pair: pocket r cutoff must be in [0, 1]")
	ErrPercentile = errors.New("pair: noise percentile must be in (0, 1)")
)

// Protofeature is an unrefined two-peak hypothesis. It is immutable and
// consumed exactly once by the refinement stage.
type Protofeature struct {
	Driver    int
	Partner   int
	Region    spectral.Range
	SeedShape []float64
	RCutoff   float64
}

// Stats tallies the pairing pass for diagnostics.
type Stats struct {
	DriversScanned int
	BelowCutoff    int
	Asymmetric     int
	Emitted        int
}

// Config holds pairing parameters.
type Config struct {
	// PocketRCutoff rejects drivers whose best secondary correlation
	// magnitude falls below it.
	PocketRCutoff float64
	// NoisePercentile selects the quantile of per-driver diagonal peak
	// widths reported as the dataset noise width.
	NoisePercentile float64
}

// Pairer scans corrpockets for protofeature candidates.
type Pairer struct {
	cfg     Config
	scratch correl.Scratch
}

// New validates cfg and builds a Pairer.
func New(cfg Config) (*Pairer, error) {
	if cfg.PocketRCutoff < 0 || cfg.PocketRCutoff > 1 {
		return nil, ErrRCutoff
	}
	if cfg.NoisePercentile <= 0 || cfg.NoisePercentile >= 1 {
		return nil, ErrPercentile
	}
	return &Pairer{cfg: cfg}, nil
}

// Pair emits one protofeature per driver that passes the cutoff and
// bidirectionality gates, in ascending driver order. Duplicate or
// overlapping pairs across adjacent drivers are expected and kept; the
// refinement stage resolves them independently. It also returns the
// estimated noise width (see noise.go) and the pass tally.
func (p *Pairer) Pair(pockets []profile.Pocket, m *spectral.Matrix) ([]Protofeature, int, Stats, error) {
	if len(pockets) == 0 {
		return nil, 0, Stats{}, ErrNoPockets
	}

	byDriver := make(map[int]*profile.Pocket, len(pockets))
	for i := range pockets {
		byDriver[pockets[i].Driver] = &pockets[i]
	}

	var (
		out   []Protofeature
		stats Stats
	)

	for i := range pockets {
		pk := &pockets[i]
		stats.DriversScanned++

		off, r, ok := bestSecondary(pk)
		if !ok || math.Abs(r) < p.cfg.PocketRCutoff {
			stats.BelowCutoff++
			continue
		}

		partner := pk.Driver + off
		mate, profiled := byDriver[partner]
		if !profiled || !reciprocates(mate, pk.Driver) {
			// Either the partner was never profiled (outside the region
			// of interest) or the driver is not among the partner's own
			// top secondary peaks.
			stats.Asymmetric++
			continue
		}

		region := falloffRegion(pk, off, m.Positions())
		out = append(out, Protofeature{
			Driver:    pk.Driver,
			Partner:   partner,
			Region:    region,
			SeedShape: p.seedShape(m, region),
			RCutoff:   p.cfg.PocketRCutoff,
		})
		stats.Emitted++
	}

	noiseWidth := noiseWidth(pockets, p.cfg.NoisePercentile)

	return out, noiseWidth, stats, nil
}

// bestSecondary returns the window offset with the largest correlation
// magnitude, excluding the self-correlation at offset 0. Ties resolve to
// the smaller absolute offset; an exact +/- tie resolves to the negative
// (upfield) offset. This rule is load-bearing for reproducible pairings.
func bestSecondary(pk *profile.Pocket) (offset int, r float64, ok bool) {
	best := math.Inf(-1)

	for d := 1; d <= pk.HalfWindow; d++ {
		for _, off := range [2]int{-d, d} {
			if !pk.Defined(off) {
				continue
			}
			v := math.Abs(pk.At(off))
			if v > best {
				best = v
				offset = off
				ok = true
			}
		}
	}

	if !ok {
		return 0, 0, false
	}
	return offset, pk.At(offset), true
}

// reciprocates reports whether driver is among mate's top secondary
// peaks, i.e. its correlation magnitude in mate's pocket equals the
// pocket's maximum off-center magnitude.
func reciprocates(mate *profile.Pocket, driver int) bool {
	back := driver - mate.Driver
	if back < -mate.HalfWindow || back > mate.HalfWindow || !mate.Defined(back) {
		return false
	}

	_, best, ok := bestSecondary(mate)
	if !ok {
		return false
	}

	return math.Abs(mate.At(back)) >= math.Abs(best)
}

// falloffRegion spans driver through partner plus the immediate
// correlation falloff: the runs of contiguous defined pocket entries
// beyond each peak, clipped to the axis.
func falloffRegion(pk *profile.Pocket, partnerOff int, positions int) spectral.Range {
	lowOff, highOff := 0, partnerOff
	if partnerOff < 0 {
		lowOff, highOff = partnerOff, 0
	}

	for lowOff > -pk.HalfWindow && pk.Defined(lowOff-1) {
		lowOff--
	}
	for highOff < pk.HalfWindow && pk.Defined(highOff+1) {
		highOff++
	}

	return spectral.Range{
		Start: num.ClampInt(pk.Driver+lowOff, 0, positions-1),
		End:   num.ClampInt(pk.Driver+highOff, 0, positions-1) + 1,
	}
}

// seedShape extracts the seed intensity vector: the row of the sample
// whose region-restricted intensities correlate best with the all-sample
// mean profile over the region. Ties go to the lower sample index.
func (p *Pairer) seedShape(m *spectral.Matrix, region spectral.Range) []float64 {
	mean := make([]float64, region.Len())
	count := make([]int, region.Len())

	for s := 0; s < m.Samples(); s++ {
		row := m.RowSlice(s, region)
		for i, v := range row {
			if spectral.IsMissing(v) {
				continue
			}
			mean[i] += v
			count[i]++
		}
	}
	for i := range mean {
		if count[i] == 0 {
			mean[i] = spectral.Missing()
			continue
		}
		mean[i] /= float64(count[i])
	}

	best, bestR := 0, math.Inf(-1)
	for s := 0; s < m.Samples(); s++ {
		r, _, ok := p.scratch.Pearson(m.RowSlice(s, region), mean)
		if ok && r > bestR {
			best, bestR = s, r
		}
	}

	return append([]float64(nil), m.RowSlice(best, region)...)
}
