package spectral

// Axis is the chemical-shift coordinate of every matrix column, strictly
// monotonic (NMR axes usually descend in ppm). It is shared by reference
// and never mutated after construction.
type Axis struct {
	ppm       []float64
	ascending bool
}

// NewAxis copies ppm into an Axis and verifies strict monotonicity.
func NewAxis(ppm []float64) (*Axis, error) {
	if len(ppm) < 2 {
		return nil, ErrEmptyAxis
	}

	ascending := ppm[1] > ppm[0]
	for i := 1; i < len(ppm); i++ {
		if ascending && ppm[i] <= ppm[i-1] {
			return nil, ErrAxisNotMonotonic
		}
		if !ascending && ppm[i] >= ppm[i-1] {
			return nil, ErrAxisNotMonotonic
		}
	}

	return &Axis{ppm: append([]float64(nil), ppm...), ascending: ascending}, nil
}

// Len returns the number of axis positions.
func (a *Axis) Len() int { return len(a.ppm) }

// At returns the ppm value of position i.
func (a *Axis) At(i int) float64 { return a.ppm[i] }

// Ascending reports the axis direction.
func (a *Axis) Ascending() bool { return a.ascending }

// Interval is a closed ppm interval with Lo <= Hi.
type Interval struct {
	Lo, Hi float64
}

// IndexRange maps a ppm interval onto the axis as a column Range. An
// interval that misses the axis entirely yields an empty Range.
func (a *Axis) IndexRange(iv Interval) Range {
	start, end := -1, -1
	for i, v := range a.ppm {
		if v >= iv.Lo && v <= iv.Hi {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	if start < 0 {
		return Range{}
	}
	return Range{Start: start, End: end + 1}
}

// Full returns the Range covering the whole axis.
func (a *Axis) Full() Range {
	return Range{Start: 0, End: len(a.ppm)}
}

// PpmInterval returns the closed ppm interval covered by r.
func (a *Axis) PpmInterval(r Range) Interval {
	lo := a.ppm[r.Start]
	hi := a.ppm[r.End-1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Lo: lo, Hi: hi}
}
