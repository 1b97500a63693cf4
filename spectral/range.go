package spectral

// Range is a contiguous half-open span [Start, End) of axis positions.
type Range struct {
	Start, End int
}

// Len returns the number of positions in the span.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the span contains no positions.
func (r Range) Empty() bool { return r.Len() == 0 }

// Contains reports whether position i lies inside the span.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Clip limits r to the bounds span.
func (r Range) Clip(bounds Range) Range {
	out := r
	if out.Start < bounds.Start {
		out.Start = bounds.Start
	}
	if out.End > bounds.End {
		out.End = bounds.End
	}
	if out.End < out.Start {
		out.End = out.Start
	}
	return out
}

// Expand grows the span by n positions on each side.
func (r Range) Expand(n int) Range {
	return Range{Start: r.Start - n, End: r.End + n}
}
