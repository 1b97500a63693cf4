package spectral

// Validate checks the matrix/axis pairing contract: the axis must carry
// exactly one coordinate per matrix column. Violations are hard failures
// that abort the run.
func Validate(m *Matrix, a *Axis) error {
	if m == nil || m.positions == 0 || m.samples == 0 {
		return ErrEmptyMatrix
	}
	if a == nil || a.Len() < 2 {
		return ErrEmptyAxis
	}
	if a.Len() != m.positions {
		return ErrAxisMismatch
	}
	return nil
}
