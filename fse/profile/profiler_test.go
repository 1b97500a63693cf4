package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fse/internal/testutil"
	"github.com/cwbudde/algo-fse/spectral"
)

func noiseMatrix(t *testing.T, samples, positions int) *spectral.Matrix {
	t.Helper()
	rows := make([][]float64, samples)
	for s := range rows {
		rows[s] = testutil.SeededNoise(int64(s)+11, 1, positions)
	}
	m, err := spectral.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	return m
}

func TestNewErrors(t *testing.T) {
	m := noiseMatrix(t, 4, 10)

	if _, err := New(m, 0); !errors.Is(err, ErrHalfWindow) {
		t.Errorf("half window 0: got %v, want ErrHalfWindow", err)
	}
	if _, err := New(m, 10); !errors.Is(err, ErrWindowTooLarge) {
		t.Errorf("half window 10: got %v, want ErrWindowTooLarge", err)
	}
	if _, err := New(m, 9); err != nil {
		t.Errorf("half window 9: got %v", err)
	}
}

func TestPocketBounds(t *testing.T) {
	m := noiseMatrix(t, 8, 30)
	pr, err := New(m, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for c := 0; c < m.Positions(); c++ {
		pk := pr.Pocket(c)
		for off := -5; off <= 5; off++ {
			if !pk.Defined(off) {
				continue
			}
			if v := pk.At(off); v > 1 || v < -1 {
				t.Fatalf("driver %d offset %d: correlation %v out of bounds", c, off, v)
			}
		}
	}
}

func TestPocketSelfCorrelation(t *testing.T) {
	m := noiseMatrix(t, 8, 30)
	pr, _ := New(m, 5)

	pk := pr.Pocket(12)
	if !pk.Defined(0) {
		t.Fatal("self correlation undefined for varying column")
	}
	if math.Abs(pk.At(0)-1) > 1e-12 {
		t.Errorf("self correlation: got %v, want 1", pk.At(0))
	}
}

func TestPocketEdges(t *testing.T) {
	m := noiseMatrix(t, 8, 30)
	pr, _ := New(m, 5)

	pk := pr.Pocket(0)
	for off := -5; off < 0; off++ {
		if pk.Defined(off) {
			t.Errorf("offset %d beyond matrix edge is defined", off)
		}
	}
	if !pk.Defined(1) {
		t.Error("in-range offset undefined")
	}
}

// Undefined exactly when fewer than 2 samples are non-missing in both
// columns, or a column has zero variance over the usable pairs.
func TestPocketUndefined(t *testing.T) {
	miss := spectral.Missing()
	rows := [][]float64{
		{1.0, 2.0, miss, 7.0},
		{2.0, 1.5, miss, 7.0},
		{3.0, 0.5, 4.0, 7.0},
	}
	m, err := spectral.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}

	pr, err := New(m, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pk := pr.Pocket(0)
	if pk.Defined(2) {
		t.Error("column with 1 usable pair reported defined")
	}
	if !pk.Defined(1) {
		t.Error("fully paired column reported undefined")
	}

	// Column 3 is constant, so every pairing with it is undefined.
	pk3 := pr.Pocket(3)
	if pk3.Defined(-1) {
		t.Error("zero-variance pairing reported defined")
	}
}

func TestPocketRangeOrder(t *testing.T) {
	m := noiseMatrix(t, 6, 20)
	pr, _ := New(m, 3)

	pockets := pr.PocketRange(spectral.Range{Start: 4, End: 9})
	if len(pockets) != 5 {
		t.Fatalf("len: got %d, want 5", len(pockets))
	}
	for i, pk := range pockets {
		if pk.Driver != 4+i {
			t.Errorf("pocket %d: driver %d, want %d", i, pk.Driver, 4+i)
		}
	}
}

func TestCorrelatedColumns(t *testing.T) {
	// Column 10 and column 12 carry the same amplitude pattern; their
	// mutual correlation must be ~1 while noise columns stay low.
	rows := make([][]float64, 10)
	for s := range rows {
		row := testutil.SeededNoise(int64(s)+41, 0.02, 20)
		amp := 1 + 0.25*float64(s)
		row[10] += amp
		row[12] += amp
		rows[s] = row
	}
	m, err := spectral.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}

	pr, _ := New(m, 4)
	pk := pr.Pocket(10)
	if !pk.Defined(2) {
		t.Fatal("correlated column undefined")
	}
	if pk.At(2) < 0.99 {
		t.Errorf("correlated column: got r=%v, want > 0.99", pk.At(2))
	}
}
