package pair

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-fse/fse/profile"
	"github.com/cwbudde/algo-fse/internal/testutil"
	"github.com/cwbudde/algo-fse/spectral"
)

// twinPeakMatrix builds a 10x50 matrix where the first 8 samples carry a
// Gaussian peak at column 10 whose whole neighborhood is mirrored
// exactly at column 40, so the cross-peak correlation is exactly 1 while
// adjacent columns are perturbed by independent noise. The remaining 2
// samples are flat noise.
func twinPeakMatrix(t *testing.T) *spectral.Matrix {
	t.Helper()

	const (
		samples   = 10
		positions = 50
		members   = 8
		mirror    = 30 // column 40 mirrors column 10
	)

	peak := testutil.GaussianShape(positions, 10, 1.5, 1)
	rows := make([][]float64, samples)
	for s := range rows {
		row := testutil.SeededNoise(int64(s)+101, 0.02, positions)
		if s < members {
			testutil.AddScaled(row, peak, 1+0.1*float64(s))
		}
		rows[s] = row
	}
	for s := range rows {
		for d := -5; d <= 5; d++ {
			rows[s][10+mirror+d] = rows[s][10+d]
		}
	}

	m, err := spectral.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	return m
}

func pocketsFor(t *testing.T, m *spectral.Matrix, halfWindow int) []profile.Pocket {
	t.Helper()
	pr, err := profile.New(m, halfWindow)
	if err != nil {
		t.Fatalf("profile.New: %v", err)
	}
	return pr.PocketRange(spectral.Range{Start: 0, End: m.Positions()})
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Config{PocketRCutoff: 1.5, NoisePercentile: 0.5}); !errors.Is(err, ErrRCutoff) {
		t.Errorf("bad cutoff: got %v, want ErrRCutoff", err)
	}
	if _, err := New(Config{PocketRCutoff: 0.5, NoisePercentile: 1}); !errors.Is(err, ErrPercentile) {
		t.Errorf("bad percentile: got %v, want ErrPercentile", err)
	}
	if _, err := New(Config{PocketRCutoff: 0.5, NoisePercentile: 0.99}); err != nil {
		t.Errorf("valid config: got %v", err)
	}
}

func TestPairNoPockets(t *testing.T) {
	p, _ := New(Config{PocketRCutoff: 0.5, NoisePercentile: 0.99})
	if _, _, _, err := p.Pair(nil, nil); !errors.Is(err, ErrNoPockets) {
		t.Errorf("got %v, want ErrNoPockets", err)
	}
}

func TestPairTwinPeaks(t *testing.T) {
	m := twinPeakMatrix(t)
	pockets := pocketsFor(t, m, 30)

	p, _ := New(Config{PocketRCutoff: 0.75, NoisePercentile: 0.99})
	pfs, noiseWidth, stats, err := p.Pair(pockets, m)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}

	var found *Protofeature
	for i := range pfs {
		if pfs[i].Driver == 10 {
			found = &pfs[i]
			break
		}
	}
	if found == nil {
		t.Fatal("no protofeature emitted for driver 10")
	}
	if found.Partner != 40 {
		t.Fatalf("driver 10 partner: got %d, want 40", found.Partner)
	}
	if !found.Region.Contains(10) || !found.Region.Contains(40) {
		t.Errorf("region %+v does not span both peaks", found.Region)
	}
	if len(found.SeedShape) != found.Region.Len() {
		t.Errorf("seed shape length %d != region length %d", len(found.SeedShape), found.Region.Len())
	}

	if noiseWidth < 1 {
		t.Errorf("noise width: got %d, want >= 1", noiseWidth)
	}
	if stats.DriversScanned != 50 {
		t.Errorf("drivers scanned: got %d, want 50", stats.DriversScanned)
	}
	if stats.Emitted != len(pfs) {
		t.Errorf("emitted tally %d != %d protofeatures", stats.Emitted, len(pfs))
	}
	if stats.BelowCutoff+stats.Asymmetric+stats.Emitted != stats.DriversScanned {
		t.Errorf("tally does not partition drivers: %+v", stats)
	}
}

// No protofeature may be emitted for a driver whose best off-center
// correlation falls below the pocket cutoff.
func TestPairRespectsCutoff(t *testing.T) {
	m := twinPeakMatrix(t)
	pockets := pocketsFor(t, m, 30)

	p, _ := New(Config{PocketRCutoff: 0.75, NoisePercentile: 0.99})
	pfs, _, _, err := p.Pair(pockets, m)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}

	byDriver := make(map[int]*profile.Pocket)
	for i := range pockets {
		byDriver[pockets[i].Driver] = &pockets[i]
	}

	for _, pf := range pfs {
		off, r, ok := bestSecondary(byDriver[pf.Driver])
		if !ok {
			t.Fatalf("driver %d: emitted without any defined secondary", pf.Driver)
		}
		if abs(r) < 0.75 {
			t.Errorf("driver %d: emitted with best r=%v below cutoff", pf.Driver, r)
		}
		if pf.Driver+off != pf.Partner {
			t.Errorf("driver %d: partner %d does not match best offset %d", pf.Driver, pf.Partner, off)
		}
	}
}

// Every emitted pairing must be reciprocated: the driver is among the
// partner's own top secondary peaks.
func TestPairBidirectional(t *testing.T) {
	m := twinPeakMatrix(t)
	pockets := pocketsFor(t, m, 30)

	p, _ := New(Config{PocketRCutoff: 0.75, NoisePercentile: 0.99})
	pfs, _, _, err := p.Pair(pockets, m)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}

	byDriver := make(map[int]*profile.Pocket)
	for i := range pockets {
		byDriver[pockets[i].Driver] = &pockets[i]
	}

	for _, pf := range pfs {
		if !reciprocates(byDriver[pf.Partner], pf.Driver) {
			t.Errorf("driver %d partner %d: pairing not reciprocated", pf.Driver, pf.Partner)
		}
	}
}

func TestPureNoiseEmitsNothingStrong(t *testing.T) {
	rows := make([][]float64, 10)
	for s := range rows {
		rows[s] = testutil.SeededNoise(int64(s)+301, 1, 60)
	}
	m, err := spectral.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}

	pockets := pocketsFor(t, m, 10)
	p, _ := New(Config{PocketRCutoff: 0.95, NoisePercentile: 0.99})
	pfs, _, _, err := p.Pair(pockets, m)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if len(pfs) != 0 {
		t.Errorf("pure noise at cutoff 0.95: got %d protofeatures, want 0", len(pfs))
	}
}

func TestBestSecondaryTieBreak(t *testing.T) {
	pk := profile.Pocket{
		Driver:     5,
		HalfWindow: 3,
		Corr:       []float64{0.9, 0.2, 0.1, 1.0, 0.1, 0.2, 0.9},
	}

	// Offsets -3 and +3 tie at 0.9; the negative offset wins.
	off, r, ok := bestSecondary(&pk)
	if !ok {
		t.Fatal("no secondary found")
	}
	if off != -3 {
		t.Errorf("tie break: got offset %d, want -3", off)
	}
	if r != 0.9 {
		t.Errorf("r: got %v, want 0.9", r)
	}

	// A nearer peak of equal magnitude beats a farther one.
	pk.Corr = []float64{0.9, 0.9, 0.1, 1.0, 0.1, 0.2, 0.3}
	off, _, _ = bestSecondary(&pk)
	if off != -2 {
		t.Errorf("nearest-first: got offset %d, want -2", off)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
