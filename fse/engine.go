package fse

import (
	"errors"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-fse/fse/pair"
	"github.com/cwbudde/algo-fse/fse/profile"
	"github.com/cwbudde/algo-fse/fse/storm"
	"github.com/cwbudde/algo-fse/spectral"
)

// ErrEmptyROI reports a region of interest that misses the axis.
var ErrEmptyROI = errors.New("fse: region of interest covers no axis positions")

// Engine runs the extraction pipeline over one immutable dataset. An
// Engine may be reused; Run is safe to call repeatedly and each call is
// deterministic for a fixed dataset and configuration.
type Engine struct {
	m    *spectral.Matrix
	axis *spectral.Axis
	cfg  Config
}

// NewEngine validates the dataset contract and builds an Engine.
// Contract violations (mismatched lengths, non-monotonic axis) surface
// here as hard errors.
func NewEngine(m *spectral.Matrix, axis *spectral.Axis, cfg Config, opts ...Option) (*Engine, error) {
	if err := spectral.Validate(m, axis); err != nil {
		return nil, err
	}

	cfg = cfg.normalize()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Engine{m: m, axis: axis, cfg: cfg}, nil
}

// Extract is the one-shot form: validate, profile, pair, refine, and
// assemble with the default configuration plus opts.
func Extract(m *spectral.Matrix, axis *spectral.Axis, opts ...Option) (*FeatureSet, RunStats, error) {
	e, err := NewEngine(m, axis, DefaultConfig(), opts...)
	if err != nil {
		return nil, RunStats{}, err
	}
	return e.Run()
}

// Run executes the pipeline: corrpocket profiling over the region of
// interest, protofeature pairing with noise-width estimation, parallel
// refinement, and feature assembly in driver order.
func (e *Engine) Run() (*FeatureSet, RunStats, error) {
	span := e.axis.Full()
	if e.cfg.RegionOfInterest != nil {
		span = e.axis.IndexRange(*e.cfg.RegionOfInterest)
		if span.Empty() {
			return nil, RunStats{}, ErrEmptyROI
		}
	}

	profiler, err := profile.New(e.m, e.cfg.HalfWindow)
	if err != nil {
		return nil, RunStats{}, err
	}
	pockets := profiler.PocketRange(span)

	pairer, err := pair.New(pair.Config{
		PocketRCutoff:   e.cfg.PocketRCutoff,
		NoisePercentile: e.cfg.NoisePercentile,
	})
	if err != nil {
		return nil, RunStats{}, err
	}

	pfs, noiseWidth, pairStats, err := pairer.Pair(pockets, e.m)
	if err != nil {
		return nil, RunStats{}, err
	}

	stats := RunStats{
		DriversScanned: pairStats.DriversScanned,
		BelowCutoff:    pairStats.BelowCutoff,
		Asymmetric:     pairStats.Asymmetric,
		Protofeatures:  pairStats.Emitted,
	}

	results, err := e.refineAll(pfs, noiseWidth, span)
	if err != nil {
		return nil, RunStats{}, err
	}
	for i := range results {
		stats.tally(results[i].Status)
	}

	return assemble(e.m, e.axis, noiseWidth, results), stats, nil
}

// refineAll fans the protofeatures out over a bounded worker pool. Each
// worker owns a private Refiner (and its scratch arenas); results land
// in preallocated slots indexed by protofeature order, so the output is
// deterministic regardless of scheduling.
func (e *Engine) refineAll(pfs []pair.Protofeature, noiseWidth int, bounds spectral.Range) ([]storm.Feature, error) {
	results := make([]storm.Feature, len(pfs))
	if len(pfs) == 0 {
		return results, nil
	}

	scfg := storm.Config{
		RCutoff:       e.cfg.RCutoff,
		Q:             e.cfg.Q,
		Expansion:     e.cfg.Expansion,
		MinPeak:       noiseWidth,
		MaxIterations: e.cfg.MaxIterations,
		MinSubset:     e.cfg.MinSubset,
		Correction:    e.cfg.Correction,
		Bounds:        bounds,
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pfs) {
		workers = len(pfs)
	}

	refiners := make([]*storm.Refiner, workers)
	for i := range refiners {
		r, err := storm.NewRefiner(e.m, scfg)
		if err != nil {
			return nil, err
		}
		refiners[i] = r
	}

	idx := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(r *storm.Refiner) {
			defer wg.Done()
			for i := range idx {
				results[i] = r.Refine(pfs[i])
			}
		}(refiners[w])
	}

	for i := range pfs {
		idx <- i
	}
	close(idx)
	wg.Wait()

	return results, nil
}
