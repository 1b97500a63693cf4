package fse_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fse/fse"
	"github.com/cwbudde/algo-fse/spectral"
)

func ExampleExtract() {
	// Build a small synthetic dataset: 10 spectra over 50 positions with
	// a Gaussian peak at column 10 whose neighborhood repeats exactly at
	// column 40 in the first 8 samples; the last 2 samples carry only
	// jitter.
	const (
		samples   = 10
		positions = 50
	)

	rows := make([][]float64, samples)
	for s := range rows {
		row := make([]float64, positions)
		for i := range row {
			row[i] = 0.004 * math.Sin(float64(s*37+i*101))
		}
		if s < 8 {
			amp := 1 + 0.1*float64(s)
			for i := range row {
				d := float64(i - 10)
				row[i] += amp * math.Exp(-d*d/4.5)
			}
		}
		rows[s] = row
	}
	for s := range rows {
		for d := -5; d <= 5; d++ {
			rows[s][40+d] = rows[s][10+d]
		}
	}

	matrix, err := spectral.NewMatrix(rows)
	if err != nil {
		panic(err)
	}

	ppm := make([]float64, positions)
	for i := range ppm {
		ppm[i] = 9.8 - 0.02*float64(i)
	}
	axis, err := spectral.NewAxis(ppm)
	if err != nil {
		panic(err)
	}

	features, stats, err := fse.Extract(matrix, axis, fse.WithHalfWindow(30))
	if err != nil {
		panic(err)
	}

	f := features.At(0)
	fmt.Printf("succeeded=%v members=%d spans-both-peaks=%v\n",
		stats.Succeeded > 0, len(f.Subset), f.Region.Contains(10) && f.Region.Contains(40))

	// Output:
	// succeeded=true members=8 spans-both-peaks=true
}
