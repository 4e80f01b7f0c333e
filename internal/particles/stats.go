package particles

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes particle diameters in micrometres.
type Stats struct {
	Count    int     `json:"count"`
	MeanUm   float64 `json:"mean_um"`
	StdDevUm float64 `json:"stddev_um"`
	MedianUm float64 `json:"median_um"`
	MaxUm    float64 `json:"max_um"`
}

// ComputeStats returns summary statistics for diameters. The standard
// deviation is the sample standard deviation and is 0 for fewer than two
// values. An empty input gives the zero Stats.
func ComputeStats(diameters []float64) Stats {
	n := len(diameters)
	if n == 0 {
		return Stats{}
	}

	sorted := append([]float64(nil), diameters...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 || math.IsNaN(std) {
		std = 0
	}

	return Stats{
		Count:    n,
		MeanUm:   mean,
		StdDevUm: std,
		MedianUm: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		MaxUm:    floats.Max(sorted),
	}
}

// Histogram counts diameters per bin.
func Histogram(diameters []float64) [4]int {
	var out [4]int
	for _, d := range diameters {
		out[BinFor(d)]++
	}
	return out
}
