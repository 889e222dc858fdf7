package simulator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptyPath is returned when statistics are requested for an empty path.
	ErrEmptyPath = errors.New("empty rate path")
	// ErrRaggedEnsemble is returned when ensemble paths differ in length.
	ErrRaggedEnsemble = errors.New("ensemble paths differ in length")
	// ErrNonFinitePath is returned when a path or its statistics hold NaN or ±Inf.
	ErrNonFinitePath = errors.New("rate path is not finite")
)

// PathStats summarizes a single rate path.
type PathStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Final  float64
}

// Summarize returns the sample statistics of path. A constant path, including
// a single rate, has StdDev 0. A path that diverged to NaN or ±Inf, or whose
// moments overflow, is reported with ErrNonFinitePath.
func Summarize(path []float64) (PathStats, error) {
	if len(path) == 0 {
		return PathStats{}, fmt.Errorf("Summarize: %w", ErrEmptyPath)
	}
	for i, r := range path {
		if !finite(r) {
			return PathStats{}, fmt.Errorf("Summarize: %w (step %d = %g)", ErrNonFinitePath, i, r)
		}
	}

	lo, hi := floats.Min(path), floats.Max(path)
	mean, std := stat.MeanStdDev(path, nil)
	if lo == hi {
		mean, std = lo, 0
	}
	if !finite(mean) || !finite(std) {
		return PathStats{}, fmt.Errorf("Summarize: %w (mean=%g std=%g)", ErrNonFinitePath, mean, std)
	}
	return PathStats{
		Mean:   mean,
		StdDev: std,
		Min:    lo,
		Max:    hi,
		Final:  path[len(path)-1],
	}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// EnsembleMean averages the ensemble across paths at each step.
func EnsembleMean(paths [][]float64) ([]float64, error) {
	if len(paths) == 0 {
		return []float64{}, nil
	}

	steps := len(paths[0])
	for i, p := range paths {
		if len(p) != steps {
			return nil, fmt.Errorf("EnsembleMean: %w (path %d has %d steps, want %d)", ErrRaggedEnsemble, i, len(p), steps)
		}
	}

	out := make([]float64, steps)
	column := make([]float64, len(paths))
	for j := range out {
		for i, p := range paths {
			column[i] = p[j]
		}
		out[j] = stat.Mean(column, nil)
	}
	return out, nil
}
