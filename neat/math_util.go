package neat

import (
	"math"
	"math/rand"
	"strings"

	"github.com/spf13/cast"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// parseBoolAttribute parses common string representations of booleans,
// including the "random" sentinel neat-python's config readers accept.
// Uses cast.ToBoolE for the conventional true/false/yes/no/1/0 forms and
// only special-cases the randomized default itself.
func parseBoolAttribute(valStr string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(valStr))
	if trimmed == "random" || trimmed == "none" || trimmed == "" {
		return rand.Float64() < 0.5
	}
	if b, err := cast.ToBoolE(trimmed); err == nil {
		return b
	}
	return false
}

// --- Statistical Functions ---
//
// These wrap gonum.org/v1/gonum/stat and .../floats rather than hand-rolling
// the reductions, matching how yaricom/goNEAT's experiment package computes
// population statistics.

// Mean calculates the average of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return stat.Mean(values, nil)
}

// Stdev calculates the sample standard deviation of a slice of float64 values.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	_, variance := stat.MeanVariance(values, nil)
	return math.Sqrt(variance)
}

// Sum calculates the sum of a slice of float64 values.
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return floats.Sum(values)
}

// MaxFloat calculates the maximum value in a slice of float64 values.
// Returns negative infinity if the slice is empty.
func MaxFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	return floats.Max(values)
}

// MinFloat calculates the minimum value in a slice of float64 values.
// Returns positive infinity if the slice is empty.
func MinFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	return floats.Min(values)
}

// Median calculates the median of a slice of float64 values via gonum's
// empirical quantile at p=0.5.
// Returns NaN if the slice is empty.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	floats.Sort(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// StatFunctions maps function names to the actual statistical functions.
// Used by the species_fitness_func config option.
var StatFunctions = map[string]func([]float64) float64{
	"mean":   Mean,
	"stdev":  Stdev,
	"sum":    Sum,
	"max":    MaxFloat,
	"min":    MinFloat,
	"median": Median,
}
