package ccf

import (
	"gonum.org/v1/gonum/stat"
)

// ZScore returns (x - mean) / std using the population standard deviation.
// A constant vector has no spread and maps to the zero vector.
func ZScore(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 || constant(x) {
		return out
	}
	mean, std := stat.PopMeanStdDev(x, nil)
	if std == 0 {
		std = 1
	}
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
