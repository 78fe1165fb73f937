package ccf

import (
	"gonum.org/v1/gonum/floats"
)

// CorrelateFull computes the full discrete cross-correlation of a and b.
// The result has length len(a)+len(b)-1; index k holds lag k-(len(b)-1), that is
// out[k] = sum_n a[n] * b[n-lag].
func CorrelateFull(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	na, nb := len(a), len(b)
	out := make([]float64, na+nb-1)
	for k := range out {
		lag := k - (nb - 1)
		lo := max(0, lag)
		hi := min(na, nb+lag)
		if lo >= hi {
			continue
		}
		out[k] = floats.Dot(a[lo:hi], b[lo-lag:hi-lag])
	}
	return out
}

// CorrelateSame returns the centered len(a) samples of CorrelateFull, the "same" mode
// of numpy and scipy.
func CorrelateSame(a, b []float64) []float64 {
	full := CorrelateFull(a, b)
	if full == nil {
		return nil
	}
	start := (len(b) - 1) / 2
	return full[start : start+len(a)]
}
