package features

import "math"

// exact is the largest bin number for which min + i*width can be checked against x.
const exact = 1 << 53

// Bins partitions [Min, Max] into max(1, ceil((Max-Min)/Width)) bins of Width,
// the i-th starting at Min + i*Width. Indices are computed, not looked up, so a
// fine width over a wide domain costs nothing.
type Bins struct {
	Min, Max, Width float64
	count           float64
}

// NewBins lays bins over [min, max]. width must be positive and finite.
func NewBins(min, max, width float64) Bins {
	n := math.Ceil((max - min) / width)
	if !(n >= 1) {
		n = 1
	}
	return Bins{Min: min, Max: max, Width: width, count: n}
}

// Count returns the number of bins.
func (b Bins) Count() float64 { return b.count }

// Index returns the bin holding x and false when x lies outside [Min, Max].
// A value on an inner edge falls into the bin above it, as numpy.digitize does with
// right=false; x equal to Max joins the last bin.
func (b Bins) Index(x float64) (float64, bool) {
	if math.IsNaN(x) || x < b.Min || x > b.Max {
		return 0, false
	}
	i := math.Floor((x - b.Min) / b.Width)
	if i < exact {
		// agree with the edge min + i*width rather than the rounded quotient
		if i > 0 && b.Min+i*b.Width > x {
			i--
		} else if b.Min+(i+1)*b.Width <= x {
			i++
		}
	}
	if i > b.count-1 {
		i = b.count - 1
	}
	return i, true
}
