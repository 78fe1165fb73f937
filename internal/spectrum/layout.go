package spectrum

import (
	"fmt"
	"strings"
)

// Column identifies what a whitespace-delimited field in a spectrum table holds.
type Column int

const (
	ColIgnore Column = iota
	ColWavelength
	ColWavelengthErr
	ColDepth
	ColDepthErr
)

func (c Column) String() string {
	switch c {
	case ColWavelength:
		return "wavelength"
	case ColWavelengthErr:
		return "wavelength_err"
	case ColDepth:
		return "depth"
	case ColDepthErr:
		return "depth_err"
	default:
		return "ignored"
	}
}

// Layout describes one table shape: the ordered columns and whether depth values are in ppm.
// Error columns missing from Columns are recorded as absent, never as zero.
type Layout struct {
	Name    string
	Columns []Column
	PPM     bool
}

// Built-in layouts for the instruments the pipeline was written against.
var (
	// LayoutPPM is NIRISS SOSS output: depth and its error in parts per million.
	LayoutPPM = Layout{
		Name:    "ppm",
		Columns: []Column{ColWavelength, ColWavelengthErr, ColDepth, ColDepthErr},
		PPM:     true,
	}
	// LayoutNoErrors is a best-fit model spectrum without uncertainties.
	LayoutNoErrors = Layout{
		Name:    "noerr",
		Columns: []Column{ColWavelength, ColDepth},
	}
	// LayoutFull is archival HST/Spitzer data with a trailing transit count.
	LayoutFull = Layout{
		Name:    "full",
		Columns: []Column{ColWavelength, ColWavelengthErr, ColDepth, ColDepthErr, ColIgnore},
	}
	// LayoutDepthErr is NIRSpec PRISM output, no wavelength error.
	LayoutDepthErr = Layout{
		Name:    "deptherr",
		Columns: []Column{ColWavelength, ColDepth, ColDepthErr},
	}
)

var layoutAliases = map[string]Layout{
	"ppm":      LayoutPPM,
	"niriss":   LayoutPPM,
	"noerr":    LayoutNoErrors,
	"model":    LayoutNoErrors,
	"full":     LayoutFull,
	"archival": LayoutFull,
	"deptherr": LayoutDepthErr,
	"prism":    LayoutDepthErr,
}

// LayoutByName resolves a layout name or instrument alias, case-insensitively.
func LayoutByName(name string) (Layout, error) {
	l, ok := layoutAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Layout{}, fmt.Errorf("unknown spectrum layout %q", name)
	}
	return l, nil
}

// has reports whether the layout carries column c.
func (l Layout) has(c Column) bool {
	for _, col := range l.Columns {
		if col == c {
			return true
		}
	}
	return false
}

// required is the number of fields a row must carry: trailing ignored columns may be absent.
func (l Layout) required() int {
	n := len(l.Columns)
	for n > 0 && l.Columns[n-1] == ColIgnore {
		n--
	}
	return n
}
