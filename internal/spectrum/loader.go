package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/rs/zerolog/log"
)

const ppmScale = 1e6

// Load reads a whitespace-delimited spectrum table in the given layout.
// Lines starting with '#' and blank lines are skipped. Extra trailing columns are ignored.
func Load(r io.Reader, name string, layout Layout) (models.Spectrum, error) {
	if !layout.has(ColWavelength) || !layout.has(ColDepth) {
		return models.Spectrum{}, fmt.Errorf("layout %q lacks wavelength or depth column", layout.Name)
	}

	spec := models.Spectrum{Name: name}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if want := layout.required(); len(fields) < want {
			return models.Spectrum{}, &ParseError{Source: name, Line: lineNo, Err: fmt.Errorf("%w: got %d, want %d", ErrTooFewColumns, len(fields), want)}
		}

		point, err := parseRow(fields, layout)
		if err != nil {
			err.Source = name
			err.Line = lineNo
			return models.Spectrum{}, err
		}
		spec.Points = append(spec.Points, point)
	}
	if err := scanner.Err(); err != nil {
		return models.Spectrum{}, fmt.Errorf("failed to read spectrum %s: %w", name, err)
	}

	log.Debug().Str("spectrum", name).Str("layout", layout.Name).Int("points", len(spec.Points)).Msg("Loaded spectrum")
	return spec, nil
}

// LoadFile opens path and loads it with Load, naming the spectrum after the file.
func LoadFile(path string, layout Layout) (models.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Spectrum{}, fmt.Errorf("failed to open spectrum: %w", err)
	}
	defer f.Close()
	return Load(f, filepath.Base(path), layout)
}

func parseRow(fields []string, layout Layout) (models.SpectralPoint, *ParseError) {
	var p models.SpectralPoint
	for i, col := range layout.Columns {
		if col == ColIgnore {
			continue
		}
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return models.SpectralPoint{}, &ParseError{Column: col.String(), Value: fields[i], Err: err}
		}
		if math.IsNaN(v) && (col == ColWavelengthErr || col == ColDepthErr) {
			// NaN is how upstream tools write an unknown uncertainty.
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.SpectralPoint{}, &ParseError{Column: col.String(), Value: fields[i], Err: ErrNotFinite}
		}
		switch col {
		case ColWavelength:
			if v <= 0 {
				return models.SpectralPoint{}, &ParseError{Column: col.String(), Value: fields[i], Err: ErrNonPositiveWavelength}
			}
			p.Wavelength = v
		case ColWavelengthErr:
			p.WavelengthErr = models.Float(v)
		case ColDepth:
			if layout.PPM {
				v /= ppmScale
			}
			p.Depth = v
		case ColDepthErr:
			if layout.PPM {
				v /= ppmScale
			}
			p.DepthErr = models.Float(v)
		}
	}
	return p, nil
}
