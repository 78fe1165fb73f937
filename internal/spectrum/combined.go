package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/rs/zerolog/log"
)

// CombinedHeader is the header row of the combined spectrum TSV.
const CombinedHeader = "wavelength\tdepth\tdepth_err"

// ReadCombined parses a combined spectrum TSV written by output.WriteCombined.
// A blank depth_err field is read back as absent. Rows must be ascending by wavelength;
// a row repeating the previous wavelength is dropped so the result stays duplicate-free.
func ReadCombined(r io.Reader) (models.CombinedSpectrum, error) {
	var cs models.CombinedSpectrum
	scanner := bufio.NewScanner(r)
	lineNo, dropped := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 || strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return models.CombinedSpectrum{}, &ParseError{Source: "combined", Line: lineNo, Err: fmt.Errorf("%w: got %d, want 2", ErrTooFewColumns, len(fields))}
		}

		var p models.SpectralPoint
		var err error
		if p.Wavelength, err = strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err != nil {
			return models.CombinedSpectrum{}, &ParseError{Source: "combined", Line: lineNo, Column: "wavelength", Value: fields[0], Err: err}
		}
		if p.Depth, err = strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err != nil {
			return models.CombinedSpectrum{}, &ParseError{Source: "combined", Line: lineNo, Column: "depth", Value: fields[1], Err: err}
		}
		if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if err != nil {
				return models.CombinedSpectrum{}, &ParseError{Source: "combined", Line: lineNo, Column: "depth_err", Value: fields[2], Err: err}
			}
			if !math.IsNaN(v) {
				p.DepthErr = models.Float(v)
			}
		}

		if n := len(cs.Points); n > 0 {
			prev := cs.Points[n-1].Wavelength
			if p.Wavelength < prev {
				return models.CombinedSpectrum{}, &ParseError{Source: "combined", Line: lineNo, Column: "wavelength", Value: fields[0], Err: ErrUnsorted}
			}
			if p.Wavelength == prev {
				// Distinct wavelengths can collide once printed with 6 significant digits.
				dropped++
				continue
			}
		}
		cs.Points = append(cs.Points, p)
	}
	if err := scanner.Err(); err != nil {
		return models.CombinedSpectrum{}, fmt.Errorf("failed to read combined spectrum: %w", err)
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("Dropped repeated wavelengths from combined spectrum")
	}
	return cs, nil
}

// ReadCombinedFile opens path and parses it with ReadCombined.
func ReadCombinedFile(path string) (models.CombinedSpectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.CombinedSpectrum{}, fmt.Errorf("failed to open combined spectrum: %w", err)
	}
	defer f.Close()
	return ReadCombined(f)
}
