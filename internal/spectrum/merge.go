package spectrum

import (
	"errors"
	"sort"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/rs/zerolog/log"
)

// ErrEmptyReference is returned when the baseline reference spectrum has no points.
var ErrEmptyReference = errors.New("reference spectrum is empty")

// Align shifts every other spectrum so its median depth equals the reference median.
// Each offset is computed from that spectrum's own unshifted depths. The reference is
// returned first and unchanged; inputs are never modified.
func Align(reference models.Spectrum, others ...models.Spectrum) ([]models.Spectrum, error) {
	if len(reference.Points) == 0 {
		return nil, ErrEmptyReference
	}
	base := Median(reference.Depths())

	out := make([]models.Spectrum, 0, len(others)+1)
	out = append(out, clone(reference))
	for _, s := range others {
		shifted := clone(s)
		if len(s.Points) > 0 {
			offset := base - Median(s.Depths())
			for i := range shifted.Points {
				shifted.Points[i].Depth += offset
			}
			log.Debug().Str("spectrum", s.Name).Float64("offset", offset).Msg("Aligned spectrum baseline")
		}
		out = append(out, shifted)
	}
	return out, nil
}

// Merge concatenates spectra in argument order, sorts by wavelength and keeps only the
// first occurrence of each wavelength. Wavelengths are compared exactly, so values that
// differ by rounding noise both survive.
func Merge(spectra ...models.Spectrum) models.CombinedSpectrum {
	var all []models.SpectralPoint
	for _, s := range spectra {
		all = append(all, s.Points...)
	}
	// Stable so that equal wavelengths keep concatenation order and the first wins.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Wavelength < all[j].Wavelength
	})

	points := make([]models.SpectralPoint, 0, len(all))
	for i, p := range all {
		if i > 0 && p.Wavelength == points[len(points)-1].Wavelength {
			continue
		}
		points = append(points, p)
	}

	log.Debug().Int("input_points", len(all)).Int("kept", len(points)).Msg("Merged spectra")
	return models.CombinedSpectrum{Points: points}
}

// Combine aligns others to reference and merges them with reference taking precedence,
// followed by others in the order given.
func Combine(reference models.Spectrum, others ...models.Spectrum) (models.CombinedSpectrum, error) {
	aligned, err := Align(reference, others...)
	if err != nil {
		return models.CombinedSpectrum{}, err
	}
	return Merge(aligned...), nil
}

// Median returns the median of values, averaging the two middle values for an even count.
// It returns 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func clone(s models.Spectrum) models.Spectrum {
	return models.Spectrum{Name: s.Name, Points: append([]models.SpectralPoint(nil), s.Points...)}
}
