package ccf

import (
	"errors"
	"fmt"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"gonum.org/v1/gonum/floats"
)

// ErrNoClusters is returned when a molecule has no feature clusters to build a template from.
var ErrNoClusters = errors.New("no feature clusters")

// InsufficientDataError reports a spectrum too short to cross-correlate.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cross-correlation needs at least 2 spectrum points, got %d", e.Points)
}

// Engine scores molecules against a combined spectrum.
type Engine struct {
	// KeepTrace stores the full CCF trace in each score, for plotting.
	KeepTrace bool
}

// Score cross-correlates the z-scored spectrum depths with the z-scored cluster template
// and returns the maximum over all lags.
func (e Engine) Score(cs models.CombinedSpectrum, molecule models.Molecule, clusters []models.FeatureCluster) (models.MoleculeScore, error) {
	if cs.Len() < 2 {
		return models.MoleculeScore{}, &InsufficientDataError{Points: cs.Len()}
	}
	if len(clusters) == 0 {
		return models.MoleculeScore{}, fmt.Errorf("%s: %w", molecule.Name, ErrNoClusters)
	}

	wave := cs.Wavelengths()
	depth := ZScore(cs.Depths())
	tpl := ZScore(Template(wave, clusters))

	trace := CorrelateSame(depth, tpl)
	idx := floats.MaxIdx(trace)

	score := models.MoleculeScore{
		Molecule:       molecule.Name,
		MoleculeID:     molecule.ID,
		Peak:           trace[idx],
		PeakWavelength: wave[idx],
		Clusters:       len(clusters),
	}
	if e.KeepTrace {
		score.CCF = trace
	}
	return score, nil
}
