package processing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/spectrum"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

var (
	ErrNoSpectra          = errors.New("analysis has no spectrum inputs")
	ErrNoCatalog          = errors.New("analysis has no line catalog input")
	ErrMultipleReferences = errors.New("more than one spectrum is flagged as reference")
)

func partitionInputs(inputs []*models.AnalysisInput) (spectra, catalogs []*models.AnalysisInput, err error) {
	for _, in := range inputs {
		switch in.Kind {
		case models.InputSpectrum:
			spectra = append(spectra, in)
		case models.InputCatalog:
			catalogs = append(catalogs, in)
		default:
			return nil, nil, fmt.Errorf("input %s has unknown kind %q", in.ID, in.Kind)
		}
	}
	if len(spectra) == 0 {
		return nil, nil, ErrNoSpectra
	}
	if len(catalogs) == 0 {
		return nil, nil, ErrNoCatalog
	}
	return spectra, catalogs, nil
}

// orderSpectra returns the spectrum inputs with the reference first and the rest by
// ascending precedence, upload order breaking ties. The reference is the flagged input,
// else the first input whose layout resolves to referenceLayout, else the first in order.
func orderSpectra(inputs []*models.AnalysisInput, referenceLayout string) ([]*models.AnalysisInput, error) {
	ordered := make([]*models.AnalysisInput, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Precedence < ordered[j].Precedence
	})

	ref := -1
	for i, in := range ordered {
		if !in.Reference {
			continue
		}
		if ref >= 0 {
			return nil, ErrMultipleReferences
		}
		ref = i
	}

	if ref < 0 && referenceLayout != "" {
		want, err := spectrum.LayoutByName(referenceLayout)
		if err == nil {
			for i, in := range ordered {
				if l, err := spectrum.LayoutByName(in.Layout); err == nil && l.Name == want.Name {
					ref = i
					break
				}
			}
		}
	}
	if ref < 0 {
		ref = 0
	}

	out := make([]*models.AnalysisInput, 0, len(ordered))
	out = append(out, ordered[ref])
	out = append(out, ordered[:ref]...)
	out = append(out, ordered[ref+1:]...)
	return out, nil
}
