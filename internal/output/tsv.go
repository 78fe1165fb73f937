// Package output renders pipeline results as the tab-separated text files
// downstream plotting and reporting tools read.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/spectrum"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

// Artifact file names used by the CLI and the object store.
const (
	CombinedFile = "combined_spectrum.txt"
	FeaturesFile = "feature_lines.txt"
	PeaksFile    = "ccf_peaks.txt"
)

// WriteCombined writes the combined spectrum with 6-digit scientific notation.
// An absent depth error is written as an empty field.
func WriteCombined(w io.Writer, cs models.CombinedSpectrum) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, spectrum.CombinedHeader); err != nil {
		return err
	}
	for _, p := range cs.Points {
		depthErr := ""
		if p.DepthErr != nil {
			depthErr = fmt.Sprintf("%.6e", *p.DepthErr)
		}
		if _, err := fmt.Fprintf(bw, "%.6e\t%.6e\t%s\n", p.Wavelength, p.Depth, depthErr); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFeatures writes one row per feature cluster center.
func WriteFeatures(w io.Writer, clusters []models.FeatureCluster) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "molecule\twavelength_um"); err != nil {
		return err
	}
	for _, c := range clusters {
		if _, err := fmt.Fprintf(bw, "%s\t%.6f\n", c.Molecule, c.CenterWavelength); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePeaks writes one row per scored molecule.
func WritePeaks(w io.Writer, scores []models.MoleculeScore) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "molecule\tccf_peak"); err != nil {
		return err
	}
	for _, s := range scores {
		if _, err := fmt.Fprintf(bw, "%s\t%.3f\n", s.Molecule, s.Peak); err != nil {
			return err
		}
	}
	return bw.Flush()
}
