package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/linelist"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/output"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/spectrum"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

const defaultOutDir = "output"

// combine --reference layout:path [--input layout:path ...]
func combineCmd() *cobra.Command {
	var reference, out string
	var inputs []string

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Align spectra to a reference baseline and merge them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := combineArgs(reference, inputs)
			if err != nil {
				return err
			}
			return writeFile(out, func(w io.Writer) error { return output.WriteCombined(w, cs) })
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "reference spectrum as layout:path")
	cmd.Flags().StringArrayVar(&inputs, "input", nil, "additional spectrum as layout:path, repeatable, earlier wins duplicate wavelengths")
	cmd.Flags().StringVarP(&out, "out", "o", filepath.Join(defaultOutDir, output.CombinedFile), "combined spectrum output")
	_ = cmd.MarkFlagRequired("reference")
	return cmd
}

// features --catalog lines.par [--spectrum combined.txt]
func featuresCmd() *cobra.Command {
	var spectrumPath, catalogPath, out string

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Cluster the strongest catalog lines of each molecule inside the spectrum range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := spectrum.ReadCombinedFile(spectrumPath)
			if err != nil {
				return err
			}
			if cs.Len() == 0 {
				return fmt.Errorf("combined spectrum %s has no points", spectrumPath)
			}
			c, err := clusterer()
			if err != nil {
				return err
			}
			mols, err := molecules()
			if err != nil {
				return err
			}
			catalog, err := linelist.Open(catalogPath)
			if err != nil {
				return err
			}

			minWl, maxWl := cs.Domain()
			var clusters []models.FeatureCluster
			for _, m := range mols {
				clusters = append(clusters, c.Cluster(m, catalog.ForMolecule(m.ID), minWl, maxWl)...)
			}
			return writeFile(out, func(w io.Writer) error { return output.WriteFeatures(w, clusters) })
		},
	}
	cmd.Flags().StringVar(&spectrumPath, "spectrum", filepath.Join(defaultOutDir, output.CombinedFile), "combined spectrum")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "HITRAN .par line catalog")
	cmd.Flags().StringVarP(&out, "out", "o", filepath.Join(defaultOutDir, output.FeaturesFile), "feature list output")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

// ccf --catalog lines.par [--spectrum combined.txt]
func ccfCmd() *cobra.Command {
	var spectrumPath, catalogPath, out string

	cmd := &cobra.Command{
		Use:   "ccf",
		Short: "Cross-correlate the combined spectrum with each molecule's feature template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := spectrum.ReadCombinedFile(spectrumPath)
			if err != nil {
				return err
			}
			res, err := detect(cmd.Context(), cs, catalogPath)
			if err != nil {
				return err
			}
			return writeFile(out, func(w io.Writer) error { return output.WritePeaks(w, res.Scores) })
		},
	}
	cmd.Flags().StringVar(&spectrumPath, "spectrum", filepath.Join(defaultOutDir, output.CombinedFile), "combined spectrum")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "HITRAN .par line catalog")
	cmd.Flags().StringVarP(&out, "out", "o", filepath.Join(defaultOutDir, output.PeaksFile), "peak list output")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

// run: combine, features and ccf in one pass
func runCmd() *cobra.Command {
	var reference, catalogPath, outDir string
	var inputs []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Combine spectra, track features and cross-correlate in one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := combineArgs(reference, inputs)
			if err != nil {
				return err
			}
			res, err := detect(cmd.Context(), cs, catalogPath)
			if err != nil {
				return err
			}

			if err := writeFile(filepath.Join(outDir, output.CombinedFile), func(w io.Writer) error {
				return output.WriteCombined(w, cs)
			}); err != nil {
				return err
			}
			if err := writeFile(filepath.Join(outDir, output.FeaturesFile), func(w io.Writer) error {
				return output.WriteFeatures(w, res.Features)
			}); err != nil {
				return err
			}
			return writeFile(filepath.Join(outDir, output.PeaksFile), func(w io.Writer) error {
				return output.WritePeaks(w, res.Scores)
			})
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "reference spectrum as layout:path")
	cmd.Flags().StringArrayVar(&inputs, "input", nil, "additional spectrum as layout:path, repeatable, earlier wins duplicate wavelengths")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "HITRAN .par line catalog")
	cmd.Flags().StringVar(&outDir, "out-dir", defaultOutDir, "directory for the three output files")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}
