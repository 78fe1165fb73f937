package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/ccf"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/detection"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/linelist"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/spectrum"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

// loadSpectrumArg loads a "layout:path" argument such as "niriss:data/niriss.txt".
func loadSpectrumArg(arg string) (models.Spectrum, error) {
	name, path, ok := strings.Cut(arg, ":")
	if !ok || path == "" {
		return models.Spectrum{}, fmt.Errorf("spectrum %q must be layout:path", arg)
	}
	layout, err := spectrum.LayoutByName(name)
	if err != nil {
		return models.Spectrum{}, err
	}
	return spectrum.LoadFile(path, layout)
}

// combineArgs loads the reference and the other spectra, in precedence order, and combines them.
func combineArgs(reference string, others []string) (models.CombinedSpectrum, error) {
	ref, err := loadSpectrumArg(reference)
	if err != nil {
		return models.CombinedSpectrum{}, err
	}
	rest := make([]models.Spectrum, 0, len(others))
	for _, arg := range others {
		s, err := loadSpectrumArg(arg)
		if err != nil {
			return models.CombinedSpectrum{}, err
		}
		rest = append(rest, s)
	}
	return spectrum.Combine(ref, rest...)
}

// detect clusters and scores every configured molecule against cs.
func detect(ctx context.Context, cs models.CombinedSpectrum, catalogPath string) (*detection.Result, error) {
	c, err := clusterer()
	if err != nil {
		return nil, err
	}
	mols, err := molecules()
	if err != nil {
		return nil, err
	}
	catalog, err := linelist.Open(catalogPath)
	if err != nil {
		return nil, err
	}

	res, err := detection.New(c, ccf.Engine{}, cfg.Pipeline.Workers).Run(ctx, cs, catalog, mols)
	if err != nil {
		return nil, err
	}
	if len(res.Unmatched) > 0 {
		log.Warn().Strs("molecules", res.Unmatched).Msg("No features inside the spectrum range")
	}
	return res, nil
}

// writeFile creates path, making parent directories, and fills it with write.
func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("Wrote output")
	return nil
}
