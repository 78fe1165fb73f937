package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/ccf"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/detection"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/features"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/linelist"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/output"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/repository"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/spectrum"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/storage"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Progress checkpoints reported while an analysis runs.
const (
	progressStarted  = 10
	progressInputs   = 20
	progressCombined = 40
	progressCatalog  = 50
	progressDetected = 70
	progressUploaded = 85
	progressStored   = 95
	progressDone     = 100
)

type ProcessingService interface {
	ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

// Options tunes the pipeline run by the service.
type Options struct {
	// Workers bounds concurrent molecule scoring.
	Workers int
	// ReferenceLayout picks the reference spectrum when no input is flagged.
	ReferenceLayout string
}

type processingService struct {
	store      storage.ObjectStore
	repository repository.AnalysisRepository
	opts       Options
}

func NewProcessingService(store storage.ObjectStore, repo repository.AnalysisRepository, opts Options) ProcessingService {
	return &processingService{
		store:      store,
		repository: repo,
		opts:       opts,
	}
}

// ProcessAnalysis runs the full pipeline for one analysis. Any failure after the
// analysis is loaded is recorded on the analysis before being returned.
func (s *processingService) ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, progressStarted); err != nil {
		return err
	}

	analysis, err := s.repository.GetByID(ctx, analysisID)
	if err != nil {
		return err
	}

	logger := log.With().Str("analysisID", analysis.ID).Logger()
	logger.Info().Msg("Processing analysis")

	if err := s.run(ctx, analysisID, analysis); err != nil {
		logger.Error().Err(err).Msg("Analysis failed")
		if uerr := s.repository.UpdateError(ctx, analysisID, err.Error()); uerr != nil {
			return errors.Join(err, uerr)
		}
		return err
	}

	logger.Info().Msg("Analysis completed")
	return nil
}

func (s *processingService) run(ctx context.Context, id uuid.UUID, analysis *models.Analysis) error {
	inputs, err := s.repository.GetInputs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list inputs: %w", err)
	}
	spectra, catalogs, err := partitionInputs(inputs)
	if err != nil {
		return err
	}

	if err := s.repository.UpdateStatus(ctx, id, models.StatusProcessing, progressInputs); err != nil {
		return err
	}

	reference, others, err := s.loadSpectra(ctx, spectra)
	if err != nil {
		return err
	}
	combined, err := spectrum.Combine(reference, others...)
	if err != nil {
		return fmt.Errorf("failed to combine spectra: %w", err)
	}

	if err := s.repository.UpdateStatus(ctx, id, models.StatusProcessing, progressCombined); err != nil {
		return err
	}

	catalog, err := s.loadCatalogs(ctx, catalogs)
	if err != nil {
		return err
	}

	if err := s.repository.UpdateStatus(ctx, id, models.StatusProcessing, progressCatalog); err != nil {
		return err
	}

	clusterer, err := features.New(analysis.TopN, analysis.BinWidth)
	if err != nil {
		return err
	}
	result, err := detection.New(clusterer, ccf.Engine{KeepTrace: true}, s.opts.Workers).
		Run(ctx, combined, catalog, analysis.Molecules)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}
	if len(result.Unmatched) > 0 {
		log.Info().Str("analysisID", analysis.ID).Strs("unmatched", result.Unmatched).Msg("Molecules without features in range")
	}

	if err := s.repository.UpdateStatus(ctx, id, models.StatusProcessing, progressDetected); err != nil {
		return err
	}

	artifacts, err := s.uploadArtifacts(ctx, analysis.ID, combined, result)
	if err != nil {
		return err
	}

	if err := s.repository.UpdateStatus(ctx, id, models.StatusProcessing, progressUploaded); err != nil {
		return err
	}

	results := &models.AnalysisResults{
		ID:         uuid.New().String(),
		AnalysisID: analysis.ID,
		Combined:   combined,
		Features:   result.Features,
		Scores:     result.Scores,
		Artifacts:  artifacts,
		CreatedAt:  time.Now(),
	}
	if err := s.repository.StoreResults(ctx, results); err != nil {
		return fmt.Errorf("failed to store results: %w", err)
	}

	if err := s.repository.UpdateStatus(ctx, id, models.StatusProcessing, progressStored); err != nil {
		return err
	}
	return s.repository.UpdateStatus(ctx, id, models.StatusCompleted, progressDone)
}

// loadSpectra downloads and parses every spectrum input, returning the reference
// and the rest in merge order.
func (s *processingService) loadSpectra(ctx context.Context, inputs []*models.AnalysisInput) (models.Spectrum, []models.Spectrum, error) {
	ordered, err := orderSpectra(inputs, s.opts.ReferenceLayout)
	if err != nil {
		return models.Spectrum{}, nil, err
	}

	loaded := make([]models.Spectrum, 0, len(ordered))
	for _, in := range ordered {
		layout, err := spectrum.LayoutByName(in.Layout)
		if err != nil {
			return models.Spectrum{}, nil, err
		}
		data, err := s.store.DownloadFile(ctx, in.S3Key)
		if err != nil {
			return models.Spectrum{}, nil, fmt.Errorf("failed to download spectrum %s: %w", in.ID, err)
		}
		sp, err := spectrum.Load(bytes.NewReader(data), in.S3Key, layout)
		if err != nil {
			return models.Spectrum{}, nil, err
		}
		loaded = append(loaded, sp)
	}
	return loaded[0], loaded[1:], nil
}

// loadCatalogs parses every catalog input into a single line list.
func (s *processingService) loadCatalogs(ctx context.Context, inputs []*models.AnalysisInput) (*linelist.Catalog, error) {
	merged := &linelist.Catalog{Skipped: map[linelist.SkipReason]int{}}
	for _, in := range inputs {
		data, err := s.store.DownloadFile(ctx, in.S3Key)
		if err != nil {
			return nil, fmt.Errorf("failed to download catalog %s: %w", in.ID, err)
		}
		catalog, err := linelist.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		merged.Lines = append(merged.Lines, catalog.Lines...)
		for reason, n := range catalog.Skipped {
			merged.Skipped[reason] += n
		}
	}
	return merged, nil
}

// uploadArtifacts renders the three TSV files and stores them, returning their object keys.
func (s *processingService) uploadArtifacts(ctx context.Context, analysisID string, combined models.CombinedSpectrum, result *detection.Result) (map[string]string, error) {
	renders := []struct {
		name  string
		write func(*bytes.Buffer) error
	}{
		{output.CombinedFile, func(b *bytes.Buffer) error { return output.WriteCombined(b, combined) }},
		{output.FeaturesFile, func(b *bytes.Buffer) error { return output.WriteFeatures(b, result.Features) }},
		{output.PeaksFile, func(b *bytes.Buffer) error { return output.WritePeaks(b, result.Scores) }},
	}

	artifacts := make(map[string]string, len(renders))
	for _, r := range renders {
		var buf bytes.Buffer
		if err := r.write(&buf); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", r.name, err)
		}
		key := storage.ArtifactKey(analysisID, r.name)
		if err := s.store.UploadFile(ctx, key, storage.ContentTypeTSV, buf.Bytes()); err != nil {
			return nil, err
		}
		artifacts[r.name] = key
	}
	return artifacts, nil
}
