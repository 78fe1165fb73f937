package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/features"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/linelist"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/processing"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/repository"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/spectrum"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/storage"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Defaults are applied to analyses created without explicit detection settings
type Defaults struct {
	TopN      int
	BinWidth  float64
	Molecules []string
}

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	repo          repository.AnalysisRepository
	store         storage.ObjectStore
	processingSvc processing.ProcessingService
	defaults      Defaults
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(repo repository.AnalysisRepository, store storage.ObjectStore, processingSvc processing.ProcessingService, defaults Defaults) *AnalysisHandler {
	return &AnalysisHandler{
		repo:          repo,
		store:         store,
		processingSvc: processingSvc,
		defaults:      defaults,
	}
}

// CreateAnalysis creates a new analysis with its detection settings
func (h *AnalysisHandler) CreateAnalysis(ctx context.Context, req *models.CreateAnalysisRequest) (*models.CreateAnalysisResponse, error) {
	topN := req.Body.TopN
	if topN == 0 {
		topN = h.defaults.TopN
	}
	binWidth := req.Body.BinWidth
	if binWidth == 0 {
		binWidth = h.defaults.BinWidth
	}
	if _, err := features.New(topN, binWidth); err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}

	names := req.Body.Molecules
	if len(names) == 0 {
		names = h.defaults.Molecules
	}
	molecules, err := linelist.ParseMolecules(names)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	if len(molecules) == 0 {
		return nil, huma.Error400BadRequest("At least one molecule is required", nil)
	}

	now := time.Now()
	analysis := &models.Analysis{
		ID:        uuid.New().String(),
		Name:      req.Body.Name,
		Status:    models.StatusPending,
		TopN:      topN,
		BinWidth:  binWidth,
		Molecules: molecules,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(ctx, analysis); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create analysis", err)
	}
	log.Info().Str("analysisID", analysis.ID).Str("name", analysis.Name).Int("molecules", len(molecules)).Msg("Analysis created")

	return &models.CreateAnalysisResponse{
		Body: models.CreateAnalysisResponseBody{
			ID:        analysis.ID,
			Status:    analysis.Status,
			TopN:      topN,
			BinWidth:  binWidth,
			Molecules: molecules,
		},
	}, nil
}

// AddInput registers a spectrum or line catalog and returns an upload URL for it
func (h *AnalysisHandler) AddInput(ctx context.Context, req *models.AddInputRequest) (*models.AddInputResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	layout := req.Body.Layout
	switch req.Body.Kind {
	case models.InputSpectrum:
		l, err := spectrum.LayoutByName(layout)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error(), err)
		}
		layout = l.Name
	case models.InputCatalog:
		if req.Body.Reference {
			return nil, huma.Error400BadRequest("A line catalog cannot be the reference spectrum", nil)
		}
		layout = ""
	default:
		return nil, huma.Error400BadRequest(fmt.Sprintf("Unknown input kind %q", req.Body.Kind), nil)
	}

	analysis, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, notFoundOr500("Analysis not found", err)
	}
	if analysis.Status != models.StatusPending {
		return nil, huma.Error409Conflict("Inputs can only be added before processing starts",
			fmt.Errorf("analysis status is %s", analysis.Status))
	}

	input := &models.AnalysisInput{
		ID:         uuid.New().String(),
		AnalysisID: analysis.ID,
		Kind:       req.Body.Kind,
		Layout:     layout,
		Reference:  req.Body.Reference,
		Precedence: req.Body.Precedence,
		CreatedAt:  time.Now(),
	}
	input.S3Key = storage.InputKey(analysis.ID, input.ID, input.Kind)

	uploadURL, err := h.store.GenerateUploadURL(ctx, input.S3Key, req.Body.MimeType)
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to prepare upload", err)
	}

	if err := h.repo.AddInput(ctx, input); err != nil {
		return nil, notFoundOr500("Failed to record input", err)
	}
	log.Info().Str("analysisID", analysis.ID).Str("inputID", input.ID).Str("kind", input.Kind).Str("layout", layout).Msg("Input registered")

	return &models.AddInputResponse{
		Body: models.AddInputResponseBody{
			InputID:   input.ID,
			UploadURL: uploadURL,
			ExpiresIn: int(storage.UploadURLExpiry.Seconds()),
		},
	}, nil
}

// GetAnalysisStatus returns the current status of an analysis
func (h *AnalysisHandler) GetAnalysisStatus(ctx context.Context, req *models.GetAnalysisStatusRequest) (*models.GetAnalysisStatusResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	analysis, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, notFoundOr500("Analysis not found", err)
	}

	var resultsID *string
	if analysis.Status == models.StatusCompleted {
		results, err := h.repo.GetResults(ctx, analysisID)
		if err == nil && results != nil {
			resultsID = &results.ID
		}
	}

	return &models.GetAnalysisStatusResponse{
		Body: models.GetAnalysisStatusResponseBody{
			ID:        analysis.ID,
			Status:    analysis.Status,
			Progress:  analysis.Progress,
			Message:   h.generateStatusMessage(analysis.Status, analysis.Progress),
			Error:     analysis.ErrorMsg,
			ResultsID: resultsID,
		},
	}, nil
}

// GetAnalysisResults returns the analysis results with download links for the TSV files
func (h *AnalysisHandler) GetAnalysisResults(ctx context.Context, req *models.GetAnalysisResultsRequest) (*models.GetAnalysisResultsResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	analysis, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, notFoundOr500("Analysis not found", err)
	}
	if analysis.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Analysis not yet completed",
			fmt.Errorf("analysis status is %s", analysis.Status))
	}

	results, err := h.repo.GetResults(ctx, analysisID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	downloads := make(map[string]string, len(results.Artifacts))
	for name, key := range results.Artifacts {
		url, err := h.store.GenerateDownloadURL(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("analysisID", analysis.ID).Str("artifact", name).Msg("Failed to sign artifact download")
			continue
		}
		downloads[name] = url
	}

	return &models.GetAnalysisResultsResponse{
		Body: models.GetAnalysisResultsResponseBody{
			ID:        results.ID,
			Combined:  results.Combined,
			Features:  results.Features,
			Scores:    results.Scores,
			Downloads: downloads,
			CreatedAt: results.CreatedAt,
		},
	}, nil
}

// StartProcessing starts processing the uploaded inputs in the background
func (h *AnalysisHandler) StartProcessing(ctx context.Context, req *models.StartProcessingRequest) (*models.StartProcessingResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	analysis, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, notFoundOr500("Analysis not found", err)
	}
	switch analysis.Status {
	case models.StatusProcessing:
		return nil, huma.Error409Conflict("Analysis is already processing", nil)
	case models.StatusCompleted:
		return nil, huma.Error409Conflict("Analysis is already completed", nil)
	}

	inputs, err := h.repo.GetInputs(ctx, analysisID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list inputs", err)
	}
	if len(inputs) == 0 {
		return nil, huma.Error400BadRequest("Analysis has no inputs", nil)
	}

	// a concurrent request may have claimed it since the read above
	if err := h.repo.ClaimForProcessing(ctx, analysisID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, huma.Error409Conflict("Analysis is already processing", err)
		}
		return nil, notFoundOr500("Analysis not found", err)
	}

	log.Info().Str("analysisID", analysis.ID).Int("inputs", len(inputs)).Msg("Starting background processing")
	go func() {
		// failures are recorded on the analysis by the service
		if err := h.processingSvc.ProcessAnalysis(context.Background(), analysisID); err != nil {
			log.Error().Err(err).Str("analysisID", analysisID.String()).Msg("Processing failed")
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// generateStatusMessage creates a human-readable status message
func (h *AnalysisHandler) generateStatusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Waiting for inputs..."
	case models.StatusProcessing:
		switch {
		case progress < 40:
			return "Loading and combining spectra..."
		case progress < 70:
			return "Parsing line catalog and clustering features..."
		case progress < 95:
			return "Cross-correlating molecular templates..."
		default:
			return "Finalizing results..."
		}
	case models.StatusCompleted:
		return "Analysis complete!"
	case models.StatusFailed:
		return "Analysis failed."
	default:
		return "Unknown status"
	}
}

func notFoundOr500(msg string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return huma.Error404NotFound(msg, err)
	}
	return huma.Error500InternalServerError(msg, err)
}
