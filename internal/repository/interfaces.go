package repository

import (
	"context"
	"errors"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested analysis or results row does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an analysis is not in a state that allows the change
var ErrConflict = errors.New("conflict")

// AnalysisRepository defines the interface for analysis data operations
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	// ClaimForProcessing moves a pending or failed analysis to processing in one
	// statement, returning ErrConflict when it is already processing or completed.
	ClaimForProcessing(ctx context.Context, id uuid.UUID) error
	InputRepository
	StoreResults(ctx context.Context, results *models.AnalysisResults) error
	GetResults(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResults, error)
}

// InputRepository defines the interface for the files attached to an analysis
type InputRepository interface {
	AddInput(ctx context.Context, input *models.AnalysisInput) error
	GetInputs(ctx context.Context, analysisID uuid.UUID) ([]*models.AnalysisInput, error)
}
