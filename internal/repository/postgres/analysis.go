package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/repository"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// foreign_key_violation
const pqForeignKeyViolation = "23503"

// PostgresAnalysisRepository implements AnalysisRepository for PostgreSQL
type PostgresAnalysisRepository struct {
	db *sql.DB
}

// NewPostgresAnalysisRepository creates a new PostgreSQL analysis repository
func NewPostgresAnalysisRepository(db *sql.DB) repository.AnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// Create inserts a new analysis record
func (r *PostgresAnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	molecules, err := json.Marshal(analysis.Molecules)
	if err != nil {
		return fmt.Errorf("failed to marshal molecules: %w", err)
	}

	query := `
		INSERT INTO analyses (id, name, status, progress, top_n, bin_width, molecules, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.Name,
		analysis.Status,
		analysis.Progress,
		analysis.TopN,
		analysis.BinWidth,
		string(molecules),
		analysis.CreatedAt,
		analysis.UpdatedAt)

	return err
}

// GetByID retrieves an analysis by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	query := `
		SELECT id, name, status, progress, top_n, bin_width, molecules, error_message, created_at, updated_at, completed_at
		FROM analyses
		WHERE id = $1`

	var analysis models.Analysis
	var molecules []byte
	var errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&analysis.ID,
		&analysis.Name,
		&analysis.Status,
		&analysis.Progress,
		&analysis.TopN,
		&analysis.BinWidth,
		&molecules,
		&errorMsg,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
		&completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(molecules, &analysis.Molecules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal molecules: %w", err)
	}
	if errorMsg.Valid {
		analysis.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}

	return &analysis, nil
}

// UpdateStatus updates the status and progress of an analysis
func (r *PostgresAnalysisRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE analyses
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    error_message = CASE WHEN $1 = 'completed' THEN NULL ELSE error_message END
		WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, status, progress, id)
	if err != nil {
		return err
	}
	return expectRow(res, id)
}

// UpdateError marks an analysis failed with a reason
func (r *PostgresAnalysisRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE analyses
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, errorMsg, id)
	if err != nil {
		return err
	}
	return expectRow(res, id)
}

// ClaimForProcessing atomically moves a pending or failed analysis to processing
func (r *PostgresAnalysisRepository) ClaimForProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE analyses
		SET status = 'processing', progress = 0, error_message = NULL, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'failed')`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM analyses WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("analysis %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("analysis %s is %s: %w", id, status, repository.ErrConflict)
}

// AddInput records an uploaded file for an analysis
func (r *PostgresAnalysisRepository) AddInput(ctx context.Context, input *models.AnalysisInput) error {
	query := `
		INSERT INTO analysis_inputs (id, analysis_id, kind, layout, reference, precedence, s3_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		input.ID,
		input.AnalysisID,
		input.Kind,
		input.Layout,
		input.Reference,
		input.Precedence,
		input.S3Key,
		input.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return fmt.Errorf("analysis %s: %w", input.AnalysisID, repository.ErrNotFound)
	}
	return err
}

// GetInputs lists the inputs of an analysis in upload order
func (r *PostgresAnalysisRepository) GetInputs(ctx context.Context, analysisID uuid.UUID) ([]*models.AnalysisInput, error) {
	query := `
		SELECT id, analysis_id, kind, layout, reference, precedence, s3_key, created_at
		FROM analysis_inputs
		WHERE analysis_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inputs []*models.AnalysisInput
	for rows.Next() {
		var input models.AnalysisInput
		if err := rows.Scan(
			&input.ID,
			&input.AnalysisID,
			&input.Kind,
			&input.Layout,
			&input.Reference,
			&input.Precedence,
			&input.S3Key,
			&input.CreatedAt); err != nil {
			return nil, err
		}
		inputs = append(inputs, &input)
	}

	return inputs, rows.Err()
}

// StoreResults stores analysis results, replacing those of an earlier run
func (r *PostgresAnalysisRepository) StoreResults(ctx context.Context, results *models.AnalysisResults) error {
	combined, err := json.Marshal(results.Combined)
	if err != nil {
		return fmt.Errorf("failed to marshal combined spectrum: %w", err)
	}
	features, err := json.Marshal(results.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	scores, err := json.Marshal(results.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	artifacts, err := json.Marshal(results.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to marshal artifacts: %w", err)
	}

	query := `
		INSERT INTO analysis_results (id, analysis_id, combined, features, scores, artifacts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (analysis_id) DO UPDATE
		SET id = EXCLUDED.id,
		    combined = EXCLUDED.combined,
		    features = EXCLUDED.features,
		    scores = EXCLUDED.scores,
		    artifacts = EXCLUDED.artifacts,
		    created_at = EXCLUDED.created_at`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.AnalysisID,
		string(combined),
		string(features),
		string(scores),
		string(artifacts),
		results.CreatedAt)

	return err
}

// GetResults retrieves analysis results
func (r *PostgresAnalysisRepository) GetResults(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResults, error) {
	query := `
		SELECT id, analysis_id, combined, features, scores, artifacts, created_at
		FROM analysis_results
		WHERE analysis_id = $1`

	var results models.AnalysisResults
	var combined, features, scores, artifacts []byte

	err := r.db.QueryRowContext(ctx, query, analysisID).Scan(
		&results.ID,
		&results.AnalysisID,
		&combined,
		&features,
		&scores,
		&artifacts,
		&results.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("results for %s: %w", analysisID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"combined spectrum", combined, &results.Combined},
		{"features", features, &results.Features},
		{"scores", scores, &results.Scores},
		{"artifacts", artifacts, &results.Artifacts},
	} {
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", col.name, err)
		}
	}

	return &results, nil
}

func expectRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("analysis %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
