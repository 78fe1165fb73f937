package models

import (
	"time"
)

// Input kinds accepted by an analysis.
const (
	InputSpectrum = "spectrum"
	InputCatalog  = "catalog"
)

// Analysis statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis represents the core analysis entity (for internal use)
type Analysis struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	TopN        int        `json:"top_n"`
	BinWidth    float64    `json:"bin_width"`
	Molecules   []Molecule `json:"molecules"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AnalysisInput is one uploaded file attached to an analysis.
// Spectrum inputs are merged in ascending Precedence; the one flagged Reference sets the baseline.
type AnalysisInput struct {
	ID         string    `json:"id" doc:"Input unique identifier"`
	AnalysisID string    `json:"analysis_id" doc:"Owning analysis ID"`
	Kind       string    `json:"kind" enum:"spectrum,catalog" doc:"Input kind"`
	Layout     string    `json:"layout,omitempty" doc:"Spectrum table layout name"`
	Reference  bool      `json:"reference" doc:"Whether this spectrum is the baseline reference"`
	Precedence int       `json:"precedence" doc:"Merge precedence, lower wins duplicate wavelengths"`
	S3Key      string    `json:"s3_key" doc:"Object key of the uploaded file"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnalysisResults represents the stored analysis results
type AnalysisResults struct {
	ID         string            `json:"id"`
	AnalysisID string            `json:"analysis_id"`
	Combined   CombinedSpectrum  `json:"combined"`
	Features   []FeatureCluster  `json:"features"`
	Scores     []MoleculeScore   `json:"scores"`
	Artifacts  map[string]string `json:"artifacts,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
