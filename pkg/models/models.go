package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateAnalysisRequestBody is the body of a create analysis request
type CreateAnalysisRequestBody struct {
	Name      string   `json:"name" minLength:"1" maxLength:"100" required:"true" doc:"Analysis label, e.g. target planet"`
	TopN      int      `json:"top_n,omitempty" minimum:"0" maximum:"10000" doc:"Strongest lines per molecule (0 uses the server default)"`
	BinWidth  float64  `json:"bin_width,omitempty" minimum:"0" doc:"Cluster bin width in microns (0 uses the server default)"`
	Molecules []string `json:"molecules,omitempty" doc:"Molecules to track, as NAME or NAME:ID"`
}

// CreateAnalysisRequest represents a request to create a new analysis
type CreateAnalysisRequest struct {
	Body CreateAnalysisRequestBody
}

// CreateAnalysisResponseBody is the body of the create analysis response
type CreateAnalysisResponseBody struct {
	ID        string     `json:"id" doc:"Analysis unique identifier"`
	Status    string     `json:"status" doc:"Initial analysis status"`
	TopN      int        `json:"top_n" doc:"Effective strongest-line count"`
	BinWidth  float64    `json:"bin_width" doc:"Effective bin width in microns"`
	Molecules []Molecule `json:"molecules" doc:"Molecules that will be tracked"`
}

// CreateAnalysisResponse represents the response from creating an analysis
type CreateAnalysisResponse struct {
	Body CreateAnalysisResponseBody
}

// AddInputRequestBody is the body of an add input request
type AddInputRequestBody struct {
	Kind       string `json:"kind" enum:"spectrum,catalog" required:"true" doc:"Input kind"`
	Layout     string `json:"layout,omitempty" doc:"Spectrum layout: ppm, noerr, full or deptherr"`
	Reference  bool   `json:"reference,omitempty" doc:"Use this spectrum as the baseline reference"`
	Precedence int    `json:"precedence,omitempty" minimum:"0" doc:"Merge precedence, lower wins"`
	FileSize   int64  `json:"file_size" minimum:"1" maximum:"524288000" required:"true" doc:"File size in bytes"`
	MimeType   string `json:"mime_type" enum:"text/plain,text/tab-separated-values,application/octet-stream" required:"true" doc:"File MIME type"`
}

// AddInputRequest represents a request to attach an input file to an analysis
type AddInputRequest struct {
	ID   string `path:"id" doc:"Analysis ID"`
	Body AddInputRequestBody
}

// AddInputResponseBody is the body of the add input response
type AddInputResponseBody struct {
	InputID   string `json:"input_id" doc:"Input unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed URL for file upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// AddInputResponse represents the response from attaching an input
type AddInputResponse struct {
	Body AddInputResponseBody
}

// GetAnalysisStatusRequest represents a request to get analysis status
type GetAnalysisStatusRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// GetAnalysisStatusResponseBody is the body of the status response
type GetAnalysisStatusResponseBody struct {
	ID        string  `json:"id" doc:"Analysis ID"`
	Status    string  `json:"status" enum:"pending,processing,completed,failed" doc:"Analysis status"`
	Progress  int     `json:"progress" minimum:"0" maximum:"100" doc:"Analysis progress percentage"`
	Message   string  `json:"message,omitempty" doc:"Human-readable status message"`
	Error     *string `json:"error,omitempty" doc:"Failure reason when status is failed"`
	ResultsID *string `json:"results_id,omitempty" doc:"Results ID when analysis completes"`
}

// GetAnalysisStatusResponse represents the current status of an analysis
type GetAnalysisStatusResponse struct {
	Body GetAnalysisStatusResponseBody
}

// GetAnalysisResultsRequest represents a request to get analysis results
type GetAnalysisResultsRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// GetAnalysisResultsResponseBody is the body of the results response
type GetAnalysisResultsResponseBody struct {
	ID        string            `json:"id" doc:"Results ID"`
	Combined  CombinedSpectrum  `json:"combined" doc:"Merged spectrum"`
	Features  []FeatureCluster  `json:"features" doc:"Feature cluster centers per molecule"`
	Scores    []MoleculeScore   `json:"scores" doc:"Uncalibrated cross-correlation peaks per molecule"`
	Downloads map[string]string `json:"downloads,omitempty" doc:"Pre-signed URLs for the TSV artifacts"`
	CreatedAt time.Time         `json:"created_at" doc:"Results creation timestamp"`
}

// GetAnalysisResultsResponse represents the complete analysis results
type GetAnalysisResultsResponse struct {
	Body GetAnalysisResultsResponseBody
}

// StartProcessingRequest represents a request to start processing an analysis
type StartProcessingRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}
