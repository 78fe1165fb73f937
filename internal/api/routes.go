package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/api/handlers"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/processing"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/repository"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/storage"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/danielgtaylor/huma/v2"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, db *sql.DB, store storage.ObjectStore, analysisRepo repository.AnalysisRepository, processingSvc processing.ProcessingService, defaults handlers.Defaults) {
	analysisHandler := handlers.NewAnalysisHandler(analysisRepo, store, processingSvc, defaults)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				resp.Body.Status = "degraded"
			}
		}
		resp.Body.Version = Version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "createAnalysis",
		Method:      http.MethodPost,
		Path:        "/api/analyses",
		Summary:     "Create a new analysis",
		Description: "Creates an analysis with its molecule list and clustering settings",
		Tags:        []string{"Analysis"},
	}, analysisHandler.CreateAnalysis)

	huma.Register(api, huma.Operation{
		OperationID: "addInput",
		Method:      http.MethodPost,
		Path:        "/api/analyses/{id}/inputs",
		Summary:     "Attach an input file",
		Description: "Registers a spectrum or line catalog and returns a pre-signed upload URL",
		Tags:        []string{"Analysis"},
	}, analysisHandler.AddInput)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/analyses/{id}/process",
		Summary:     "Start processing analysis",
		Description: "Combines the uploaded spectra and scores every molecule in the background",
		Tags:        []string{"Analysis"},
	}, analysisHandler.StartProcessing)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalysisStatus",
		Method:      http.MethodGet,
		Path:        "/api/analyses/{id}/status",
		Summary:     "Get analysis status",
		Description: "Returns the current status and progress of an analysis",
		Tags:        []string{"Analysis"},
	}, analysisHandler.GetAnalysisStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalysisResults",
		Method:      http.MethodGet,
		Path:        "/api/analyses/{id}/results",
		Summary:     "Get analysis results",
		Description: "Returns the combined spectrum, feature clusters and cross-correlation peaks",
		Tags:        []string{"Analysis"},
	}, analysisHandler.GetAnalysisResults)
}
