package processing

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/repository/postgres"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/storage"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContainer holds test infrastructure
type TestContainer struct {
	postgresContainer testcontainers.Container
	minioContainer    testcontainers.Container
	dbURL             string
	minioURL          string
	bucketName        string
}

// SetupIntegrationTest sets up PostgreSQL and MinIO containers for integration testing
func SetupIntegrationTest(t *testing.T) *TestContainer {
	t.Helper()
	ctx := context.Background()

	pg, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("exomaft_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		pgContainer.WithInitScripts(filepath.Join("..", "..", "migrations", "0001_init.up.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	minioContainer, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)

	minioURL, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	return &TestContainer{
		postgresContainer: pg,
		minioContainer:    minioContainer,
		dbURL:             dbURL,
		minioURL:          minioURL,
		bucketName:        "exomaft-test-" + uuid.New().String()[:8],
	}
}

// CleanupIntegrationTest cleans up test containers
func (tc *TestContainer) CleanupIntegrationTest(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tc.minioContainer != nil {
		require.NoError(t, tc.minioContainer.Terminate(ctx))
	}
	if tc.postgresContainer != nil {
		require.NoError(t, tc.postgresContainer.Terminate(ctx))
	}
}

// TestFullAnalysisPipeline_Integration runs the pipeline against real PostgreSQL and MinIO
func TestFullAnalysisPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)
	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresAnalysisRepository(db)

	store, err := storage.NewMinioStore(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(ctx))

	id := uuid.New()
	analysis := testAnalysis(id)
	analysis.UpdatedAt = analysis.CreatedAt
	require.NoError(t, repo.Create(ctx, analysis))

	files := map[string][]byte{"niriss.txt": niriss(40, 90), "model.txt": model(), "lines.par": catalog()}
	for _, in := range testInputs(id) {
		in.ID = uuid.New().String()
		in.S3Key = storage.InputKey(analysis.ID, in.ID, in.Kind)
		in.CreatedAt = time.Now()
		require.NoError(t, store.UploadFile(ctx, in.S3Key, storage.ContentTypeText, files[fileFor(in)]))
		require.NoError(t, repo.AddInput(ctx, in))
	}

	svc := NewProcessingService(store, repo, Options{Workers: 2, ReferenceLayout: "ppm"})
	require.NoError(t, svc.ProcessAnalysis(ctx, id))

	final, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, final.Status)
	assert.Equal(t, 100, final.Progress)
	assert.NotNil(t, final.CompletedAt)

	results, err := repo.GetResults(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 121, results.Combined.Len())
	require.Len(t, results.Scores, 2)
	assert.Equal(t, "H2O", results.Scores[0].Molecule)

	for name, key := range results.Artifacts {
		data, err := store.DownloadFile(ctx, key)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

// TestAnalysisPipelineFailure_Integration checks that a missing upload marks the analysis failed
func TestAnalysisPipelineFailure_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)
	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresAnalysisRepository(db)

	store, err := storage.NewMinioStore(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(ctx))

	id := uuid.New()
	require.NoError(t, repo.Create(ctx, testAnalysis(id)))
	for _, in := range testInputs(id) {
		in.ID = uuid.New().String()
		in.S3Key = "never-uploaded/" + in.ID
		in.CreatedAt = time.Now()
		require.NoError(t, repo.AddInput(ctx, in))
	}

	err = NewProcessingService(store, repo, Options{}).ProcessAnalysis(ctx, id)
	require.Error(t, err)

	final, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, final.Status)
	require.NotNil(t, final.ErrorMsg)
}

func fileFor(in *models.AnalysisInput) string {
	switch {
	case in.Kind == models.InputCatalog:
		return "lines.par"
	case in.Reference:
		return "niriss.txt"
	default:
		return "model.txt"
	}
}
