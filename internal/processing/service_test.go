package processing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/output"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalysisRepository implements repository.AnalysisRepository for testing
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Analysis)
	return a, args.Error(1)
}

func (m *MockAnalysisRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockAnalysisRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockAnalysisRepository) ClaimForProcessing(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnalysisRepository) AddInput(ctx context.Context, input *models.AnalysisInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockAnalysisRepository) GetInputs(ctx context.Context, analysisID uuid.UUID) ([]*models.AnalysisInput, error) {
	args := m.Called(ctx, analysisID)
	inputs, _ := args.Get(0).([]*models.AnalysisInput)
	return inputs, args.Error(1)
}

func (m *MockAnalysisRepository) StoreResults(ctx context.Context, results *models.AnalysisResults) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockAnalysisRepository) GetResults(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResults, error) {
	args := m.Called(ctx, analysisID)
	r, _ := args.Get(0).(*models.AnalysisResults)
	return r, args.Error(1)
}

// MockObjectStore implements storage.ObjectStore for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockObjectStore) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStore) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// niriss renders a ppm spectrum over 1.00-2.00 um with raised depth at the given indices.
func niriss(bumps ...int) []byte {
	var b strings.Builder
	b.WriteString("# wavelength wavelength_err depth_ppm depth_err_ppm\n")
	for i := 0; i <= 100; i++ {
		depth := 20000.0
		for _, j := range bumps {
			if i == j {
				depth = 24000
			}
		}
		fmt.Fprintf(&b, "%.3f 0.005 %.1f 120.0\n", 1.0+0.01*float64(i), depth)
	}
	return []byte(b.String())
}

// model renders an error-free model spectrum extending past the reference range.
func model() []byte {
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "%.3f %.6f\n", 2.0+0.025*float64(i), 0.0205)
	}
	return []byte(b.String())
}

func catalogRow(mol, iso string, wl, strength float64) string {
	return fmt.Sprintf("%2s%1s%12.6f%10.3E", mol, iso, 1e4/wl, strength)
}

func catalog() []byte {
	return []byte(strings.Join([]string{
		catalogRow(" 1", "1", 1.402, 1e-19),
		catalogRow(" 1", "1", 1.90, 2e-19),
		catalogRow(" 2", "1", 2.30, 3e-19),
		catalogRow(" 5", "1", 4.60, 3e-19),
	}, "\n"))
}

func testAnalysis(id uuid.UUID) *models.Analysis {
	return &models.Analysis{
		ID:        id.String(),
		Name:      "WASP-39b",
		Status:    models.StatusPending,
		TopN:      30,
		BinWidth:  0.02,
		Molecules: []models.Molecule{{Name: "H2O", ID: 1}, {Name: "CO2", ID: 2}, {Name: "CO", ID: 5}},
		CreatedAt: time.Now(),
	}
}

func testInputs(id uuid.UUID) []*models.AnalysisInput {
	return []*models.AnalysisInput{
		{ID: "m", AnalysisID: id.String(), Kind: models.InputSpectrum, Layout: "model", Precedence: 3, S3Key: "model.txt"},
		{ID: "n", AnalysisID: id.String(), Kind: models.InputSpectrum, Layout: "niriss", Reference: true, S3Key: "niriss.txt"},
		{ID: "c", AnalysisID: id.String(), Kind: models.InputCatalog, S3Key: "lines.par"},
	}
}

func TestProcessAnalysis_Success(t *testing.T) {
	id := uuid.New()
	repo := new(MockAnalysisRepository)
	store := new(MockObjectStore)

	repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.AnythingOfType("int")).Return(nil)
	repo.On("UpdateStatus", mock.Anything, id, models.StatusCompleted, 100).Return(nil).Once()
	repo.On("GetByID", mock.Anything, id).Return(testAnalysis(id), nil)
	repo.On("GetInputs", mock.Anything, id).Return(testInputs(id), nil)

	store.On("DownloadFile", mock.Anything, "niriss.txt").Return(niriss(40, 90), nil)
	store.On("DownloadFile", mock.Anything, "model.txt").Return(model(), nil)
	store.On("DownloadFile", mock.Anything, "lines.par").Return(catalog(), nil)
	store.On("UploadFile", mock.Anything, mock.AnythingOfType("string"), "text/tab-separated-values", mock.Anything).Return(nil).Times(3)

	var stored *models.AnalysisResults
	repo.On("StoreResults", mock.Anything, mock.AnythingOfType("*models.AnalysisResults")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.AnalysisResults) }).
		Return(nil)

	svc := NewProcessingService(store, repo, Options{Workers: 2, ReferenceLayout: "ppm"})
	require.NoError(t, svc.ProcessAnalysis(context.Background(), id))

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateError", mock.Anything, mock.Anything, mock.Anything)

	require.NotNil(t, stored)
	assert.Equal(t, 121, stored.Combined.Len(), "reference plus model points beyond 2.0 um")
	assert.InDelta(t, 0.020, stored.Combined.Points[0].Depth, 1e-12, "ppm depths are converted to fractions")

	require.Len(t, stored.Scores, 2)
	assert.Equal(t, "H2O", stored.Scores[0].Molecule)
	assert.Equal(t, "CO2", stored.Scores[1].Molecule)
	assert.NotEmpty(t, stored.Scores[0].CCF)

	assert.Len(t, stored.Artifacts, 3)
	assert.Equal(t, "analyses/"+id.String()+"/results/"+output.PeaksFile, stored.Artifacts[output.PeaksFile])
}

func TestProcessAnalysis_Failures(t *testing.T) {
	tests := []struct {
		name    string
		inputs  func(uuid.UUID) []*models.AnalysisInput
		setup   func(*MockObjectStore)
		wantErr error
		wantMsg string
	}{
		{
			name: "no catalog",
			inputs: func(id uuid.UUID) []*models.AnalysisInput {
				return testInputs(id)[:2]
			},
			setup:   func(*MockObjectStore) {},
			wantErr: ErrNoCatalog,
		},
		{
			name: "no spectra",
			inputs: func(id uuid.UUID) []*models.AnalysisInput {
				return testInputs(id)[2:]
			},
			setup:   func(*MockObjectStore) {},
			wantErr: ErrNoSpectra,
		},
		{
			name:   "download fails",
			inputs: testInputs,
			setup: func(s *MockObjectStore) {
				s.On("DownloadFile", mock.Anything, "niriss.txt").Return(nil, errors.New("connection reset"))
			},
			wantMsg: "connection reset",
		},
		{
			name:   "malformed spectrum",
			inputs: testInputs,
			setup: func(s *MockObjectStore) {
				s.On("DownloadFile", mock.Anything, "niriss.txt").Return([]byte("1.0 0.01 abc 10\n"), nil)
			},
			wantMsg: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			repo := new(MockAnalysisRepository)
			store := new(MockObjectStore)

			repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.AnythingOfType("int")).Return(nil)
			repo.On("GetByID", mock.Anything, id).Return(testAnalysis(id), nil)
			repo.On("GetInputs", mock.Anything, id).Return(tt.inputs(id), nil)
			repo.On("UpdateError", mock.Anything, id, mock.AnythingOfType("string")).Return(nil).Once()
			tt.setup(store)

			err := NewProcessingService(store, repo, Options{}).ProcessAnalysis(context.Background(), id)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			repo.AssertExpectations(t)
			repo.AssertNotCalled(t, "StoreResults", mock.Anything, mock.Anything)
		})
	}
}

func TestProcessAnalysis_MissingAnalysis(t *testing.T) {
	id := uuid.New()
	repo := new(MockAnalysisRepository)
	repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, 10).Return(errors.New("not found"))

	err := NewProcessingService(new(MockObjectStore), repo, Options{}).ProcessAnalysis(context.Background(), id)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateError", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderSpectra(t *testing.T) {
	in := func(id, layout string, prec int, ref bool) *models.AnalysisInput {
		return &models.AnalysisInput{ID: id, Kind: models.InputSpectrum, Layout: layout, Precedence: prec, Reference: ref}
	}
	ids := func(inputs []*models.AnalysisInput) []string {
		var out []string
		for _, i := range inputs {
			out = append(out, i.ID)
		}
		return out
	}

	t.Run("flagged reference first, rest by precedence", func(t *testing.T) {
		got, err := orderSpectra([]*models.AnalysisInput{
			in("model", "noerr", 3, false),
			in("prism", "deptherr", 2, false),
			in("niriss", "ppm", 0, true),
			in("archival", "full", 1, false),
		}, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"niriss", "archival", "prism", "model"}, ids(got))
	})

	t.Run("reference layout fallback", func(t *testing.T) {
		got, err := orderSpectra([]*models.AnalysisInput{
			in("archival", "archival", 0, false),
			in("niriss", "niriss", 1, false),
		}, "ppm")
		require.NoError(t, err)
		assert.Equal(t, []string{"niriss", "archival"}, ids(got))
	})

	t.Run("lowest precedence when nothing matches", func(t *testing.T) {
		got, err := orderSpectra([]*models.AnalysisInput{
			in("b", "noerr", 5, false),
			in("a", "noerr", 1, false),
		}, "ppm")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids(got))
	})

	t.Run("two flagged references", func(t *testing.T) {
		_, err := orderSpectra([]*models.AnalysisInput{
			in("a", "ppm", 0, true),
			in("b", "ppm", 1, true),
		}, "")
		assert.ErrorIs(t, err, ErrMultipleReferences)
	})
}
