package api

import (
	"net/http"
	"testing"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/api/handlers"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	RegisterRoutes(api, nil, nil, nil, nil, handlers.Defaults{TopN: 30, BinWidth: 0.02, Molecules: []string{"H2O"}})

	t.Run("health", func(t *testing.T) {
		resp := api.Get("/health")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"status":"healthy"`)
	})

	t.Run("invalid analysis id", func(t *testing.T) {
		resp := api.Get("/api/analyses/not-a-uuid/status")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("create requires a name", func(t *testing.T) {
		resp := api.Post("/api/analyses", map[string]any{"top_n": 5})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("input kind is validated", func(t *testing.T) {
		resp := api.Post("/api/analyses/00000000-0000-0000-0000-000000000000/inputs", map[string]any{
			"kind":      "image",
			"file_size": 10,
			"mime_type": "text/plain",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}
