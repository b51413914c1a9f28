package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wordgraph/backend/internal/api"
	"wordgraph/backend/internal/app"
	"wordgraph/backend/internal/snapshot"
	"wordgraph/backend/pkg/config"
)

func TestLimitsFromConfig(t *testing.T) {
	cfg := &config.Config{
		DefaultPathDepth: 15,
		MaxPathDepth:     20,
		MaxPaths:         50,
		QueryTimeout:     3 * time.Second,
	}
	assert.Equal(t, api.Limits{
		DefaultPathDepth: 15,
		MaxPathDepth:     20,
		MaxPaths:         50,
		QueryTimeout:     3 * time.Second,
	}, limitsFromConfig(cfg))
}

func TestRebuildThenQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	cfg := &config.Config{
		DatamartPath:     filepath.Join(dir, "datamart"),
		SnapshotBackend:  config.SnapshotBackendFile,
		SnapshotPath:     filepath.Join(dir, "graph.json"),
		BuildStrategy:    "bucketed",
		DefaultPathDepth: 15,
		MaxPathDepth:     20,
		MaxPaths:         100,
		QueryTimeout:     5 * time.Second,
	}
	log := zap.NewNop()

	datamart, err := app.OpenDatamart(cfg, log)
	require.NoError(t, err)
	defer datamart.Close()
	_, err = datamart.Merge(t.Context(), map[int][]string{3: {"dog", "dot", "cot"}})
	require.NoError(t, err)

	store, closeStore, err := app.OpenSnapshotStore(t.Context(), cfg, log)
	require.NoError(t, err)
	defer closeStore()

	builder, err := app.NewBuilder(cfg, log)
	require.NoError(t, err)

	holder := app.NewHolder(cfg)
	rebuilder := snapshot.NewRebuilder(datamart, store, holder, builder, log)
	router := api.NewServer(holder, rebuilder, limitsFromConfig(cfg), log).Router()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/info", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/admin/rebuild", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/shortest-path?word1=dog&word2=cot", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []interface{}{"dog", "dot", "cot"}, response["path"])

	// a fresh holder restores the persisted snapshot
	restored, err := snapshot.Restore(t.Context(), store, snapshot.NewHolder())
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Graph.EdgeCount())
}
