package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/frontier.explorer/internal/db"
	"github.com/banshee-data/frontier.explorer/internal/monitoring"
)

func TestFlagDefaults(t *testing.T) {
	assert.Equal(t, ":8080", *listen)
	assert.Equal(t, "", *configPath)
	assert.Equal(t, "frontier.db", *dbPath)
	assert.False(t, *showVersion)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.GetMaxSteps())

	cfg, err = loadConfig("../../config/explorer.defaults.json")
	require.NoError(t, err)
	assert.Equal(t, 1<<20, cfg.GetMaxGridCells())

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"max_steps": 0}`), 0o644))
	_, err = loadConfig(bad)
	assert.ErrorContains(t, err, "max_steps")
}

func TestNewHandler(t *testing.T) {
	monitoring.SetLogger(nil)

	database, err := db.NewDB(filepath.Join(t.TempDir(), "frontier.db"))
	require.NoError(t, err)
	defer database.Close()

	cfg, err := loadConfig("")
	require.NoError(t, err)
	h, err := newHandler(cfg, database)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/debug/db-stats", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	noDB, err := newHandler(cfg, nil)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	noDB.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
