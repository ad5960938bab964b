package db

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopbackRequest sets RemoteAddr to loopback so tsweb.AllowDebugAccess
// admits the request.
func loopbackRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "127.0.0.1:12345"
	return req
}

func TestAttachAdminRoutes(t *testing.T) {
	db := newTestDB(t)
	_, err := db.RecordTargetQuery(TargetQuery{Revision: 1, CreatedAt: time.Unix(1, 0)})
	require.NoError(t, err)

	mux := http.NewServeMux()
	require.NoError(t, db.AttachAdminRoutes(mux))

	t.Run("db-stats", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, loopbackRequest(http.MethodGet, "/debug/db-stats"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stats DatabaseStats
		require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
		assert.Equal(t, uint(2), stats.SchemaVersion)
		assert.Equal(t, []TableStats{
			{Name: "target_queries", Rows: 1},
			{Name: "exploration_runs", Rows: 0},
		}, stats.Tables)
	})

	t.Run("backup", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, loopbackRequest(http.MethodGet, "/debug/backup"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "backup-")

		gz, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		data, err := io.ReadAll(gz)
		require.NoError(t, err)
		assert.True(t, len(data) > 16 && string(data[:15]) == "SQLite format 3")
	})

	t.Run("tailsql", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, loopbackRequest(http.MethodGet, "/debug/tailsql/"))
		assert.NotEqual(t, http.StatusNotFound, w.Code)
	})

	t.Run("remote denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/debug/db-stats", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
