package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/fusion.report/internal/db"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	d, err := db.NewDB(filepath.Join(t.TempDir(), "fusion.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	runID := uuid.NewString()
	require.NoError(t, d.InsertRun(db.Run{
		ID:         runID,
		SourceFile: "sensors.txt",
		StartedAt:  time.Now().UTC(),
		RMSEX:      0.1,
	}))
	require.NoError(t, d.InsertEstimates([]db.Estimate{
		{RunID: runID, Seq: 0, Sensor: "lidar", PX: 0.6, PY: 0.6, MeasuredX: 0.63, MeasuredY: 0.58, TruthX: 0.6, TruthY: 0.6},
		{RunID: runID, Seq: 1, Sensor: "radar", PX: 0.86, PY: 0.61, MeasuredX: 0.87, MeasuredY: 0.6, TruthX: 0.86, TruthY: 0.6},
	}))

	return NewServer(d), runID
}

func TestListRuns(t *testing.T) {
	srv, runID := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []db.Run
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "sensors.txt", runs[0].SourceFile)
}

func TestGetRun(t *testing.T) {
	srv, runID := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+runID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var run db.Run
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&run))
	assert.Equal(t, runID, run.ID)
}

func TestGetRunNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunEstimates(t *testing.T) {
	srv, runID := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+runID+"/estimates", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var estimates []db.Estimate
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&estimates))
	require.Len(t, estimates, 2)
	assert.Equal(t, "radar", estimates[1].Sensor)
}

func TestChart(t *testing.T) {
	srv, runID := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart/"+runID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.True(t, strings.Contains(rec.Body.String(), "ground truth"))
}
