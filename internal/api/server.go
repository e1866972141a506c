// Package api exposes recorded fusion runs over HTTP: JSON listings of runs
// and their estimates, plus an interactive trajectory chart per run.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/banshee-data/fusion.report/internal/db"
	"github.com/banshee-data/fusion.report/internal/report"
)

// Server serves the run store. It is an http.Handler.
type Server struct {
	db  *db.DB
	mux *http.ServeMux
}

// NewServer builds the HTTP surface over the given run store.
func NewServer(d *db.DB) *Server {
	s := &Server{db: d, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /api/runs", s.handleListRuns)
	s.mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	s.mux.HandleFunc("GET /api/runs/{id}/estimates", s.handleRunEstimates)
	s.mux.HandleFunc("GET /chart/{id}", s.handleChart)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.db.ListRuns()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.writeJSON(w, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.db.GetRun(r.PathValue("id"))
	if errors.Is(err, db.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, run)
}

func (s *Server) handleRunEstimates(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if _, err := s.db.GetRun(runID); err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			s.writeError(w, http.StatusNotFound, err)
		} else {
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	estimates, err := s.db.RunEstimates(runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if estimates == nil {
		estimates = []db.Estimate{}
	}
	s.writeJSON(w, estimates)
}

// handleChart renders the run's trajectories as an echarts HTML page.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	run, err := s.db.GetRun(runID)
	if errors.Is(err, db.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	estimates, err := s.db.RunEstimates(runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	title := fmt.Sprintf("fusion run %s (%s)", run.ID, run.SourceFile)
	if err := report.WriteTrajectoryHTML(w, title, estimates); err != nil {
		log.Printf("rendering chart for run %s: %v", runID, err)
	}
}
