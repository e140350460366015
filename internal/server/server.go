// Package server exposes the aggregation engine as a read-only JSON API. The
// match table is loaded once and shared by every request; each request builds
// its own filtered and derived values.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
)

// Server serves dashboards for a fixed table snapshot.
type Server struct {
	table  *model.Table
	opts   aggregator.DashboardOptions
	log    logrus.FieldLogger
	router *mux.Router
}

// New builds a Server over table. table must not be modified afterwards.
func New(table *model.Table, opts aggregator.DashboardOptions, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{table: table, opts: opts, log: log, router: mux.NewRouter()}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/competitions", s.handleCompetitions).Methods(http.MethodGet)
	api.HandleFunc("/competitions/{competition}/stages", s.handleStages).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	s.router.Use(s.logRequests)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start).String(),
		}).Debug("request")
	})
}

func (s *Server) handleCompetitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"competitions": aggregator.Competitions(s.table)})
}

func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
	comp := mux.Vars(r)["competition"]
	found := false
	for _, c := range aggregator.Competitions(s.table) {
		if c == comp {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "unknown competition")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"competition": comp,
		"stages":      aggregator.Stages(s.table, comp),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := model.FilterCriteria{Competition: q.Get("competition"), Stage: q.Get("stage")}

	opts := s.opts
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		opts.TopTeams = n
	}

	rep, err := aggregator.Dashboard(s.table, criteria, opts)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rep)
	case errors.Is(err, model.ErrInvalidCriteria):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrEmptyResult):
		writeError(w, http.StatusNotFound, model.ErrEmptyResult.Error())
	case errors.Is(err, model.ErrDatasetUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.WithError(err).Error("dashboard failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
