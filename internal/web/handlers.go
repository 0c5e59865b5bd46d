package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/sensorystats/internal/domain"
	"github.com/emiliopalmerini/sensorystats/internal/query"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		s.writeError(w, err)
		return
	}

	list, err := s.sessions.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err != nil {
		s.writeError(w, err)
		return
	}

	list, err := s.sessions.Recent(r.Context(), days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if session == nil {
		s.writeError(w, &query.SessionNotFoundError{ID: id})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, &domain.ValidationError{Reason: fmt.Sprintf("unreadable body: %v", err)})
		return
	}

	req, err := domain.ParseCreateSessionRequest(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.sessions.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.sessions.Remove(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !removed {
		s.writeError(w, &query.SessionNotFoundError{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.InsightNames)
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	result, err := s.surface.Insight(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.sessions.ExportAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="baby-sensory-export.json"`)
	_, _ = io.WriteString(w, export)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps caller mistakes to 4xx and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		notFound   *query.SessionNotFoundError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, query.ErrUnknownInsight):
		status = http.StatusNotFound
	default:
		s.logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
