package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"schemasync/internal/api/middleware"
	"schemasync/internal/introspect"
	"schemasync/internal/migration"
	"schemasync/internal/parser"
)

type meta struct {
	Timestamp string `json:"timestamp"`
}

type envelope struct {
	Data any  `json:"data"`
	Meta meta `json:"meta"`
}

// writeJSON wraps data in the response envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Data: data,
		Meta: meta{Timestamp: time.Now().Format(time.RFC3339)},
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// fail maps an inspector error to a status code. Input the user can fix,
// such as a broken migration or an unknown driver, is 422.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		parseErr  *migration.MigrationParseError
		driverErr *introspect.UnsupportedDriverError
		formatErr *parser.UnsupportedFormatError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &driverErr), errors.As(err, &formatErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("inspection failed",
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// GET /api/tables
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.inspector.Tables(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tables": nonNil(tables),
		"count":  len(tables),
	})
}

// GET /api/tables/{table}
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	t, err := s.inspector.Table(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Table '%s' not found.", name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"table": t})
}

// GET /api/diff
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	d, err := s.inspector.Compare(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"diff":           d,
		"summary":        d.Summary(),
		"hasDifferences": d.HasDifferences,
	})
}

// GET /api/diff/{table}
func (s *Server) handleTableDiff(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	td, err := s.inspector.TableDiff(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if td == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Table '%s' not found in diff.", name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table":  name,
		"diff":   td,
		"status": td.Status,
	})
}

// GET /api/migrations
func (s *Server) handleMigrations(w http.ResponseWriter, r *http.Request) {
	files, dir, err := s.inspector.MigrationFiles()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"migrations": nonNil(files),
		"count":      len(files),
		"path":       dir,
	})
}

// GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	d, err := s.inspector.Compare(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"synced":         !d.HasDifferences,
		"summary":        d.Summary(),
		"addedTables":    len(d.AddedTables()),
		"removedTables":  len(d.RemovedTables()),
		"modifiedTables": len(d.ModifiedTables()),
	})
}

// POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	d, err := s.inspector.Compare(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"refreshed":      true,
		"hasDifferences": d.HasDifferences,
		"summary":        d.Summary(),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
