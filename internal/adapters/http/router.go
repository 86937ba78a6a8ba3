// Package http exposes the project, export and suggestion operations
// as a JSON API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/atvirokodosprendimai/brdstudio/internal/application"
	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *application.ProjectService
}

func NewRouter(service *application.ProjectService) http.Handler {
	h := &Handler{service: service}
	r := chi.NewRouter()

	r.Get("/healthz", h.handleHealthz)

	r.Route("/api", func(api chi.Router) {
		api.Use(h.ensureSession)
		api.Get("/projects", h.handleListProjects)
		api.Post("/projects", h.handleCreateProject)
		api.Get("/projects/{id}", h.handleGetProject)
		api.Put("/projects/{id}", h.handleUpdateProject)
		api.Delete("/projects/{id}", h.handleDeleteProject)
		api.Get("/projects/{id}/export", h.handleExportProject)
		api.Post("/suggest", h.handleSuggest)
		api.Get("/models", h.handleListModels)
		api.Delete("/session", h.handleEndSession)
	})

	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok", "suggestions": "available"}
	if err := h.service.SuggestionHealth(r.Context()); err != nil {
		status["suggestions"] = "unavailable"
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": summaries})
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	created, err := h.service.CreateProject(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Opening a project makes it the session's current selection.
	if token, ok := sessionToken(r); ok {
		_ = h.service.SelectProject(r.Context(), token, id)
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	p.ID = chi.URLParam(r, "id")

	updated, err := h.service.UpdateProject(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleExportProject(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.ExportProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req domain.SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	text, err := h.service.Suggest(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestion": text})
}

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessionToken(r); ok {
		_ = h.service.EndSession(r.Context(), token)
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"kind":       verr.Kind,
			"index":      verr.Index,
			"field":      verr.Field,
			"constraint": verr.Constraint,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "project not found"})
	case errors.Is(err, domain.ErrSuggestionUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "suggestion unavailable"})
	case errors.Is(err, os.ErrNotExist):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "file not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
