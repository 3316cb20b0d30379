// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/staranto/projidx/internal/index"
	"github.com/staranto/projidx/internal/project"
)

// Index is the subset of index.Cache the API serves.
type Index interface {
	FetchIndex(ctx context.Context) (*project.Index, error)
	GetBySlug(ctx context.Context, slug string) (project.Project, bool)
	GetPublished(ctx context.Context) []project.Project
	GetFeatured(ctx context.Context) []project.Project
	Invalidate(ctx context.Context)
}

// Routes builds the API router.
func Routes(idx Index) http.Handler {
	h := &handler{idx: idx}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", h.listProjects)
		r.Get("/projects/featured", h.listFeatured)
		r.Get("/projects/{slug}", h.getProject)
		r.Get("/index", h.getIndex)
		r.Post("/cache/invalidate", h.invalidate)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}

type handler struct {
	idx Index
}

// listProjects handles GET /api/projects
func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.idx.GetPublished(r.Context()))
}

// listFeatured handles GET /api/projects/featured
func (h *handler) listFeatured(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.idx.GetFeatured(r.Context()))
}

// getProject handles GET /api/projects/{slug}
func (h *handler) getProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, ok := h.idx.GetBySlug(r.Context(), slug)
	if !ok {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// getIndex handles GET /api/index. Unlike the accessors it reports fetch
// failures to the caller.
func (h *handler) getIndex(w http.ResponseWriter, r *http.Request) {
	idx, err := h.idx.FetchIndex(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, idx)
}

// invalidate handles POST /api/cache/invalidate
func (h *handler) invalidate(w http.ResponseWriter, r *http.Request) {
	h.idx.Invalidate(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// statusFor maps the cache error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		remoteErr    *index.RemoteFetchError
		transportErr *index.TransportError
		parseErr     *index.ParseError
	)

	switch {
	case errors.As(err, &remoteErr), errors.As(err, &transportErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("encoding response")
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
