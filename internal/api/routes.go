package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) RegisterRoutes(r chi.Router, metricsHandler http.Handler) {
	r.Post("/api/detect", h.handleDetect)
	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", metricsHandler)
}
