package handlers

import (
	"net/http"

	"github.com/fixmyward/ward-server/internal/services"
	"github.com/go-chi/chi/v5"
)

// WardHandler serves the ward directory
type WardHandler struct {
	wards *services.WardDirectory
}

// NewWardHandler creates a new ward handler
func NewWardHandler(wards *services.WardDirectory) *WardHandler {
	return &WardHandler{wards: wards}
}

// List handles GET /api/v1/wards
func (h *WardHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.wards.All())
}

// Get handles GET /api/v1/wards/{slug}
func (h *WardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ward, ok := h.wards.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		respondError(w, http.StatusNotFound, "Ward not found")
		return
	}
	respondJSON(w, http.StatusOK, ward)
}
