package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// MediumsHandler handles medium CRUD endpoints.
type MediumsHandler struct {
	Store catalog.Store
}

// List handles GET /mediums.
func (h *MediumsHandler) List(w http.ResponseWriter, r *http.Request) {
	mediums, err := h.Store.SearchMediums(r.Context(), query.ListPlan("", model.PlacementNone))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, mediums)
}

// Search handles GET /mediums/search.
func (h *MediumsHandler) Search(w http.ResponseWriter, r *http.Request) {
	c, err := query.ParseMediumCriteria(r.URL.Query())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	mediums, err := h.Store.SearchMediums(r.Context(), c.MediumPlan())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, mediums)
}

// Get handles GET /mediums/{id}.
func (h *MediumsHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.Store.GetMedium(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// Create handles POST /mediums.
func (h *MediumsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.MediumInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := validateRequest(req); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := h.Store.CreateMedium(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("medium created", "id", m.ID, "title", m.Title)
	jsonResponse(w, http.StatusCreated, m)
}

// Update handles PATCH /mediums/{id}.
func (h *MediumsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.MediumPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := h.Store.UpdateMedium(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// Delete handles DELETE /mediums/{id}. Items of the medium are deleted with it.
func (h *MediumsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.Store.DeleteMedium(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("medium deleted", "id", id, "items", removed)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":      "medium deleted",
		"deletedItems": removed,
	})
}
