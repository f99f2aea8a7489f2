package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Store catalog.Store
	// Now returns the current time in the catalog's time zone.
	Now func() time.Time
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.SearchItems(r.Context(), query.ListPlan("", model.PlacementNone))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Search handles GET /items/search. The store evaluates the whole query.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	c, err := query.ParseItemCriteria(r.URL.Query())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Store.SearchItems(r.Context(), c.ItemPlan(h.Now()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// ListScoped returns a handler for the items of one placement, optionally
// limited to the medium in the mediumId path value. With PlacementNone it
// lists a medium's items. The scope is fetched from the store and search
// parameters, if any, are applied in memory.
func (h *ItemsHandler) ListScoped(placement model.Placement) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := query.ParseItemCriteria(r.URL.Query())
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.MediumID = r.PathValue("mediumId")
		c.Placement = placement

		if c.MediumID != "" {
			if _, err := h.Store.GetMedium(r.Context(), c.MediumID); err != nil {
				writeError(w, r, err)
				return
			}
		}

		items, err := h.Store.SearchItems(r.Context(), query.ListPlan(c.MediumID, placement))
		if err != nil {
			writeError(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, query.Items(items, c.ItemPlan(h.Now())))
	}
}

// Counts returns a handler reporting, per medium id, how many items have
// placement.
func (h *ItemsHandler) Counts(placement model.Placement) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.Store.CountByMedium(r.Context(), placement)
		if err != nil {
			writeError(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, counts)
	}
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.Store.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, it)
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := validateRequest(req); err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.Store.CreateItem(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item created", "id", it.ID, "title", it.Title, "medium", it.MediumID)
	jsonResponse(w, http.StatusCreated, it)
}

// Update handles PATCH /items/{id}. Setting one placement flag clears the
// other two.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ItemPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.Store.UpdateItem(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, it)
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
