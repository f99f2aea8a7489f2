package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/imaging"
)

// ImagesHandler stores and serves cover images of mediums and items.
type ImagesHandler struct {
	Store    catalog.Store
	BasePath string
	Options  imaging.Options
	MaxBytes int64
}

// Upload handles PUT /images/{kind}/{id}. The processed cover replaces the
// owner's imageUrl with the URL it is served from.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, ok := catalog.ParseKind(r.PathValue("kind"))
	if !ok {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	cover, err := imaging.Process(file, h.Options)
	if errors.Is(err, imaging.ErrUnsupported) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	url := h.BasePath + "/images/" + string(kind) + "/" + id
	err = h.Store.SetImage(r.Context(), kind, id, catalog.Image{Data: cover.Data, MIME: cover.MIME, URL: url})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("image uploaded", "kind", kind, "id", id, "bytes", len(cover.Data))
	jsonResponse(w, http.StatusOK, map[string]string{"imageUrl": url})
}

// Get handles GET /images/{kind}/{id}.
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := catalog.ParseKind(r.PathValue("kind"))
	if !ok {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}

	img, err := h.Store.GetImage(r.Context(), kind, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", img.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(img.Data)
}
