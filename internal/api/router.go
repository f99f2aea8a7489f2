package api

import (
	"net/http"
	"time"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/imaging"
	"github.com/erazemk/katalog/internal/model"
)

// Options configures the API handlers.
type Options struct {
	// BasePath is the prefix the API is mounted under. It is used to build
	// image URLs; routes themselves are registered without it.
	BasePath string

	// Location resolves date buckets such as "today". Defaults to time.Local.
	Location *time.Location

	// Now is the clock for date buckets. Defaults to time.Now.
	Now func() time.Time

	Images         imaging.Options
	MaxUploadBytes int64
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(store catalog.Store, opts Options) http.Handler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	clock := func() time.Time { return opts.Now().In(opts.Location) }

	mux := http.NewServeMux()

	mediumsHandler := &MediumsHandler{Store: store}
	itemsHandler := &ItemsHandler{Store: store, Now: clock}
	imagesHandler := &ImagesHandler{
		Store:    store,
		BasePath: opts.BasePath,
		Options:  opts.Images,
		MaxBytes: opts.MaxUploadBytes,
	}

	mux.HandleFunc("GET /health", Health)

	// Mediums.
	mux.HandleFunc("GET /mediums", mediumsHandler.List)
	mux.HandleFunc("GET /mediums/search", mediumsHandler.Search)
	mux.HandleFunc("POST /mediums", mediumsHandler.Create)
	mux.HandleFunc("GET /mediums/{id}", mediumsHandler.Get)
	mux.HandleFunc("PATCH /mediums/{id}", mediumsHandler.Update)
	mux.HandleFunc("DELETE /mediums/{id}", mediumsHandler.Delete)

	// Items.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("GET /items/search", itemsHandler.Search)
	mux.HandleFunc("POST /items", itemsHandler.Create)
	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.HandleFunc("PATCH /items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /items/{id}", itemsHandler.Delete)
	mux.HandleFunc("GET /items/medium/{mediumId}", itemsHandler.ListScoped(model.PlacementNone))

	// Placement views.
	for _, p := range model.Placements {
		mux.HandleFunc("GET /items/"+string(p)+"/all", itemsHandler.ListScoped(p))
		mux.HandleFunc("GET /items/"+string(p)+"/medium/{mediumId}", itemsHandler.ListScoped(p))
		mux.HandleFunc("GET /items/"+string(p)+"/counts", itemsHandler.Counts(p))
	}

	// Cover images.
	mux.HandleFunc("PUT /images/{kind}/{id}", imagesHandler.Upload)
	mux.HandleFunc("GET /images/{kind}/{id}", imagesHandler.Get)

	return mux
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
