// Package catalog defines the storage contract shared by the SQLite and
// MongoDB backends.
package catalog

import (
	"context"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// Store persists mediums and items.
//
// Search methods evaluate a query.Plan natively and must return exactly what
// query.Items or query.Mediums would return for the full collection.
type Store interface {
	SearchMediums(ctx context.Context, plan query.Plan) ([]model.Medium, error)
	GetMedium(ctx context.Context, id string) (*model.Medium, error)
	CreateMedium(ctx context.Context, in model.MediumInput) (*model.Medium, error)
	UpdateMedium(ctx context.Context, id string, patch model.MediumPatch) (*model.Medium, error)
	// DeleteMedium removes the medium and every item referencing it. It
	// returns the number of items removed.
	DeleteMedium(ctx context.Context, id string) (int64, error)

	SearchItems(ctx context.Context, plan query.Plan) ([]model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
	// CountByMedium returns, per medium id, the number of items with the given
	// placement. Mediums without such items are omitted.
	CountByMedium(ctx context.Context, placement model.Placement) (map[string]int, error)

	SetImage(ctx context.Context, kind Kind, id string, img Image) error
	GetImage(ctx context.Context, kind Kind, id string) (*Image, error)

	Close(ctx context.Context) error
}

// Kind selects the collection an image belongs to.
type Kind string

// Image owner kinds.
const (
	KindMedium Kind = "mediums"
	KindItem   Kind = "items"
)

// ParseKind parses an image owner kind from a path segment.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindMedium, KindItem:
		return k, true
	}
	return "", false
}

// Image is a stored cover image. URL is the imageUrl to record on the owner;
// it is ignored by GetImage.
type Image struct {
	Data []byte
	MIME string
	URL  string
}
