package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/katalog/internal/catalog"
)

var imageTables = map[catalog.Kind]string{
	catalog.KindMedium: "mediums",
	catalog.KindItem:   "items",
}

// SetImage stores a cover image and records its URL as the owner's imageUrl.
func (s *Store) SetImage(ctx context.Context, kind catalog.Kind, id string, img catalog.Image) error {
	table, ok := imageTables[kind]
	if !ok {
		return catalog.Invalid("unknown image kind %q", kind)
	}

	_, ms := s.stamp()
	result, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET image = ?, image_mime = ?, image_url = ?, updated_at = ? WHERE id = ?`,
		img.Data, img.MIME, img.URL, ms, id,
	)
	if err != nil {
		return fmt.Errorf("setting %s image: %w", kind, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting %s image: %w", kind, err)
	}
	if n == 0 {
		return catalog.NotFound(string(kind[:len(kind)-1]))
	}
	return nil
}

// GetImage returns a stored cover image.
func (s *Store) GetImage(ctx context.Context, kind catalog.Kind, id string) (*catalog.Image, error) {
	table, ok := imageTables[kind]
	if !ok {
		return nil, catalog.Invalid("unknown image kind %q", kind)
	}

	var data []byte
	var mime sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM `+table+` WHERE id = ?`, id,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && data == nil) {
		return nil, catalog.NotFound("image")
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s image: %w", kind, err)
	}
	return &catalog.Image{Data: data, MIME: mime.String}, nil
}
