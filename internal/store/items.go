package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

const itemSelect = `SELECT i.id, i.medium_id, i.title, i.creator, i.image_url, i.description, i.rating,
       i.is_wishlist, i.is_liked, i.is_consumed, i.is_in_progress, i.created_at, i.updated_at,
       m.title, m.image_url
FROM items i
JOIN mediums m ON m.id = i.medium_id`

func scanItem(row scanner) (*model.Item, error) {
	it := &model.Item{}
	var created, updated int64
	var mediumTitle, mediumImage string
	err := row.Scan(&it.ID, &it.MediumID, &it.Title, &it.Creator, &it.ImageURL, &it.Description, &it.Rating,
		&it.IsWishlist, &it.IsLiked, &it.IsConsumed, &it.IsInProgress, &created, &updated,
		&mediumTitle, &mediumImage)
	if err != nil {
		return nil, err
	}
	it.CreatedAt = time.UnixMilli(created)
	it.UpdatedAt = time.UnixMilli(updated)
	it.Medium = &model.MediumSummary{ID: it.MediumID, Title: mediumTitle, ImageURL: mediumImage}
	return it, nil
}

// CreateItem creates a new item in an existing medium.
func (s *Store) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	in.Normalize()
	flags, err := in.Flags()
	if err != nil {
		return nil, catalog.Invalid("%v", err)
	}

	id := uuid.NewString()
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := mediumExists(ctx, tx, in.MediumID)
		if err != nil {
			return err
		}
		if !ok {
			return catalog.Invalid("medium %s does not exist", in.MediumID)
		}

		_, ms := s.stamp()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO items (id, medium_id, title, creator, image_url, description, rating,
			                    is_wishlist, is_liked, is_consumed, is_in_progress, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, in.MediumID, in.Title, in.Creator, in.ImageURL, in.Description, in.Rating,
			boolInt(flags.Wishlist), boolInt(flags.Liked), boolInt(flags.Consumed), boolInt(flags.InProgress),
			ms, ms,
		)
		if err != nil {
			return fmt.Errorf("creating item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return getItem(ctx, s.db, id)
}

func getItem(ctx context.Context, q querier, id string) (*model.Item, error) {
	it, err := scanItem(q.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.NotFound("item")
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// SearchItems returns the items matching plan in plan order.
func (s *Store) SearchItems(ctx context.Context, plan query.Plan) ([]model.Item, error) {
	where, args := itemWhere(plan)
	rows, err := s.db.QueryContext(ctx, itemSelect+where+orderBy(plan, itemFields), args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateItem applies a partial update to an item, resolving placement flags.
// The whole record is rewritten, so concurrent updates are last-write-wins.
func (s *Store) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		it, err := getItem(ctx, tx, id)
		if err != nil {
			return err
		}

		if mediumID := patch.NewMediumID(); mediumID != "" && mediumID != it.MediumID {
			ok, err := mediumExists(ctx, tx, mediumID)
			if err != nil {
				return err
			}
			if !ok {
				return catalog.Invalid("medium %s does not exist", mediumID)
			}
		}

		if err := patch.Apply(it); err != nil {
			return catalog.Invalid("%v", err)
		}

		_, ms := s.stamp()
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET medium_id = ?, title = ?, creator = ?, image_url = ?, description = ?, rating = ?,
			        is_wishlist = ?, is_liked = ?, is_consumed = ?, is_in_progress = ?, updated_at = ?
			 WHERE id = ?`,
			it.MediumID, it.Title, it.Creator, it.ImageURL, it.Description, it.Rating,
			boolInt(it.IsWishlist), boolInt(it.IsLiked), boolInt(it.IsConsumed), boolInt(it.IsInProgress), ms,
			id,
		)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetItem(ctx, id)
}

// DeleteItem deletes an item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return catalog.NotFound("item")
	}
	return nil
}

// CountByMedium counts items with the given placement per medium. With
// PlacementNone every item is counted.
func (s *Store) CountByMedium(ctx context.Context, placement model.Placement) (map[string]int, error) {
	q := `SELECT i.medium_id, COUNT(*) FROM items i`
	if col, ok := placementColumns[placement]; ok {
		q += ` WHERE ` + col + ` = 1`
	}
	q += ` GROUP BY i.medium_id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var mediumID string
		var n int
		if err := rows.Scan(&mediumID, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[mediumID] = n
	}
	return counts, rows.Err()
}
