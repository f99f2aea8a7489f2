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

const mediumColumns = `id, title, description, image_url, created_at, updated_at`

func scanMedium(row scanner) (*model.Medium, error) {
	m := &model.Medium{}
	var created, updated int64
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.ImageURL, &created, &updated); err != nil {
		return nil, err
	}
	m.CreatedAt = time.UnixMilli(created)
	m.UpdatedAt = time.UnixMilli(updated)
	return m, nil
}

// CreateMedium creates a new medium.
func (s *Store) CreateMedium(ctx context.Context, in model.MediumInput) (*model.Medium, error) {
	in.Normalize()
	now, ms := s.stamp()

	m := &model.Medium{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mediums (id, title, description, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Description, m.ImageURL, ms, ms,
	)
	if err != nil {
		return nil, fmt.Errorf("creating medium: %w", err)
	}
	return m, nil
}

// GetMedium returns a medium by ID.
func (s *Store) GetMedium(ctx context.Context, id string) (*model.Medium, error) {
	return getMedium(ctx, s.db, id)
}

func getMedium(ctx context.Context, q querier, id string) (*model.Medium, error) {
	m, err := scanMedium(q.QueryRowContext(ctx,
		`SELECT `+mediumColumns+` FROM mediums WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.NotFound("medium")
	}
	if err != nil {
		return nil, fmt.Errorf("getting medium: %w", err)
	}
	return m, nil
}

func mediumExists(ctx context.Context, q querier, id string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM mediums WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking medium: %w", err)
	}
	return n > 0, nil
}

// SearchMediums returns the mediums matching plan in plan order.
func (s *Store) SearchMediums(ctx context.Context, plan query.Plan) ([]model.Medium, error) {
	where, args := mediumWhere(plan)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+mediumColumns+` FROM mediums`+where+orderBy(plan, mediumFields),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing mediums: %w", err)
	}
	defer rows.Close()

	mediums := []model.Medium{}
	for rows.Next() {
		m, err := scanMedium(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning medium: %w", err)
		}
		mediums = append(mediums, *m)
	}
	return mediums, rows.Err()
}

// UpdateMedium applies a partial update to a medium.
func (s *Store) UpdateMedium(ctx context.Context, id string, patch model.MediumPatch) (*model.Medium, error) {
	var m *model.Medium
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if m, err = getMedium(ctx, tx, id); err != nil {
			return err
		}

		patch.Apply(m)
		var ms int64
		m.UpdatedAt, ms = s.stamp()

		_, err = tx.ExecContext(ctx,
			`UPDATE mediums SET title = ?, description = ?, image_url = ?, updated_at = ?
			 WHERE id = ?`,
			m.Title, m.Description, m.ImageURL, ms, id,
		)
		if err != nil {
			return fmt.Errorf("updating medium: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMedium deletes a medium and all of its items in one transaction.
func (s *Store) DeleteMedium(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := mediumExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return catalog.NotFound("medium")
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE medium_id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting medium items: %w", err)
		}
		if removed, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("counting deleted items: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM mediums WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting medium: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
