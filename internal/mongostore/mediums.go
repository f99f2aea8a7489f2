package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// CreateMedium creates a new medium.
func (s *Store) CreateMedium(ctx context.Context, in model.MediumInput) (*model.Medium, error) {
	in.Normalize()
	now := s.stamp()
	m := model.Medium{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.mediums.InsertOne(ctx, mediumDoc{Medium: m, Fold: mediumFold(&m)}); err != nil {
		return nil, fmt.Errorf("creating medium: %w", err)
	}
	return &m, nil
}

// GetMedium returns a medium by ID.
func (s *Store) GetMedium(ctx context.Context, id string) (*model.Medium, error) {
	var m model.Medium
	err := s.mediums.FindOne(ctx, bson.D{{Key: "_id", Value: id}},
		options.FindOne().SetProjection(recordProjection),
	).Decode(&m)
	if err != nil {
		return nil, notFound(err, "medium")
	}
	return &m, nil
}

func (s *Store) mediumExists(ctx context.Context, id string) (bool, error) {
	n, err := s.mediums.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("checking medium: %w", err)
	}
	return n > 0, nil
}

// SearchMediums returns the mediums matching plan in plan order.
func (s *Store) SearchMediums(ctx context.Context, plan query.Plan) ([]model.Medium, error) {
	cur, err := s.mediums.Find(ctx, mediumFilter(plan),
		options.Find().SetSort(sortDoc(plan)).SetProjection(recordProjection),
	)
	if err != nil {
		return nil, fmt.Errorf("listing mediums: %w", err)
	}

	mediums := []model.Medium{}
	if err := cur.All(ctx, &mediums); err != nil {
		return nil, fmt.Errorf("decoding mediums: %w", err)
	}
	return mediums, nil
}

// UpdateMedium applies a partial update to a medium.
func (s *Store) UpdateMedium(ctx context.Context, id string, patch model.MediumPatch) (*model.Medium, error) {
	m, err := s.GetMedium(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(m)
	m.UpdatedAt = s.stamp()

	_, err = s.mediums.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: m.Title},
		{Key: "description", Value: m.Description},
		{Key: "imageUrl", Value: m.ImageURL},
		{Key: "updatedAt", Value: m.UpdatedAt},
		{Key: "fold", Value: mediumFold(m)},
	}}})
	if err != nil {
		return nil, fmt.Errorf("updating medium: %w", err)
	}
	return m, nil
}

// DeleteMedium deletes the medium's items and then the medium, inside a
// transaction when the deployment supports one.
func (s *Store) DeleteMedium(ctx context.Context, id string) (int64, error) {
	if !s.transactions {
		slog.Warn("deleting medium without a transaction", "medium", id)
		return s.deleteMedium(ctx, id)
	}

	var removed int64
	err := s.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		_, err := sc.WithTransaction(sc, func(tc mongo.SessionContext) (interface{}, error) {
			n, err := s.deleteMedium(tc, id)
			removed = n
			return nil, err
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Store) deleteMedium(ctx context.Context, id string) (int64, error) {
	ok, err := s.mediumExists(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, catalog.NotFound("medium")
	}

	res, err := s.items.DeleteMany(ctx, bson.D{{Key: "medium", Value: id}})
	if err != nil {
		return 0, fmt.Errorf("deleting medium items: %w", err)
	}
	if _, err := s.mediums.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return res.DeletedCount, fmt.Errorf("deleting medium: %w", err)
	}
	return res.DeletedCount, nil
}
