package mongostore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// CreateItem creates a new item in an existing medium.
func (s *Store) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	in.Normalize()
	flags, err := in.Flags()
	if err != nil {
		return nil, catalog.Invalid("%v", err)
	}
	ok, err := s.mediumExists(ctx, in.MediumID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, catalog.Invalid("medium %s does not exist", in.MediumID)
	}

	now := s.stamp()
	it := model.Item{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Creator:     in.Creator,
		ImageURL:    in.ImageURL,
		Rating:      in.Rating,
		Description: in.Description,
		MediumID:    in.MediumID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	it.SetFlags(flags)

	if _, err := s.items.InsertOne(ctx, itemDoc{Item: it, Fold: itemFold(&it)}); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	if err := s.attachMediums(ctx, []*model.Item{&it}); err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachMediums(ctx, []*model.Item{it}); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Store) getItem(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	err := s.items.FindOne(ctx, bson.D{{Key: "_id", Value: id}},
		options.FindOne().SetProjection(recordProjection),
	).Decode(&it)
	if err != nil {
		return nil, notFound(err, "item")
	}
	return &it, nil
}

// SearchItems returns the items matching plan in plan order.
func (s *Store) SearchItems(ctx context.Context, plan query.Plan) ([]model.Item, error) {
	cur, err := s.items.Find(ctx, itemFilter(plan),
		options.Find().SetSort(sortDoc(plan)).SetProjection(recordProjection),
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	items := []model.Item{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	ptrs := make([]*model.Item, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := s.attachMediums(ctx, ptrs); err != nil {
		return nil, err
	}
	return items, nil
}

// attachMediums fills in the medium summary of each item.
func (s *Store) attachMediums(ctx context.Context, items []*model.Item) error {
	if len(items) == 0 {
		return nil
	}
	ids := bson.A{}
	seen := map[string]bool{}
	for _, it := range items {
		if !seen[it.MediumID] {
			seen[it.MediumID] = true
			ids = append(ids, it.MediumID)
		}
	}

	cur, err := s.mediums.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		options.Find().SetProjection(bson.D{{Key: "title", Value: 1}, {Key: "imageUrl", Value: 1}}),
	)
	if err != nil {
		return fmt.Errorf("loading mediums: %w", err)
	}
	var mediums []model.Medium
	if err := cur.All(ctx, &mediums); err != nil {
		return fmt.Errorf("decoding mediums: %w", err)
	}

	byID := make(map[string]*model.MediumSummary, len(mediums))
	for _, m := range mediums {
		byID[m.ID] = &model.MediumSummary{ID: m.ID, Title: m.Title, ImageURL: m.ImageURL}
	}
	for _, it := range items {
		it.Medium = byID[it.MediumID]
	}
	return nil
}

// UpdateItem applies a partial update by reading, patching and rewriting the
// item. Concurrent updates are last-write-wins.
func (s *Store) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	it, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if mediumID := patch.NewMediumID(); mediumID != "" && mediumID != it.MediumID {
		ok, err := s.mediumExists(ctx, mediumID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, catalog.Invalid("medium %s does not exist", mediumID)
		}
	}

	if err := patch.Apply(it); err != nil {
		return nil, catalog.Invalid("%v", err)
	}
	it.UpdatedAt = s.stamp()

	_, err = s.items.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: it.Title},
		{Key: "creator", Value: it.Creator},
		{Key: "imageUrl", Value: it.ImageURL},
		{Key: "rating", Value: it.Rating},
		{Key: "description", Value: it.Description},
		{Key: "medium", Value: it.MediumID},
		{Key: "isWishlist", Value: it.IsWishlist},
		{Key: "isLiked", Value: it.IsLiked},
		{Key: "isConsumed", Value: it.IsConsumed},
		{Key: "isInProgress", Value: it.IsInProgress},
		{Key: "updatedAt", Value: it.UpdatedAt},
		{Key: "fold", Value: itemFold(it)},
	}}})
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := s.attachMediums(ctx, []*model.Item{it}); err != nil {
		return nil, err
	}
	return it, nil
}

// DeleteItem deletes an item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.items.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if res.DeletedCount == 0 {
		return catalog.NotFound("item")
	}
	return nil
}

// CountByMedium counts items with the given placement per medium.
func (s *Store) CountByMedium(ctx context.Context, placement model.Placement) (map[string]int, error) {
	match := bson.D{}
	if key, ok := placementKeys[placement]; ok {
		match = append(match, bson.E{Key: key, Value: true})
	}
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$medium"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := s.items.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	var rows []struct {
		MediumID string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decoding counts: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.MediumID] = r.Count
	}
	return counts, nil
}
