package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erazemk/katalog/internal/catalog"
)

func (s *Store) collection(kind catalog.Kind) (*mongo.Collection, error) {
	switch kind {
	case catalog.KindMedium:
		return s.mediums, nil
	case catalog.KindItem:
		return s.items, nil
	}
	return nil, catalog.Invalid("unknown image kind %q", kind)
}

// SetImage stores a cover image on the owning document and records its URL.
func (s *Store) SetImage(ctx context.Context, kind catalog.Kind, id string, img catalog.Image) error {
	coll, err := s.collection(kind)
	if err != nil {
		return err
	}

	res, err := coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "image", Value: img.Data},
		{Key: "imageMime", Value: img.MIME},
		{Key: "imageUrl", Value: img.URL},
		{Key: "updatedAt", Value: s.stamp()},
	}}})
	if err != nil {
		return fmt.Errorf("setting %s image: %w", kind, err)
	}
	if res.MatchedCount == 0 {
		return catalog.NotFound(string(kind[:len(kind)-1]))
	}
	return nil
}

// GetImage returns a stored cover image.
func (s *Store) GetImage(ctx context.Context, kind catalog.Kind, id string) (*catalog.Image, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Image     []byte `bson:"image"`
		ImageMIME string `bson:"imageMime"`
	}
	err = coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}},
		options.FindOne().SetProjection(bson.D{{Key: "image", Value: 1}, {Key: "imageMime", Value: 1}}),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err, "image")
	}
	if len(doc.Image) == 0 {
		return nil, catalog.NotFound("image")
	}
	return &catalog.Image{Data: doc.Image, MIME: doc.ImageMIME}, nil
}
