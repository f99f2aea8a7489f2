package mongostore

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// Document keys for plan fields.
var fieldKeys = map[query.Field]string{
	query.FieldID:          "_id",
	query.FieldTitle:       "title",
	query.FieldCreator:     "creator",
	query.FieldDescription: "description",
	query.FieldRating:      "rating",
	query.FieldLiked:       "isLiked",
	query.FieldCreatedAt:   "createdAt",
}

var placementKeys = map[model.Placement]string{
	model.PlacementWishlist:   "isWishlist",
	model.PlacementInProgress: "isInProgress",
	model.PlacementConsumed:   "isConsumed",
}

// foldKey is the key of the case-folded copy of a text field. Plan text is
// already folded, so an exact substring regex over the copy matches the same
// documents as the in-memory comparison.
func foldKey(f query.Field) string {
	return "fold." + fieldKeys[f]
}

func itemFilter(p query.Plan) bson.D {
	f := bson.D{}
	if p.MediumID != "" {
		f = append(f, bson.E{Key: "medium", Value: p.MediumID})
	}
	if key, ok := placementKeys[p.Placement]; ok {
		f = append(f, bson.E{Key: key, Value: true})
	}
	f = appendText(f, p)
	if p.Rating != nil {
		f = append(f, bson.E{Key: "rating", Value: bson.D{
			{Key: "$gte", Value: p.Rating.Min},
			{Key: "$lte", Value: p.Rating.Max},
		}})
	}
	return appendSince(f, p)
}

func mediumFilter(p query.Plan) bson.D {
	return appendSince(appendText(bson.D{}, p), p)
}

func appendText(f bson.D, p query.Plan) bson.D {
	if p.Text == "" {
		return f
	}
	pattern := regexp.QuoteMeta(p.Text)
	or := bson.A{}
	for _, field := range p.TextFields {
		or = append(or, bson.D{{Key: foldKey(field), Value: bson.D{{Key: "$regex", Value: pattern}}}})
	}
	return append(f, bson.E{Key: "$or", Value: or})
}

func appendSince(f bson.D, p query.Plan) bson.D {
	if p.Since.IsZero() {
		return f
	}
	return append(f, bson.E{Key: "createdAt", Value: bson.D{
		{Key: "$gte", Value: time.UnixMilli(p.SinceMillis())},
	}})
}

func sortDoc(p query.Plan) bson.D {
	s := bson.D{}
	for _, o := range p.Order {
		dir := 1
		if o.Desc {
			dir = -1
		}
		s = append(s, bson.E{Key: fieldKeys[o.Field], Value: dir})
	}
	return s
}
