package store

import (
	"strings"

	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// Column names for plan fields. Items are always selected as alias i.
var (
	itemFields = map[query.Field]string{
		query.FieldID:          "i.id",
		query.FieldTitle:       "i.title",
		query.FieldCreator:     "i.creator",
		query.FieldDescription: "i.description",
		query.FieldRating:      "i.rating",
		query.FieldLiked:       "i.is_liked",
		query.FieldCreatedAt:   "i.created_at",
	}
	mediumFields = map[query.Field]string{
		query.FieldID:          "id",
		query.FieldTitle:       "title",
		query.FieldDescription: "description",
		query.FieldCreatedAt:   "created_at",
	}
	placementColumns = map[model.Placement]string{
		model.PlacementWishlist:   "i.is_wishlist",
		model.PlacementInProgress: "i.is_in_progress",
		model.PlacementConsumed:   "i.is_consumed",
	}
)

// conditions accumulates AND-ed SQL predicates and their arguments.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, args ...any) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return ` WHERE ` + strings.Join(c.clauses, ` AND `)
}

// text adds the case-folded substring match over the plan's text fields.
func (c *conditions) text(p query.Plan, cols map[query.Field]string) {
	if p.Text == "" {
		return
	}
	ors := make([]string, 0, len(p.TextFields))
	for _, f := range p.TextFields {
		ors = append(ors, `instr(`+db.FoldFunc+`(`+cols[f]+`), ?) > 0`)
		c.args = append(c.args, p.Text)
	}
	c.clauses = append(c.clauses, `(`+strings.Join(ors, ` OR `)+`)`)
}

func itemWhere(p query.Plan) (string, []any) {
	var c conditions
	if p.MediumID != "" {
		c.add(`i.medium_id = ?`, p.MediumID)
	}
	if col, ok := placementColumns[p.Placement]; ok {
		c.add(col + ` = 1`)
	}
	c.text(p, itemFields)
	if p.Rating != nil {
		c.add(`i.rating >= ? AND i.rating <= ?`, p.Rating.Min, p.Rating.Max)
	}
	if !p.Since.IsZero() {
		c.add(`i.created_at >= ?`, p.SinceMillis())
	}
	return c.where(), c.args
}

func mediumWhere(p query.Plan) (string, []any) {
	var c conditions
	c.text(p, mediumFields)
	if !p.Since.IsZero() {
		c.add(`created_at >= ?`, p.SinceMillis())
	}
	return c.where(), c.args
}

// orderBy renders the plan's ordering. Text columns use the default BINARY
// collation, which orders like Go's string comparison.
func orderBy(p query.Plan, cols map[query.Field]string) string {
	if len(p.Order) == 0 {
		return ""
	}
	terms := make([]string, 0, len(p.Order))
	for _, o := range p.Order {
		dir := ` ASC`
		if o.Desc {
			dir = ` DESC`
		}
		terms = append(terms, cols[o.Field]+dir)
	}
	return ` ORDER BY ` + strings.Join(terms, `, `)
}
