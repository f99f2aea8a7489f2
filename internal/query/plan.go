package query

import (
	"cmp"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/erazemk/katalog/internal/model"
)

// Field names a record attribute a Plan filters or orders on.
type Field string

// Fields.
const (
	FieldID          Field = "id"
	FieldTitle       Field = "title"
	FieldCreator     Field = "creator"
	FieldDescription Field = "description"
	FieldRating      Field = "rating"
	FieldLiked       Field = "isLiked"
	FieldCreatedAt   Field = "createdAt"
)

// Order is one term of a Plan's ordering.
type Order struct {
	Field Field
	Desc  bool
}

// RatingRange is an inclusive rating bound.
type RatingRange struct {
	Min float64
	Max float64
}

// Plan is a resolved search: every bound is absolute and the ordering is
// total. Stores translate a Plan into native predicates; Items and Mediums
// evaluate it in memory. Both must agree on the result.
type Plan struct {
	// Text is the case-folded search term. Empty matches everything.
	Text       string
	TextFields []Field

	// Rating is nil when ratings are not filtered.
	Rating *RatingRange

	// Since is the inclusive lower bound on createdAt. Zero means unbounded.
	Since time.Time

	MediumID  string
	Placement model.Placement

	Order []Order
}

// ItemPlan resolves c for items relative to now.
func (c Criteria) ItemPlan(now time.Time) Plan {
	return Plan{
		Text:       foldTerm(c.Text),
		TextFields: []Field{FieldTitle, FieldCreator, FieldDescription},
		Rating:     &RatingRange{Min: c.RatingMin, Max: c.RatingMax},
		Since:      c.Date.Since(now),
		MediumID:   c.MediumID,
		Placement:  c.Placement,
		Order:      orderFor(c.Sort),
	}
}

// MediumPlan resolves c for mediums. Only the text and sort apply.
func (c Criteria) MediumPlan() Plan {
	return Plan{
		Text:       foldTerm(c.Text),
		TextFields: []Field{FieldTitle, FieldDescription},
		Order:      orderFor(c.Sort),
	}
}

// ListPlan is the plan behind plain listings: everything in scope, newest first.
func ListPlan(mediumID string, placement model.Placement) Plan {
	return Plan{
		MediumID:  mediumID,
		Placement: placement,
		Order:     orderFor(SortNewest),
	}
}

// SinceMillis returns Since as unix milliseconds, rounded up so that a
// millisecond-precision createdAt compares the same way as against Since.
func (p Plan) SinceMillis() int64 {
	ms := p.Since.UnixMilli()
	if time.UnixMilli(ms).Before(p.Since) {
		ms++
	}
	return ms
}

// orderFor expands a sort key into a total ordering. Ties on the primary key
// fall back to newest first, then id, which is what a stable sort over the
// default newest-first listing yields.
func orderFor(k SortKey) []Order {
	tail := []Order{{Field: FieldCreatedAt, Desc: true}, {Field: FieldID}}

	switch k {
	case SortOldest:
		return []Order{{Field: FieldCreatedAt}, {Field: FieldID}}
	case SortRatingHigh:
		return append([]Order{{Field: FieldRating, Desc: true}}, tail...)
	case SortRatingLow:
		return append([]Order{{Field: FieldRating}}, tail...)
	case SortName:
		return append([]Order{{Field: FieldTitle}}, tail...)
	case SortLiked:
		return append([]Order{{Field: FieldLiked, Desc: true}}, tail...)
	}
	return tail
}

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

// Fold returns the case-folded form of s used for case-insensitive matching.
func Fold(s string) string {
	return folder.String(s)
}

// foldTerm folds a search term. Only the empty term disables text filtering;
// whitespace is matched literally.
func foldTerm(s string) string {
	if s == "" {
		return ""
	}
	return Fold(s)
}

// MatchItem reports whether it satisfies every filter in p.
func (p Plan) MatchItem(it *model.Item) bool {
	if p.MediumID != "" && it.MediumID != p.MediumID {
		return false
	}
	if p.Placement != model.PlacementNone && !it.Flags().Has(p.Placement) {
		return false
	}
	if p.Text != "" && !p.matchText(func(f Field) string { return itemText(it, f) }) {
		return false
	}
	if p.Rating != nil && (it.Rating < p.Rating.Min || it.Rating > p.Rating.Max) {
		return false
	}
	if !p.Since.IsZero() && it.CreatedAt.Before(p.Since) {
		return false
	}
	return true
}

// MatchMedium reports whether m satisfies the text and date filters in p.
func (p Plan) MatchMedium(m *model.Medium) bool {
	if p.Text != "" && !p.matchText(func(f Field) string { return mediumText(m, f) }) {
		return false
	}
	if !p.Since.IsZero() && m.CreatedAt.Before(p.Since) {
		return false
	}
	return true
}

func (p Plan) matchText(value func(Field) string) bool {
	for _, f := range p.TextFields {
		if strings.Contains(Fold(value(f)), p.Text) {
			return true
		}
	}
	return false
}

func itemText(it *model.Item, f Field) string {
	switch f {
	case FieldTitle:
		return it.Title
	case FieldCreator:
		return it.Creator
	case FieldDescription:
		return it.Description
	}
	return ""
}

func mediumText(m *model.Medium, f Field) string {
	switch f {
	case FieldTitle:
		return m.Title
	case FieldDescription:
		return m.Description
	}
	return ""
}

// CompareItems orders two items according to p.
func (p Plan) CompareItems(a, b *model.Item) int {
	for _, o := range p.Order {
		var c int
		switch o.Field {
		case FieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case FieldRating:
			c = cmp.Compare(a.Rating, b.Rating)
		case FieldTitle:
			c = strings.Compare(a.Title, b.Title)
		case FieldLiked:
			c = compareBool(a.IsLiked, b.IsLiked)
		case FieldID:
			c = strings.Compare(a.ID, b.ID)
		}
		if o.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// CompareMediums orders two mediums according to p.
func (p Plan) CompareMediums(a, b *model.Medium) int {
	for _, o := range p.Order {
		var c int
		switch o.Field {
		case FieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case FieldTitle:
			c = strings.Compare(a.Title, b.Title)
		case FieldID:
			c = strings.Compare(a.ID, b.ID)
		}
		if o.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}
