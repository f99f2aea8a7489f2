package query

import (
	"slices"

	"github.com/erazemk/katalog/internal/model"
)

// Items returns the items matching p in p's order. The input is not modified.
func Items(items []model.Item, p Plan) []model.Item {
	out := make([]model.Item, 0, len(items))
	for i := range items {
		if p.MatchItem(&items[i]) {
			out = append(out, items[i])
		}
	}
	slices.SortStableFunc(out, func(a, b model.Item) int {
		return p.CompareItems(&a, &b)
	})
	return out
}

// Mediums returns the mediums matching p in p's order. The input is not modified.
func Mediums(mediums []model.Medium, p Plan) []model.Medium {
	out := make([]model.Medium, 0, len(mediums))
	for i := range mediums {
		if p.MatchMedium(&mediums[i]) {
			out = append(out, mediums[i])
		}
	}
	slices.SortStableFunc(out, func(a, b model.Medium) int {
		return p.CompareMediums(&a, &b)
	})
	return out
}
