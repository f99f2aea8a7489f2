package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/katalog/internal/model"
)

// DateFilter selects items by when they were added.
type DateFilter string

// Date filters.
const (
	DateAll   DateFilter = "all"
	DateToday DateFilter = "today"
	DateWeek  DateFilter = "week"
	DateMonth DateFilter = "month"
	DateYear  DateFilter = "year"
)

// Since returns the start of the bucket relative to now, in now's location.
// The zero time means no lower bound.
func (d DateFilter) Since(now time.Time) time.Time {
	y, m, day := now.Date()
	loc := now.Location()

	switch d {
	case DateToday:
		return time.Date(y, m, day, 0, 0, 0, 0, loc)
	case DateWeek:
		// A rolling seven days, not a calendar week.
		return now.Add(-7 * 24 * time.Hour)
	case DateMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case DateYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
	return time.Time{}
}

func parseDateFilter(s string) (DateFilter, error) {
	switch d := DateFilter(s); d {
	case "":
		return DateAll, nil
	case DateAll, DateToday, DateWeek, DateMonth, DateYear:
		return d, nil
	}
	return "", fmt.Errorf("unknown dateFilter %q", s)
}

// SortKey names a result ordering.
type SortKey string

// Sort keys.
const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortRatingHigh SortKey = "rating-high"
	SortRatingLow  SortKey = "rating-low"
	SortLiked      SortKey = "liked"
	SortName       SortKey = "name"
)

// itemSorts and mediumSorts list the sort keys valid for each record kind.
var (
	itemSorts   = []SortKey{SortNewest, SortOldest, SortRatingHigh, SortRatingLow, SortLiked, SortName}
	mediumSorts = []SortKey{SortNewest, SortOldest, SortName}
)

func parseSortKey(s string, allowed []SortKey) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	for _, k := range allowed {
		if SortKey(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sortBy %q", s)
}

// Criteria is a user-facing search request.
type Criteria struct {
	Text      string
	RatingMin float64
	RatingMax float64
	Date      DateFilter
	Sort      SortKey

	// Optional scoping.
	MediumID  string
	Placement model.Placement
}

// DefaultCriteria matches every record, newest first.
func DefaultCriteria() Criteria {
	return Criteria{
		RatingMin: 0,
		RatingMax: model.MaxRating,
		Date:      DateAll,
		Sort:      SortNewest,
	}
}

// ParseItemCriteria reads item search parameters: query, ratingMin, ratingMax,
// dateFilter, sortBy, medium and placement. Absent parameters take their
// defaults.
func ParseItemCriteria(v url.Values) (Criteria, error) {
	c := DefaultCriteria()
	c.Text = v.Get("query")
	c.MediumID = strings.TrimSpace(v.Get("medium"))

	var err error
	if c.RatingMin, err = parseRating(v, "ratingMin", c.RatingMin); err != nil {
		return c, err
	}
	if c.RatingMax, err = parseRating(v, "ratingMax", c.RatingMax); err != nil {
		return c, err
	}
	if c.Date, err = parseDateFilter(v.Get("dateFilter")); err != nil {
		return c, err
	}
	if c.Sort, err = parseSortKey(v.Get("sortBy"), itemSorts); err != nil {
		return c, err
	}
	if c.Placement, err = model.ParsePlacement(v.Get("placement")); err != nil {
		return c, err
	}
	return c, nil
}

// ParseMediumCriteria reads medium search parameters: query and sortBy.
func ParseMediumCriteria(v url.Values) (Criteria, error) {
	c := DefaultCriteria()
	c.Text = v.Get("query")

	var err error
	if c.Sort, err = parseSortKey(v.Get("sortBy"), mediumSorts); err != nil {
		return c, err
	}
	return c, nil
}

func parseRating(v url.Values, key string, def float64) (float64, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}
