package model

import (
	"strings"
	"time"
)

// MaxRating is the upper bound of the rating scale.
const MaxRating = 5.0

// Item is a single catalogued work belonging to one medium.
type Item struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title" bson:"title"`
	Creator      string    `json:"creator" bson:"creator"`
	ImageURL     string    `json:"imageUrl" bson:"imageUrl"`
	Rating       float64   `json:"rating" bson:"rating"`
	Description  string    `json:"description" bson:"description"`
	MediumID     string    `json:"medium" bson:"medium"`
	IsWishlist   bool      `json:"isWishlist" bson:"isWishlist"`
	IsLiked      bool      `json:"isLiked" bson:"isLiked"`
	IsConsumed   bool      `json:"isConsumed" bson:"isConsumed"`
	IsInProgress bool      `json:"isInProgress" bson:"isInProgress"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`

	// Joined fields (not always populated).
	Medium *MediumSummary `json:"mediumDetail,omitempty" bson:"-"`
}

// Flags returns the item's status flags.
func (it *Item) Flags() Flags {
	return Flags{
		Wishlist:   it.IsWishlist,
		InProgress: it.IsInProgress,
		Consumed:   it.IsConsumed,
		Liked:      it.IsLiked,
	}
}

// SetFlags overwrites the item's status flags.
func (it *Item) SetFlags(f Flags) {
	it.IsWishlist = f.Wishlist
	it.IsInProgress = f.InProgress
	it.IsConsumed = f.Consumed
	it.IsLiked = f.Liked
}

// ItemInput holds the fields accepted when creating an item.
type ItemInput struct {
	Title        string  `json:"title" validate:"required"`
	Creator      string  `json:"creator" validate:"required"`
	ImageURL     string  `json:"imageUrl" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	MediumID     string  `json:"medium" validate:"required"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	IsWishlist   bool    `json:"isWishlist"`
	IsLiked      bool    `json:"isLiked"`
	IsConsumed   bool    `json:"isConsumed"`
	IsInProgress bool    `json:"isInProgress"`
}

// Normalize trims surrounding whitespace from all string fields.
func (in *ItemInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Creator = strings.TrimSpace(in.Creator)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Description = strings.TrimSpace(in.Description)
	in.MediumID = strings.TrimSpace(in.MediumID)
}

// Flags resolves the requested flags of a new item. A new item starts with no
// placement, so the same transition rules as for updates apply.
func (in *ItemInput) Flags() (Flags, error) {
	return ApplyPlacement(Flags{}, FlagPatch{
		Wishlist:   &in.IsWishlist,
		InProgress: &in.IsInProgress,
		Consumed:   &in.IsConsumed,
		Liked:      &in.IsLiked,
	})
}

// ItemPatch is a partial item update. Nil fields and blank strings are left
// unchanged.
type ItemPatch struct {
	Title       *string  `json:"title"`
	Creator     *string  `json:"creator"`
	ImageURL    *string  `json:"imageUrl"`
	Description *string  `json:"description"`
	MediumID    *string  `json:"medium"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	FlagPatch
}

// NewMediumID returns the requested medium reference, or "" if unchanged.
func (p ItemPatch) NewMediumID() string {
	if p.MediumID == nil {
		return ""
	}
	return strings.TrimSpace(*p.MediumID)
}

// Apply copies the present fields onto it and resolves the status flags.
// On error it is left unmodified.
func (p ItemPatch) Apply(it *Item) error {
	flags, err := ApplyPlacement(it.Flags(), p.FlagPatch)
	if err != nil {
		return err
	}

	setString(&it.Title, p.Title)
	setString(&it.Creator, p.Creator)
	setString(&it.ImageURL, p.ImageURL)
	setString(&it.Description, p.Description)
	setString(&it.MediumID, p.MediumID)
	if p.Rating != nil {
		it.Rating = *p.Rating
	}
	it.SetFlags(flags)
	return nil
}
