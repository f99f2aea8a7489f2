package model

import (
	"errors"
	"fmt"
)

// Placement is the mutually exclusive tracking state of an item.
type Placement string

// Placements. PlacementNone is the untracked state.
const (
	PlacementNone       Placement = ""
	PlacementWishlist   Placement = "wishlist"
	PlacementInProgress Placement = "inprogress"
	PlacementConsumed   Placement = "consumed"
)

// Placements lists the tracked placements in display order.
var Placements = []Placement{PlacementWishlist, PlacementInProgress, PlacementConsumed}

// ErrConflictingPlacement is returned when more than one placement flag is
// requested true in the same change.
var ErrConflictingPlacement = errors.New("only one of isWishlist, isInProgress and isConsumed can be set")

// ParsePlacement parses a placement name. The empty string is PlacementNone.
func ParsePlacement(s string) (Placement, error) {
	switch p := Placement(s); p {
	case PlacementNone, PlacementWishlist, PlacementInProgress, PlacementConsumed:
		return p, nil
	}
	return PlacementNone, fmt.Errorf("unknown placement %q", s)
}

// Flags is the full status flag set of an item.
type Flags struct {
	Wishlist   bool
	InProgress bool
	Consumed   bool
	Liked      bool
}

// Placement reports the flag set's placement. If several placement flags are
// set (data written around ApplyPlacement) the first in Placements order wins.
func (f Flags) Placement() Placement {
	switch {
	case f.Wishlist:
		return PlacementWishlist
	case f.InProgress:
		return PlacementInProgress
	case f.Consumed:
		return PlacementConsumed
	}
	return PlacementNone
}

// Has reports whether the placement flag p is set.
func (f Flags) Has(p Placement) bool {
	switch p {
	case PlacementWishlist:
		return f.Wishlist
	case PlacementInProgress:
		return f.InProgress
	case PlacementConsumed:
		return f.Consumed
	}
	return false
}

// FlagPatch is a requested change to an item's flags. Nil fields are absent.
type FlagPatch struct {
	Wishlist   *bool `json:"isWishlist"`
	InProgress *bool `json:"isInProgress"`
	Consumed   *bool `json:"isConsumed"`
	Liked      *bool `json:"isLiked"`
}

// ApplyPlacement resolves a requested flag change against the current flags.
//
// Setting a placement flag true clears the other two placement flags. Setting
// one false leaves the others alone, so the item may end up untracked. Liked is
// independent of placement. Requesting two placement flags true at once is
// rejected with ErrConflictingPlacement.
func ApplyPlacement(current Flags, req FlagPatch) (Flags, error) {
	next := current
	var target Placement
	requested := 0

	for _, c := range []struct {
		p   Placement
		v   *bool
		dst *bool
	}{
		{PlacementWishlist, req.Wishlist, &next.Wishlist},
		{PlacementInProgress, req.InProgress, &next.InProgress},
		{PlacementConsumed, req.Consumed, &next.Consumed},
	} {
		if c.v == nil {
			continue
		}
		if *c.v {
			target = c.p
			requested++
			continue
		}
		*c.dst = false
	}

	if requested > 1 {
		return current, ErrConflictingPlacement
	}
	if requested == 1 {
		next.Wishlist = target == PlacementWishlist
		next.InProgress = target == PlacementInProgress
		next.Consumed = target == PlacementConsumed
	}

	if req.Liked != nil {
		next.Liked = *req.Liked
	}
	return next, nil
}
