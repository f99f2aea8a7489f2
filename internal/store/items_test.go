package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

func ptr[T any](v T) *T { return &v }

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	books := mustMedium(t, s, "Books")

	it := mustItem(t, s, model.ItemInput{Title: " Dune ", Creator: "Frank Herbert", Rating: 5, MediumID: books.ID})
	if it.Title != "Dune" {
		t.Errorf("title = %q, want trimmed", it.Title)
	}
	if it.Rating != 5 || it.IsWishlist || it.IsConsumed || it.IsInProgress || it.IsLiked {
		t.Errorf("unexpected defaults: %+v", it)
	}
	if it.Medium == nil || it.Medium.Title != "Books" {
		t.Errorf("mediumDetail = %+v", it.Medium)
	}

	got, err := s.GetItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Creator != "Frank Herbert" || got.MediumID != books.ID {
		t.Errorf("got %+v", got)
	}
}

func TestCreateItemUnknownMedium(t *testing.T) {
	s := newTestStore(t, time.Now())

	_, err := s.CreateItem(context.Background(), model.ItemInput{
		Title: "Dune", Creator: "Frank Herbert", ImageURL: "x", Description: "y", MediumID: "missing",
	})
	if !errors.Is(err, catalog.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCreateItemConflictingPlacement(t *testing.T) {
	s := newTestStore(t, time.Now())
	books := mustMedium(t, s, "Books")

	_, err := s.CreateItem(context.Background(), model.ItemInput{
		Title: "Dune", Creator: "a", ImageURL: "b", Description: "c", MediumID: books.ID,
		IsWishlist: true, IsConsumed: true,
	})
	if !errors.Is(err, catalog.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestUpdateItemPlacementTransitions(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	books := mustMedium(t, s, "Books")
	dune := mustItem(t, s, model.ItemInput{Title: "Dune", Rating: 5, MediumID: books.ID})

	it, err := s.UpdateItem(ctx, dune.ID, model.ItemPatch{FlagPatch: model.FlagPatch{Wishlist: ptr(true)}})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if !it.IsWishlist || it.IsConsumed || it.IsInProgress {
		t.Errorf("after wishlist: %+v", it.Flags())
	}
	if it.Rating != 5 {
		t.Errorf("rating cleared by wishlist: %v", it.Rating)
	}

	it, err = s.UpdateItem(ctx, dune.ID, model.ItemPatch{FlagPatch: model.FlagPatch{Consumed: ptr(true), Liked: ptr(true)}})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if it.IsWishlist || !it.IsConsumed || it.IsInProgress || !it.IsLiked {
		t.Errorf("after consumed: %+v", it.Flags())
	}

	it, err = s.UpdateItem(ctx, dune.ID, model.ItemPatch{FlagPatch: model.FlagPatch{Consumed: ptr(false)}})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if it.Flags().Placement() != model.PlacementNone || !it.IsLiked {
		t.Errorf("after clearing consumed: %+v", it.Flags())
	}

	_, err = s.UpdateItem(ctx, dune.ID, model.ItemPatch{FlagPatch: model.FlagPatch{Wishlist: ptr(true), InProgress: ptr(true)}})
	if !errors.Is(err, catalog.ErrInvalid) {
		t.Errorf("expected ErrInvalid for conflicting flags, got %v", err)
	}
}

func TestUpdateItemMoveMedium(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	books := mustMedium(t, s, "Books")
	movies := mustMedium(t, s, "Movies")
	dune := mustItem(t, s, model.ItemInput{Title: "Dune", MediumID: books.ID})

	it, err := s.UpdateItem(ctx, dune.ID, model.ItemPatch{MediumID: ptr(movies.ID), Rating: ptr(4.5)})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if it.MediumID != movies.ID || it.Medium.Title != "Movies" || it.Rating != 4.5 {
		t.Errorf("got %+v", it)
	}

	if _, err := s.UpdateItem(ctx, dune.ID, model.ItemPatch{MediumID: ptr("missing")}); !errors.Is(err, catalog.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := s.UpdateItem(ctx, "missing", model.ItemPatch{Title: ptr("x")}); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t, time.Now())
	ctx := context.Background()
	books := mustMedium(t, s, "Books")
	dune := mustItem(t, s, model.ItemInput{Title: "Dune", MediumID: books.ID})

	if err := s.DeleteItem(ctx, dune.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := s.GetItem(ctx, dune.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteItem(ctx, dune.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCountByMedium(t *testing.T) {
	s := newTestStore(t, time.Now())
	ctx := context.Background()
	books := mustMedium(t, s, "Books")
	movies := mustMedium(t, s, "Movies")

	mustItem(t, s, model.ItemInput{Title: "Dune", MediumID: books.ID, IsWishlist: true})
	mustItem(t, s, model.ItemInput{Title: "Emma", MediumID: books.ID, IsWishlist: true})
	mustItem(t, s, model.ItemInput{Title: "Ubik", MediumID: books.ID, IsConsumed: true})
	mustItem(t, s, model.ItemInput{Title: "Alien", MediumID: movies.ID, IsConsumed: true})

	wish, err := s.CountByMedium(ctx, model.PlacementWishlist)
	if err != nil {
		t.Fatalf("CountByMedium: %v", err)
	}
	if len(wish) != 1 || wish[books.ID] != 2 {
		t.Errorf("wishlist counts = %v", wish)
	}

	all, _ := s.CountByMedium(ctx, model.PlacementNone)
	if all[books.ID] != 3 || all[movies.ID] != 1 {
		t.Errorf("all counts = %v", all)
	}

	inProgress, _ := s.CountByMedium(ctx, model.PlacementInProgress)
	if len(inProgress) != 0 {
		t.Errorf("in-progress counts = %v", inProgress)
	}
}

func TestImages(t *testing.T) {
	s := newTestStore(t, time.Now())
	ctx := context.Background()
	books := mustMedium(t, s, "Books")

	if _, err := s.GetImage(ctx, catalog.KindMedium, books.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound before upload, got %v", err)
	}

	img := catalog.Image{Data: []byte{0xff, 0xd8, 0xff}, MIME: "image/jpeg", URL: "/api/images/mediums/" + books.ID}
	if err := s.SetImage(ctx, catalog.KindMedium, books.ID, img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	got, err := s.GetImage(ctx, catalog.KindMedium, books.ID)
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if string(got.Data) != string(img.Data) || got.MIME != "image/jpeg" {
		t.Errorf("got %+v", got)
	}

	m, _ := s.GetMedium(ctx, books.ID)
	if m.ImageURL != img.URL {
		t.Errorf("imageUrl = %q, want %q", m.ImageURL, img.URL)
	}

	if err := s.SetImage(ctx, catalog.KindItem, "missing", img); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchItemsPlacementScope(t *testing.T) {
	s := newTestStore(t, time.Now())
	ctx := context.Background()
	books := mustMedium(t, s, "Books")
	movies := mustMedium(t, s, "Movies")

	mustItem(t, s, model.ItemInput{Title: "Dune", MediumID: books.ID, IsWishlist: true})
	mustItem(t, s, model.ItemInput{Title: "Emma", MediumID: books.ID})
	mustItem(t, s, model.ItemInput{Title: "Alien", MediumID: movies.ID, IsWishlist: true})

	got, err := s.SearchItems(ctx, query.ListPlan("", model.PlacementWishlist))
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Alien" || got[1].Title != "Dune" {
		t.Errorf("wishlist = %+v", got)
	}

	got, _ = s.SearchItems(ctx, query.ListPlan(books.ID, model.PlacementWishlist))
	if len(got) != 1 || got[0].Title != "Dune" {
		t.Errorf("scoped wishlist = %+v", got)
	}
}
