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

func TestCreateAndGetMedium(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	m := mustMedium(t, s, "Books")
	if m.ID == "" {
		t.Fatal("expected generated id")
	}
	if !m.CreatedAt.Equal(m.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", m.CreatedAt, m.UpdatedAt)
	}

	got, err := s.GetMedium(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMedium: %v", err)
	}
	if got.Title != "Books" || !got.CreatedAt.Equal(m.CreatedAt) {
		t.Errorf("got %+v, want %+v", got, m)
	}
}

func TestGetMediumNotFound(t *testing.T) {
	s := newTestStore(t, time.Now())

	_, err := s.GetMedium(context.Background(), "missing")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMedium(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	m := mustMedium(t, s, "Books")

	title, blank := "Novels", "  "
	got, err := s.UpdateMedium(ctx, m.ID, model.MediumPatch{Title: &title, Description: &blank})
	if err != nil {
		t.Fatalf("UpdateMedium: %v", err)
	}
	if got.Title != "Novels" {
		t.Errorf("title = %q, want Novels", got.Title)
	}
	if got.Description != m.Description {
		t.Errorf("blank description overwrote %q with %q", m.Description, got.Description)
	}
	if !got.UpdatedAt.After(m.UpdatedAt) {
		t.Errorf("updatedAt not advanced: %v", got.UpdatedAt)
	}

	if _, err := s.UpdateMedium(ctx, "missing", model.MediumPatch{Title: &title}); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMediumCascades(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	books := mustMedium(t, s, "Books")
	movies := mustMedium(t, s, "Movies")
	for _, title := range []string{"Dune", "Emma", "Ubik"} {
		mustItem(t, s, model.ItemInput{Title: title, MediumID: books.ID})
	}
	mustItem(t, s, model.ItemInput{Title: "Alien", MediumID: movies.ID})

	removed, err := s.DeleteMedium(ctx, books.ID)
	if err != nil {
		t.Fatalf("DeleteMedium: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	left, err := s.SearchItems(ctx, query.ListPlan(books.ID, model.PlacementNone))
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("%d items still reference the deleted medium", len(left))
	}

	all, _ := s.SearchItems(ctx, query.ListPlan("", model.PlacementNone))
	if len(all) != 1 || all[0].Title != "Alien" {
		t.Errorf("unrelated items affected: %+v", all)
	}

	if _, err := s.GetMedium(ctx, books.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected deleted medium to be gone, got %v", err)
	}
	if _, err := s.DeleteMedium(ctx, books.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSearchMediums(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	mustMedium(t, s, "Movies")
	mustMedium(t, s, "Books")
	mustMedium(t, s, "Comic Books")

	c := query.DefaultCriteria()
	c.Text = "BOOK"
	c.Sort = query.SortName
	got, err := s.SearchMediums(ctx, c.MediumPlan())
	if err != nil {
		t.Fatalf("SearchMediums: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Books" || got[1].Title != "Comic Books" {
		t.Errorf("got %+v", got)
	}

	all, _ := s.SearchMediums(ctx, query.ListPlan("", model.PlacementNone))
	if len(all) != 3 || all[0].Title != "Comic Books" {
		t.Errorf("expected newest first, got %+v", all)
	}
}
